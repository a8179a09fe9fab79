package dto

import (
	"github.com/mietwerk/mietwerk/internal/domain/occupancy"
	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
)

// UnitOccupancyDTO is the occupancy snapshot of one rental unit and its subtree.
type UnitOccupancyDTO struct {
	UnitID         uint                  `json:"unit_id"`
	Name           string                `json:"name"`
	Kind           string                `json:"kind"`
	ParentID       *uint                 `json:"parent_id,omitempty"`
	Capacity       int                   `json:"capacity"`
	ConsumedSlots  int                   `json:"consumed_slots"`
	AvailableSlots int                   `json:"available_slots"`
	FullyOccupied  bool                  `json:"fully_occupied"`
	Available      bool                  `json:"available"`
	HierarchyLevel int                   `json:"hierarchy_level"`
	RootID         uint                  `json:"root_id"`
	Aggregate      AggregateOccupancyDTO `json:"aggregate"`
}

// AggregateOccupancyDTO sums the unit and all its descendants.
type AggregateOccupancyDTO struct {
	UnitCount      int  `json:"unit_count"`
	Capacity       int  `json:"capacity"`
	ConsumedSlots  int  `json:"consumed_slots"`
	AvailableSlots int  `json:"available_slots"`
	Available      bool `json:"available"`
}

// ToUnitOccupancyDTO assembles the snapshot. available is the cached flag stored on the unit.
func ToUnitOccupancyDTO(
	unit *rentalunit.RentalUnit,
	slots occupancy.SlotSummary,
	aggregate *occupancy.HierarchySummary,
	level int,
	rootID uint,
) *UnitOccupancyDTO {
	return &UnitOccupancyDTO{
		UnitID:         unit.ID(),
		Name:           unit.Name(),
		Kind:           unit.Kind().String(),
		ParentID:       unit.ParentID(),
		Capacity:       slots.Capacity,
		ConsumedSlots:  slots.Consumed,
		AvailableSlots: slots.AvailableSlots(),
		FullyOccupied:  slots.IsFullyOccupied(),
		Available:      unit.Available(),
		HierarchyLevel: level,
		RootID:         rootID,
		Aggregate: AggregateOccupancyDTO{
			UnitCount:      aggregate.UnitCount,
			Capacity:       aggregate.Slots.Capacity,
			ConsumedSlots:  aggregate.Slots.Consumed,
			AvailableSlots: aggregate.Slots.AvailableSlots(),
			Available:      aggregate.IsAvailable(),
		},
	}
}
