package occupancy

// HierarchySummary aggregates capacity and consumption over a unit and all its descendants.
type HierarchySummary struct {
	UnitID    uint        `json:"unit_id"`
	UnitCount int         `json:"unit_count"`
	Slots     SlotSummary `json:"slots"`
}

// IsAvailable reports whether the subtree has at least one free slot.
func (h HierarchySummary) IsAvailable() bool {
	return h.Slots.IsAvailable()
}
