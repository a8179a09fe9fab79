// Package services holds the occupancy read and write paths shared by contract and
// rental unit usecases.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/domain/occupancy"
	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/shared/biztime"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// CapacityLedger loads consumed capacity slots for sets of units.
// Only currently active contracts count, evaluated against the clock's business date.
type CapacityLedger struct {
	contractRepo   contract.Repository
	assignmentRepo contract.AssignmentRepository
	clock          biztime.Clock
	logger         logger.Interface
}

// NewCapacityLedger creates a new CapacityLedger
func NewCapacityLedger(
	contractRepo contract.Repository,
	assignmentRepo contract.AssignmentRepository,
	clock biztime.Clock,
	logger logger.Interface,
) *CapacityLedger {
	return &CapacityLedger{
		contractRepo:   contractRepo,
		assignmentRepo: assignmentRepo,
		clock:          clock,
		logger:         logger,
	}
}

// Today returns the business date the ledger evaluates against.
func (l *CapacityLedger) Today() time.Time {
	return l.clock.Today()
}

// Load builds a ledger for unitIDs. The number of queries does not depend on len(unitIDs):
// assignments of active contracts (with their contracts) and active legacy-linked contracts.
func (l *CapacityLedger) Load(ctx context.Context, unitIDs []uint) (*occupancy.Ledger, error) {
	ledger := occupancy.NewLedger()
	if len(unitIDs) == 0 {
		return ledger, nil
	}
	today := l.clock.Today()

	bindings, err := l.assignmentRepo.ListBindingsByUnitIDs(ctx, unitIDs, contract.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	for _, b := range bindings {
		if b.Contract.IsCurrentlyActive(today) {
			ledger.AddAssignment(b.Assignment.UnitID(), b.Contract.ID(), b.Assignment.Quantity())
		}
	}

	legacy, err := l.contractRepo.ListByLegacyUnitIDs(ctx, unitIDs, contract.StatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy contracts: %w", err)
	}
	for _, c := range legacy {
		if unitID := c.LegacyUnitID(); unitID != nil && c.IsCurrentlyActive(today) {
			ledger.AddLegacy(*unitID, c.ID())
		}
	}

	return ledger, nil
}

// ConsumedSlots returns the slots currently consumed on one unit.
func (l *CapacityLedger) ConsumedSlots(ctx context.Context, unitID uint) (int, error) {
	ledger, err := l.Load(ctx, []uint{unitID})
	if err != nil {
		return 0, err
	}
	return ledger.Consumed(unitID), nil
}

// Summary returns capacity and consumption of one unit.
func (l *CapacityLedger) Summary(ctx context.Context, unit *rentalunit.RentalUnit) (occupancy.SlotSummary, error) {
	consumed, err := l.ConsumedSlots(ctx, unit.ID())
	if err != nil {
		return occupancy.SlotSummary{}, err
	}
	return occupancy.SlotSummary{Capacity: unit.Capacity(), Consumed: consumed}, nil
}
