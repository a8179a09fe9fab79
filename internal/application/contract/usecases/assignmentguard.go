package usecases

import (
	"context"
	"fmt"
	"sort"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/domain/occupancy"
	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// AssignmentGuard validates assignment writes against unit capacity.
// It must run inside the transaction that performs the write: the target unit row is
// locked before the ledger is read, so concurrent writers on one unit are serialized.
type AssignmentGuard struct {
	unitRepo rentalunit.Repository
	ledger   CapacityLedger
	logger   logger.Interface
}

// NewAssignmentGuard creates a new AssignmentGuard
func NewAssignmentGuard(unitRepo rentalunit.Repository, ledger CapacityLedger, logger logger.Interface) *AssignmentGuard {
	return &AssignmentGuard{
		unitRepo: unitRepo,
		ledger:   ledger,
		logger:   logger,
	}
}

// Check validates one assignment of c. The contract's own contribution to the unit is
// left out of the consumed count, so updates and re-validation see the unit as if the
// assignment did not exist yet.
func (g *AssignmentGuard) Check(ctx context.Context, c *contract.Contract, a *contract.Assignment) error {
	unit, err := g.unitRepo.GetByIDForUpdate(ctx, a.UnitID())
	if err != nil {
		return fmt.Errorf("failed to lock rental unit: %w", err)
	}
	if unit == nil {
		return rentalunit.NewNotFoundError(a.UnitID())
	}

	check := a.Check()
	check.ContractCurrentlyActive = c.IsCurrentlyActive(g.ledger.Today())
	check.UnitCapacity = unit.Capacity()

	if check.ContractCurrentlyActive {
		ledger, err := g.ledger.Load(ctx, []uint{unit.ID()})
		if err != nil {
			return err
		}
		check.AlreadyConsumed = ledger.ConsumedExcluding(unit.ID(), c.ID())
	}

	if err := occupancy.ValidateAssignment(check); err != nil {
		g.logger.Infow("assignment rejected",
			"contract_id", c.ID(),
			"unit_id", unit.ID(),
			"quantity", check.Quantity,
			"capacity", check.UnitCapacity,
			"already_consumed", check.AlreadyConsumed,
			"error", err,
		)
		return err
	}
	return nil
}

// CheckAll validates several assignments of c, locking units in ascending ID order.
func (g *AssignmentGuard) CheckAll(ctx context.Context, c *contract.Contract, assignments []*contract.Assignment) error {
	sorted := make([]*contract.Assignment, len(assignments))
	copy(sorted, assignments)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].UnitID() < sorted[j].UnitID()
	})
	for _, a := range sorted {
		if err := g.Check(ctx, c, a); err != nil {
			return err
		}
	}
	return nil
}
