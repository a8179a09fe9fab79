package services

import (
	"context"
	"fmt"

	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/shared/constants"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
	"github.com/mietwerk/mietwerk/internal/shared/utils/setutil"
)

// AvailabilitySynchronizer keeps RentalUnit.available in line with the capacity ledger.
// It is the only writer of the flag.
type AvailabilitySynchronizer struct {
	unitRepo  rentalunit.Repository
	ledger    *CapacityLedger
	batchSize int
	logger    logger.Interface
}

// NewAvailabilitySynchronizer creates a new AvailabilitySynchronizer.
// batchSize bounds how many units SynchronizeAll loads per round.
func NewAvailabilitySynchronizer(
	unitRepo rentalunit.Repository,
	ledger *CapacityLedger,
	batchSize int,
	logger logger.Interface,
) *AvailabilitySynchronizer {
	if batchSize <= 0 {
		batchSize = constants.DefaultReconcileBatchSize
	}
	return &AvailabilitySynchronizer{
		unitRepo:  unitRepo,
		ledger:    ledger,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Synchronize recomputes the flag of one unit and reports whether it changed.
func (s *AvailabilitySynchronizer) Synchronize(ctx context.Context, unitID uint) (bool, error) {
	unit, err := s.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return false, err
	}
	if unit == nil {
		return false, rentalunit.NewNotFoundError(unitID)
	}

	ledger, err := s.ledger.Load(ctx, []uint{unitID})
	if err != nil {
		return false, err
	}
	return s.apply(ctx, unit, ledger.Summary(unitID, unit.Capacity()).IsAvailable())
}

// SynchronizeUnits synchronizes each distinct unit once and returns how many changed.
func (s *AvailabilitySynchronizer) SynchronizeUnits(ctx context.Context, unitIDs ...uint) (int, error) {
	ids := setutil.NewUintSetWithCap(len(unitIDs))
	ids.Add(unitIDs...)

	changed := 0
	for _, id := range ids.ToSlice() {
		ok, err := s.Synchronize(ctx, id)
		if err != nil {
			return changed, fmt.Errorf("failed to synchronize unit %d: %w", id, err)
		}
		if ok {
			changed++
		}
	}
	return changed, nil
}

// SynchronizeAll walks every unit in ID order, one ledger load per batch,
// and returns how many flags changed.
func (s *AvailabilitySynchronizer) SynchronizeAll(ctx context.Context) (int, error) {
	var afterID uint
	processed, changed := 0, 0

	for {
		if err := ctx.Err(); err != nil {
			return changed, err
		}

		units, err := s.unitRepo.ListAfter(ctx, afterID, s.batchSize)
		if err != nil {
			return changed, err
		}
		if len(units) == 0 {
			break
		}

		ids := make([]uint, 0, len(units))
		for _, u := range units {
			ids = append(ids, u.ID())
		}
		ledger, err := s.ledger.Load(ctx, ids)
		if err != nil {
			return changed, err
		}

		for _, u := range units {
			ok, err := s.apply(ctx, u, ledger.Summary(u.ID(), u.Capacity()).IsAvailable())
			if err != nil {
				return changed, err
			}
			if ok {
				changed++
			}
		}

		processed += len(units)
		afterID = units[len(units)-1].ID()
	}

	s.logger.Infow("availability reconciliation finished", "processed", processed, "changed", changed)
	return changed, nil
}

// Name identifies the reconciliation job.
func (s *AvailabilitySynchronizer) Name() string {
	return "availability-reconcile"
}

// Execute runs a full reconciliation; it lets the scheduler drive the synchronizer.
func (s *AvailabilitySynchronizer) Execute(ctx context.Context) (int, error) {
	return s.SynchronizeAll(ctx)
}

func (s *AvailabilitySynchronizer) apply(ctx context.Context, unit *rentalunit.RentalUnit, available bool) (bool, error) {
	if !unit.SetAvailable(available) {
		return false, nil
	}
	if err := s.unitRepo.UpdateAvailability(ctx, unit.ID(), available); err != nil {
		return false, err
	}
	s.logger.Infow("rental unit availability changed", "unit_id", unit.ID(), "available", available)
	return true, nil
}
