package usecases

import (
	"context"

	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// occupancyEffects applies the follow-ups of a write that touched unit occupancy:
// availability flags inside the transaction, cached summaries after commit.
type occupancyEffects struct {
	synchronizer AvailabilitySynchronizer
	invalidator  OccupancyInvalidator
	logger       logger.Interface
}

func (e occupancyEffects) synchronize(ctx context.Context, unitIDs []uint) error {
	if len(unitIDs) == 0 {
		return nil
	}
	changed, err := e.synchronizer.SynchronizeUnits(ctx, unitIDs...)
	if err != nil {
		return err
	}
	if changed > 0 {
		e.logger.Debugw("availability updated after write", "units", len(unitIDs), "changed", changed)
	}
	return nil
}

func (e occupancyEffects) invalidate(ctx context.Context, unitIDs []uint) {
	if len(unitIDs) == 0 || e.invalidator == nil {
		return
	}
	e.invalidator.Invalidate(ctx, unitIDs...)
}
