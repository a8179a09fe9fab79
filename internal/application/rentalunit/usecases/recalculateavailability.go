package usecases

import (
	"context"

	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// RecalculateAvailabilityCommand selects one unit, or all units when UnitID is nil.
type RecalculateAvailabilityCommand struct {
	UnitID *uint
}

type RecalculateAvailabilityResult struct {
	// Changed counts units whose flag actually flipped
	Changed int
}

type RecalculateAvailabilityUseCase struct {
	synchronizer AvailabilitySynchronizer
	logger       logger.Interface
}

func NewRecalculateAvailabilityUseCase(synchronizer AvailabilitySynchronizer, logger logger.Interface) *RecalculateAvailabilityUseCase {
	return &RecalculateAvailabilityUseCase{
		synchronizer: synchronizer,
		logger:       logger,
	}
}

func (uc *RecalculateAvailabilityUseCase) Execute(ctx context.Context, cmd RecalculateAvailabilityCommand) (*RecalculateAvailabilityResult, error) {
	if cmd.UnitID == nil {
		changed, err := uc.synchronizer.SynchronizeAll(ctx)
		if err != nil {
			uc.logger.Errorw("availability recalculation failed", "error", err, "changed_before_failure", changed)
			return nil, err
		}
		return &RecalculateAvailabilityResult{Changed: changed}, nil
	}

	changed, err := uc.synchronizer.Synchronize(ctx, *cmd.UnitID)
	if err != nil {
		uc.logger.Errorw("availability recalculation failed", "error", err, "unit_id", *cmd.UnitID)
		return nil, err
	}
	result := &RecalculateAvailabilityResult{}
	if changed {
		result.Changed = 1
	}
	uc.logger.Infow("availability recalculated", "unit_id", *cmd.UnitID, "changed", result.Changed)
	return result, nil
}
