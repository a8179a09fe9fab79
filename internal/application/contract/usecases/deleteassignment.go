package usecases

import (
	"context"
	"fmt"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

type DeleteAssignmentUseCase struct {
	assignmentRepo contract.AssignmentRepository
	effects        occupancyEffects
	txMgr          *db.TransactionManager
	logger         logger.Interface
}

func NewDeleteAssignmentUseCase(
	assignmentRepo contract.AssignmentRepository,
	synchronizer AvailabilitySynchronizer,
	invalidator OccupancyInvalidator,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *DeleteAssignmentUseCase {
	return &DeleteAssignmentUseCase{
		assignmentRepo: assignmentRepo,
		effects:        occupancyEffects{synchronizer: synchronizer, invalidator: invalidator, logger: logger},
		txMgr:          txMgr,
		logger:         logger,
	}
}

func (uc *DeleteAssignmentUseCase) Execute(ctx context.Context, assignmentID uint) error {
	var unitID uint

	err := uc.txMgr.RunInTransaction(ctx, func(ctx context.Context) error {
		a, err := uc.assignmentRepo.GetByID(ctx, assignmentID)
		if err != nil {
			return fmt.Errorf("failed to get assignment: %w", err)
		}
		if a == nil {
			return contract.NewAssignmentNotFoundError(assignmentID)
		}
		unitID = a.UnitID()

		if err := uc.assignmentRepo.Delete(ctx, a.ID()); err != nil {
			uc.logger.Errorw("failed to delete assignment", "error", err, "assignment_id", a.ID())
			return fmt.Errorf("failed to delete assignment: %w", err)
		}
		return uc.effects.synchronize(ctx, []uint{unitID})
	})
	if err != nil {
		return err
	}

	uc.effects.invalidate(ctx, []uint{unitID})
	uc.logger.Infow("assignment deleted", "assignment_id", assignmentID, "unit_id", unitID)
	return nil
}
