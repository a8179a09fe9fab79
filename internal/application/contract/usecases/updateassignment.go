package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// UpdateAssignmentCommand replaces price, quantity and validity window of an assignment.
type UpdateAssignmentCommand struct {
	AssignmentID uint
	Price        decimal.Decimal
	Quantity     int
	ValidFrom    *time.Time
	ValidTo      *time.Time
}

type UpdateAssignmentUseCase struct {
	contractRepo   contract.Repository
	assignmentRepo contract.AssignmentRepository
	guard          *AssignmentGuard
	effects        occupancyEffects
	txMgr          *db.TransactionManager
	logger         logger.Interface
}

func NewUpdateAssignmentUseCase(
	contractRepo contract.Repository,
	assignmentRepo contract.AssignmentRepository,
	guard *AssignmentGuard,
	synchronizer AvailabilitySynchronizer,
	invalidator OccupancyInvalidator,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *UpdateAssignmentUseCase {
	return &UpdateAssignmentUseCase{
		contractRepo:   contractRepo,
		assignmentRepo: assignmentRepo,
		guard:          guard,
		effects:        occupancyEffects{synchronizer: synchronizer, invalidator: invalidator, logger: logger},
		txMgr:          txMgr,
		logger:         logger,
	}
}

func (uc *UpdateAssignmentUseCase) Execute(ctx context.Context, cmd UpdateAssignmentCommand) (*contract.Assignment, error) {
	var updated *contract.Assignment

	err := uc.txMgr.RunInTransaction(ctx, func(ctx context.Context) error {
		a, err := uc.assignmentRepo.GetByID(ctx, cmd.AssignmentID)
		if err != nil {
			return fmt.Errorf("failed to get assignment: %w", err)
		}
		if a == nil {
			return contract.NewAssignmentNotFoundError(cmd.AssignmentID)
		}
		c, err := uc.contractRepo.GetByID(ctx, a.ContractID())
		if err != nil {
			return fmt.Errorf("failed to get contract: %w", err)
		}
		if c == nil {
			return contract.NewNotFoundError(a.ContractID())
		}

		a.Revise(cmd.Price, cmd.Quantity, cmd.ValidFrom, cmd.ValidTo)
		if err := uc.guard.Check(ctx, c, a); err != nil {
			return err
		}
		if err := uc.assignmentRepo.Update(ctx, a); err != nil {
			uc.logger.Errorw("failed to update assignment", "error", err, "assignment_id", a.ID())
			return fmt.Errorf("failed to update assignment: %w", err)
		}

		updated = a
		return uc.effects.synchronize(ctx, []uint{a.UnitID()})
	})
	if err != nil {
		return nil, err
	}

	uc.effects.invalidate(ctx, []uint{updated.UnitID()})
	uc.logger.Infow("assignment updated", "assignment_id", updated.ID(), "quantity", updated.Quantity())
	return updated, nil
}
