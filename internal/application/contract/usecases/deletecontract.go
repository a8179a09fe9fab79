package usecases

import (
	"context"
	"fmt"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
	"github.com/mietwerk/mietwerk/internal/shared/utils/setutil"
)

type DeleteContractCommand struct {
	ContractID uint
}

type DeleteContractUseCase struct {
	contractRepo   contract.Repository
	assignmentRepo contract.AssignmentRepository
	effects        occupancyEffects
	txMgr          *db.TransactionManager
	logger         logger.Interface
}

func NewDeleteContractUseCase(
	contractRepo contract.Repository,
	assignmentRepo contract.AssignmentRepository,
	synchronizer AvailabilitySynchronizer,
	invalidator OccupancyInvalidator,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *DeleteContractUseCase {
	return &DeleteContractUseCase{
		contractRepo:   contractRepo,
		assignmentRepo: assignmentRepo,
		effects:        occupancyEffects{synchronizer: synchronizer, invalidator: invalidator, logger: logger},
		txMgr:          txMgr,
		logger:         logger,
	}
}

func (uc *DeleteContractUseCase) Execute(ctx context.Context, cmd DeleteContractCommand) error {
	var units setutil.UintSet

	err := uc.txMgr.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := uc.contractRepo.GetByID(ctx, cmd.ContractID)
		if err != nil {
			return fmt.Errorf("failed to get contract: %w", err)
		}
		if c == nil {
			return contract.NewNotFoundError(cmd.ContractID)
		}

		assignments, err := uc.assignmentRepo.ListByContract(ctx, c.ID())
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}
		units.AddPtr(c.LegacyUnitID())
		for _, a := range assignments {
			units.Add(a.UnitID())
		}

		if err := uc.contractRepo.Delete(ctx, c.ID()); err != nil {
			uc.logger.Errorw("failed to delete contract", "error", err, "contract_id", c.ID())
			return fmt.Errorf("failed to delete contract: %w", err)
		}
		return uc.effects.synchronize(ctx, units.ToSlice())
	})
	if err != nil {
		return err
	}

	uc.effects.invalidate(ctx, units.ToSlice())
	uc.logger.Infow("contract deleted", "contract_id", cmd.ContractID, "units", units.Len())
	return nil
}
