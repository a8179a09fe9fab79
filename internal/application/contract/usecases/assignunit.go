package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
	"github.com/mietwerk/mietwerk/internal/shared/utils"
)

type AssignUnitCommand struct {
	ContractID uint `json:"contract" validate:"required"`
	UnitID     uint `json:"unit" validate:"required"`
	Price      decimal.Decimal
	Quantity   int
	ValidFrom  *time.Time
	ValidTo    *time.Time
}

type AssignUnitResult struct {
	Assignment *contract.Assignment
}

type AssignUnitUseCase struct {
	contractRepo   contract.Repository
	assignmentRepo contract.AssignmentRepository
	guard          *AssignmentGuard
	effects        occupancyEffects
	txMgr          *db.TransactionManager
	logger         logger.Interface
}

func NewAssignUnitUseCase(
	contractRepo contract.Repository,
	assignmentRepo contract.AssignmentRepository,
	guard *AssignmentGuard,
	synchronizer AvailabilitySynchronizer,
	invalidator OccupancyInvalidator,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *AssignUnitUseCase {
	return &AssignUnitUseCase{
		contractRepo:   contractRepo,
		assignmentRepo: assignmentRepo,
		guard:          guard,
		effects:        occupancyEffects{synchronizer: synchronizer, invalidator: invalidator, logger: logger},
		txMgr:          txMgr,
		logger:         logger,
	}
}

func (uc *AssignUnitUseCase) Execute(ctx context.Context, cmd AssignUnitCommand) (*AssignUnitResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	var result *AssignUnitResult
	err := uc.txMgr.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := uc.contractRepo.GetByID(ctx, cmd.ContractID)
		if err != nil {
			return fmt.Errorf("failed to get contract: %w", err)
		}
		if c == nil {
			return contract.NewNotFoundError(cmd.ContractID)
		}

		existing, err := uc.assignmentRepo.GetByContractAndUnit(ctx, c.ID(), cmd.UnitID)
		if err != nil {
			return fmt.Errorf("failed to check existing assignment: %w", err)
		}
		if existing != nil {
			return contract.NewDuplicateUnitError(cmd.UnitID)
		}

		a, err := contract.NewAssignment(c.ID(), cmd.UnitID, cmd.Price, cmd.Quantity, cmd.ValidFrom, cmd.ValidTo)
		if err != nil {
			return err
		}
		if err := uc.guard.Check(ctx, c, a); err != nil {
			return err
		}
		if err := uc.assignmentRepo.Create(ctx, a); err != nil {
			uc.logger.Errorw("failed to create assignment", "error", err, "contract_id", c.ID(), "unit_id", cmd.UnitID)
			return fmt.Errorf("failed to create assignment: %w", err)
		}

		result = &AssignUnitResult{Assignment: a}
		return uc.effects.synchronize(ctx, []uint{a.UnitID()})
	})
	if err != nil {
		return nil, err
	}

	uc.effects.invalidate(ctx, []uint{cmd.UnitID})
	uc.logger.Infow("unit assigned to contract",
		"assignment_id", result.Assignment.ID(),
		"contract_id", cmd.ContractID,
		"unit_id", cmd.UnitID,
		"quantity", cmd.Quantity,
	)
	return result, nil
}
