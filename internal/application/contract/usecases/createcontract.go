package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/errors"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
	"github.com/mietwerk/mietwerk/internal/shared/utils"
	"github.com/mietwerk/mietwerk/internal/shared/utils/setutil"
)

// maxNumberAttempts bounds retries when a generated number collides at the store.
const maxNumberAttempts = 3

type CreateContractCommand struct {
	Number       string     `json:"number" validate:"omitempty,max=64"` // generated when empty
	TenantID     uint       `json:"tenant_id" validate:"required"`
	Status       string     `json:"status" validate:"omitempty,oneof=draft active ended cancelled"`
	Start        time.Time  `json:"start"`
	End          *time.Time `json:"end"`
	LegacyUnitID *uint      `json:"legacy_unit"`
}

type CreateContractResult struct {
	Contract *contract.Contract
	// LegacyAssignment mirrors the legacy unit link, nil without one
	LegacyAssignment *contract.Assignment
}

type CreateContractUseCase struct {
	contractRepo    contract.Repository
	assignmentRepo  contract.AssignmentRepository
	unitRepo        rentalunit.Repository
	numberGenerator contract.NumberGenerator
	guard           *AssignmentGuard
	effects         occupancyEffects
	txMgr           *db.TransactionManager
	logger          logger.Interface
}

func NewCreateContractUseCase(
	contractRepo contract.Repository,
	assignmentRepo contract.AssignmentRepository,
	unitRepo rentalunit.Repository,
	numberGenerator contract.NumberGenerator,
	guard *AssignmentGuard,
	synchronizer AvailabilitySynchronizer,
	invalidator OccupancyInvalidator,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *CreateContractUseCase {
	return &CreateContractUseCase{
		contractRepo:    contractRepo,
		assignmentRepo:  assignmentRepo,
		unitRepo:        unitRepo,
		numberGenerator: numberGenerator,
		guard:           guard,
		effects:         occupancyEffects{synchronizer: synchronizer, invalidator: invalidator, logger: logger},
		txMgr:           txMgr,
		logger:          logger,
	}
}

func (uc *CreateContractUseCase) Execute(ctx context.Context, cmd CreateContractCommand) (*CreateContractResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	// Reject bad input before a number is drawn.
	draft, err := contract.NewContract(cmd.Number, cmd.TenantID, contract.Status(cmd.Status), cmd.Start, cmd.End, cmd.LegacyUnitID)
	if err != nil {
		return nil, err
	}

	if cmd.Number != "" {
		existing, err := uc.contractRepo.GetByNumber(ctx, cmd.Number)
		if err != nil {
			uc.logger.Errorw("failed to check contract number", "error", err, "number", cmd.Number)
			return nil, fmt.Errorf("failed to check contract number: %w", err)
		}
		if existing != nil {
			return nil, contract.NewDuplicateNumberError(cmd.Number)
		}
	}

	attempts := 1
	if cmd.Number == "" {
		attempts = maxNumberAttempts
	}

	var result *CreateContractResult
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err = uc.create(ctx, cmd, draft.Status())
		if err == nil || cmd.Number != "" || !errors.IsDuplicateIdentifierError(err) {
			break
		}
		uc.logger.Warnw("generated contract number collided, retrying", "attempt", attempt, "error", err)
	}
	if err != nil {
		return nil, err
	}

	var units setutil.UintSet
	units.AddPtr(cmd.LegacyUnitID)
	uc.effects.invalidate(ctx, units.ToSlice())

	uc.logger.Infow("contract created",
		"contract_id", result.Contract.ID(),
		"number", result.Contract.Number(),
		"status", result.Contract.Status(),
	)
	return result, nil
}

func (uc *CreateContractUseCase) create(ctx context.Context, cmd CreateContractCommand, status contract.Status) (*CreateContractResult, error) {
	result := &CreateContractResult{}

	err := uc.txMgr.RunInTransaction(ctx, func(ctx context.Context) error {
		if cmd.LegacyUnitID != nil {
			unit, err := uc.unitRepo.GetByID(ctx, *cmd.LegacyUnitID)
			if err != nil {
				return fmt.Errorf("failed to get legacy unit: %w", err)
			}
			if unit == nil {
				return rentalunit.NewNotFoundError(*cmd.LegacyUnitID)
			}
		}

		number := cmd.Number
		if number == "" {
			generated, err := uc.numberGenerator.Generate(ctx)
			if err != nil {
				uc.logger.Errorw("failed to generate contract number", "error", err)
				return fmt.Errorf("failed to generate contract number: %w", err)
			}
			number = generated
		}

		c, err := contract.NewContract(number, cmd.TenantID, status, cmd.Start, cmd.End, cmd.LegacyUnitID)
		if err != nil {
			return err
		}
		if err := uc.contractRepo.Create(ctx, c); err != nil {
			uc.logger.Errorw("failed to create contract in database", "error", err, "number", number)
			return fmt.Errorf("failed to create contract: %w", err)
		}
		result.Contract = c

		legacy, err := contract.MaterializeLegacyAssignment(c, nil)
		if err != nil {
			return err
		}
		if legacy == nil {
			return nil
		}
		if err := uc.guard.Check(ctx, c, legacy); err != nil {
			return err
		}
		if err := uc.assignmentRepo.Create(ctx, legacy); err != nil {
			uc.logger.Errorw("failed to create legacy assignment", "error", err, "contract_id", c.ID())
			return fmt.Errorf("failed to create legacy assignment: %w", err)
		}
		result.LegacyAssignment = legacy

		return uc.effects.synchronize(ctx, []uint{legacy.UnitID()})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
