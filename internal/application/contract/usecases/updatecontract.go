package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
	"github.com/mietwerk/mietwerk/internal/shared/utils"
	"github.com/mietwerk/mietwerk/internal/shared/utils/setutil"
)

// UpdateContractCommand changes status, validity window or legacy link. Nil fields are
// left untouched; ClearEnd and ClearLegacyUnit remove the respective value.
type UpdateContractCommand struct {
	ContractID      uint       `json:"contract_id" validate:"required"`
	Status          *string    `json:"status" validate:"omitempty,oneof=draft active ended cancelled"`
	Start           *time.Time `json:"start"`
	End             *time.Time `json:"end"`
	ClearEnd        bool       `json:"clear_end"`
	LegacyUnitID    *uint      `json:"legacy_unit"`
	ClearLegacyUnit bool       `json:"clear_legacy_unit"`
}

type UpdateContractResult struct {
	Contract    *contract.Contract
	Assignments []*contract.Assignment
}

type UpdateContractUseCase struct {
	contractRepo   contract.Repository
	assignmentRepo contract.AssignmentRepository
	unitRepo       rentalunit.Repository
	ledger         CapacityLedger
	guard          *AssignmentGuard
	effects        occupancyEffects
	txMgr          *db.TransactionManager
	logger         logger.Interface
}

func NewUpdateContractUseCase(
	contractRepo contract.Repository,
	assignmentRepo contract.AssignmentRepository,
	unitRepo rentalunit.Repository,
	ledger CapacityLedger,
	guard *AssignmentGuard,
	synchronizer AvailabilitySynchronizer,
	invalidator OccupancyInvalidator,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *UpdateContractUseCase {
	return &UpdateContractUseCase{
		contractRepo:   contractRepo,
		assignmentRepo: assignmentRepo,
		unitRepo:       unitRepo,
		ledger:         ledger,
		guard:          guard,
		effects:        occupancyEffects{synchronizer: synchronizer, invalidator: invalidator, logger: logger},
		txMgr:          txMgr,
		logger:         logger,
	}
}

func (uc *UpdateContractUseCase) Execute(ctx context.Context, cmd UpdateContractCommand) (*UpdateContractResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	result := &UpdateContractResult{}
	var units setutil.UintSet

	err := uc.txMgr.RunInTransaction(ctx, func(ctx context.Context) error {
		c, err := uc.contractRepo.GetByID(ctx, cmd.ContractID)
		if err != nil {
			uc.logger.Errorw("failed to get contract", "error", err, "contract_id", cmd.ContractID)
			return fmt.Errorf("failed to get contract: %w", err)
		}
		if c == nil {
			return contract.NewNotFoundError(cmd.ContractID)
		}

		today := uc.ledger.Today()
		wasActive := c.IsCurrentlyActive(today)
		units.AddPtr(c.LegacyUnitID())

		if err := uc.apply(ctx, c, cmd); err != nil {
			return err
		}
		if err := uc.contractRepo.Update(ctx, c); err != nil {
			uc.logger.Errorw("failed to update contract", "error", err, "contract_id", c.ID())
			return fmt.Errorf("failed to update contract: %w", err)
		}
		units.AddPtr(c.LegacyUnitID())

		assignments, err := uc.assignmentRepo.ListByContract(ctx, c.ID())
		if err != nil {
			return fmt.Errorf("failed to list assignments: %w", err)
		}
		for _, a := range assignments {
			units.Add(a.UnitID())
		}

		if c.Status().IsTerminal() {
			if err := uc.endAssignments(ctx, assignments); err != nil {
				return err
			}
		} else if !wasActive && c.IsCurrentlyActive(today) {
			if err := uc.guard.CheckAll(ctx, c, assignments); err != nil {
				return err
			}
		}

		legacy, err := contract.MaterializeLegacyAssignment(c, assignments)
		if err != nil {
			return err
		}
		if legacy != nil {
			if err := uc.guard.Check(ctx, c, legacy); err != nil {
				return err
			}
			if c.Status().IsTerminal() {
				if err := legacy.ChangeStatus(contract.AssignmentStatusEnded); err != nil {
					return err
				}
			}
			if err := uc.assignmentRepo.Create(ctx, legacy); err != nil {
				uc.logger.Errorw("failed to create legacy assignment", "error", err, "contract_id", c.ID())
				return fmt.Errorf("failed to create legacy assignment: %w", err)
			}
			assignments = append(assignments, legacy)
		}

		result.Contract = c
		result.Assignments = assignments
		return uc.effects.synchronize(ctx, units.ToSlice())
	})
	if err != nil {
		return nil, err
	}

	uc.effects.invalidate(ctx, units.ToSlice())
	uc.logger.Infow("contract updated",
		"contract_id", result.Contract.ID(),
		"status", result.Contract.Status(),
		"units", units.Len(),
	)
	return result, nil
}

func (uc *UpdateContractUseCase) apply(ctx context.Context, c *contract.Contract, cmd UpdateContractCommand) error {
	if cmd.Start != nil || cmd.End != nil || cmd.ClearEnd {
		start := c.Start()
		if cmd.Start != nil {
			start = *cmd.Start
		}
		end := c.End()
		if cmd.End != nil {
			end = cmd.End
		}
		if cmd.ClearEnd {
			end = nil
		}
		if err := c.Reschedule(start, end); err != nil {
			return err
		}
	}

	if cmd.Status != nil {
		if err := c.TransitionTo(contract.Status(*cmd.Status)); err != nil {
			return err
		}
	}

	switch {
	case cmd.ClearLegacyUnit:
		// the mirrored assignment, if any, stays as a regular assignment
		return c.LinkLegacyUnit(nil)
	case cmd.LegacyUnitID != nil:
		unit, err := uc.unitRepo.GetByID(ctx, *cmd.LegacyUnitID)
		if err != nil {
			return fmt.Errorf("failed to get legacy unit: %w", err)
		}
		if unit == nil {
			return rentalunit.NewNotFoundError(*cmd.LegacyUnitID)
		}
		return c.LinkLegacyUnit(cmd.LegacyUnitID)
	}
	return nil
}

func (uc *UpdateContractUseCase) endAssignments(ctx context.Context, assignments []*contract.Assignment) error {
	for _, a := range assignments {
		if a.Status() == contract.AssignmentStatusEnded {
			continue
		}
		if err := a.ChangeStatus(contract.AssignmentStatusEnded); err != nil {
			return err
		}
		if err := uc.assignmentRepo.Update(ctx, a); err != nil {
			return fmt.Errorf("failed to end assignment %d: %w", a.ID(), err)
		}
	}
	return nil
}
