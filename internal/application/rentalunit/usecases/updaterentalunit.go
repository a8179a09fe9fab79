package usecases

import (
	"context"
	"fmt"

	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
	"github.com/mietwerk/mietwerk/internal/shared/utils"
)

// UpdateRentalUnitCommand changes name, kind or capacity; nil fields stay as they are.
type UpdateRentalUnitCommand struct {
	UnitID   uint    `json:"unit_id" validate:"required"`
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	Kind     *string `json:"kind" validate:"omitempty,oneof=room apartment building parking storage container commercial other"`
	Capacity *int    `json:"capacity" validate:"omitempty,gte=1"`
}

type UpdateRentalUnitUseCase struct {
	unitRepo     rentalunit.Repository
	ledger       CapacityLedger
	synchronizer AvailabilitySynchronizer
	hierarchy    HierarchyService
	txMgr        *db.TransactionManager
	logger       logger.Interface
}

func NewUpdateRentalUnitUseCase(
	unitRepo rentalunit.Repository,
	ledger CapacityLedger,
	synchronizer AvailabilitySynchronizer,
	hierarchy HierarchyService,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *UpdateRentalUnitUseCase {
	return &UpdateRentalUnitUseCase{
		unitRepo:     unitRepo,
		ledger:       ledger,
		synchronizer: synchronizer,
		hierarchy:    hierarchy,
		txMgr:        txMgr,
		logger:       logger,
	}
}

func (uc *UpdateRentalUnitUseCase) Execute(ctx context.Context, cmd UpdateRentalUnitCommand) (*rentalunit.RentalUnit, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	var unit *rentalunit.RentalUnit
	err := uc.txMgr.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		// the row lock keeps assignment writes out while capacity is compared to consumption
		unit, err = uc.unitRepo.GetByIDForUpdate(ctx, cmd.UnitID)
		if err != nil {
			return fmt.Errorf("failed to get rental unit: %w", err)
		}
		if unit == nil {
			return rentalunit.NewNotFoundError(cmd.UnitID)
		}

		if cmd.Name != nil {
			if err := unit.Rename(*cmd.Name); err != nil {
				return err
			}
		}
		if cmd.Kind != nil {
			if err := unit.ChangeKind(rentalunit.Kind(*cmd.Kind)); err != nil {
				return err
			}
		}

		capacityChanged := cmd.Capacity != nil && *cmd.Capacity != unit.Capacity()
		if capacityChanged {
			ledger, err := uc.ledger.Load(ctx, []uint{unit.ID()})
			if err != nil {
				return err
			}
			if err := unit.ChangeCapacity(*cmd.Capacity, ledger.Consumed(unit.ID())); err != nil {
				return err
			}
		}

		if err := uc.unitRepo.Update(ctx, unit); err != nil {
			uc.logger.Errorw("failed to update rental unit", "error", err, "unit_id", unit.ID())
			return fmt.Errorf("failed to update rental unit: %w", err)
		}
		if !capacityChanged {
			return nil
		}
		if _, err := uc.synchronizer.Synchronize(ctx, unit.ID()); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.hierarchy.Invalidate(ctx, unit.ID())
	uc.logger.Infow("rental unit updated", "unit_id", unit.ID(), "capacity", unit.Capacity())

	// reload so the returned unit carries the synchronized flag
	updated, err := uc.unitRepo.GetByID(ctx, unit.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to reload rental unit: %w", err)
	}
	return updated, nil
}
