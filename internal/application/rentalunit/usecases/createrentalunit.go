package usecases

import (
	"context"
	"fmt"

	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
	"github.com/mietwerk/mietwerk/internal/shared/utils"
)

const defaultCapacity = 1

type CreateRentalUnitCommand struct {
	Name     string `json:"name" validate:"required,max=200"`
	Kind     string `json:"kind" validate:"required,oneof=room apartment building parking storage container commercial other"`
	Capacity *int   `json:"capacity" validate:"omitempty,gte=1"` // defaults to 1
	ParentID *uint  `json:"parent"`
}

type CreateRentalUnitUseCase struct {
	unitRepo  rentalunit.Repository
	hierarchy HierarchyService
	txMgr     *db.TransactionManager
	logger    logger.Interface
}

func NewCreateRentalUnitUseCase(
	unitRepo rentalunit.Repository,
	hierarchy HierarchyService,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *CreateRentalUnitUseCase {
	return &CreateRentalUnitUseCase{
		unitRepo:  unitRepo,
		hierarchy: hierarchy,
		txMgr:     txMgr,
		logger:    logger,
	}
}

func (uc *CreateRentalUnitUseCase) Execute(ctx context.Context, cmd CreateRentalUnitCommand) (*rentalunit.RentalUnit, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	capacity := defaultCapacity
	if cmd.Capacity != nil {
		capacity = *cmd.Capacity
	}

	unit, err := rentalunit.NewRentalUnit(cmd.Name, rentalunit.Kind(cmd.Kind), capacity, cmd.ParentID)
	if err != nil {
		return nil, err
	}

	err = uc.txMgr.RunInTransaction(ctx, func(ctx context.Context) error {
		if cmd.ParentID != nil {
			parent, err := uc.unitRepo.GetByID(ctx, *cmd.ParentID)
			if err != nil {
				return fmt.Errorf("failed to get parent unit: %w", err)
			}
			if parent == nil {
				return rentalunit.NewNotFoundError(*cmd.ParentID)
			}
		}
		if err := uc.unitRepo.Create(ctx, unit); err != nil {
			uc.logger.Errorw("failed to create rental unit in database", "error", err, "name", cmd.Name)
			return fmt.Errorf("failed to create rental unit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cmd.ParentID != nil {
		uc.hierarchy.Invalidate(ctx, *cmd.ParentID)
	}
	uc.logger.Infow("rental unit created",
		"unit_id", unit.ID(),
		"kind", unit.Kind(),
		"capacity", unit.Capacity(),
	)
	return unit, nil
}
