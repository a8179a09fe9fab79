package usecases

import (
	"context"
	"fmt"

	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/shared/db"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// SetUnitParentCommand moves a unit below ParentID, or to the top level when ParentID is nil.
type SetUnitParentCommand struct {
	UnitID   uint
	ParentID *uint
}

type SetUnitParentUseCase struct {
	unitRepo  rentalunit.Repository
	hierarchy HierarchyService
	txMgr     *db.TransactionManager
	logger    logger.Interface
}

func NewSetUnitParentUseCase(
	unitRepo rentalunit.Repository,
	hierarchy HierarchyService,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *SetUnitParentUseCase {
	return &SetUnitParentUseCase{
		unitRepo:  unitRepo,
		hierarchy: hierarchy,
		txMgr:     txMgr,
		logger:    logger,
	}
}

func (uc *SetUnitParentUseCase) Execute(ctx context.Context, cmd SetUnitParentCommand) (*rentalunit.RentalUnit, error) {
	var (
		unit      *rentalunit.RentalUnit
		oldParent *uint
	)

	err := uc.txMgr.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		unit, err = uc.unitRepo.GetByIDForUpdate(ctx, cmd.UnitID)
		if err != nil {
			return fmt.Errorf("failed to get rental unit: %w", err)
		}
		if unit == nil {
			return rentalunit.NewNotFoundError(cmd.UnitID)
		}
		oldParent = unit.ParentID()

		var ancestors []uint
		if cmd.ParentID != nil && *cmd.ParentID != 0 && *cmd.ParentID != unit.ID() {
			parent, err := uc.unitRepo.GetByID(ctx, *cmd.ParentID)
			if err != nil {
				return fmt.Errorf("failed to get parent unit: %w", err)
			}
			if parent == nil {
				return rentalunit.NewNotFoundError(*cmd.ParentID)
			}
			ancestors, err = uc.hierarchy.AncestorIDs(ctx, parent.ID())
			if err != nil {
				return fmt.Errorf("failed to resolve ancestors: %w", err)
			}
		}

		if err := unit.MoveUnder(cmd.ParentID, ancestors); err != nil {
			uc.logger.Infow("parent change rejected", "unit_id", unit.ID(), "error", err)
			return err
		}
		if err := uc.unitRepo.Update(ctx, unit); err != nil {
			uc.logger.Errorw("failed to update rental unit parent", "error", err, "unit_id", unit.ID())
			return fmt.Errorf("failed to update rental unit: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// the old chain loses the subtree, the new chain gains it
	stale := []uint{unit.ID()}
	if oldParent != nil {
		stale = append(stale, *oldParent)
	}
	uc.hierarchy.Invalidate(ctx, stale...)

	uc.logger.Infow("rental unit parent changed", "unit_id", unit.ID(), "parent_id", cmd.ParentID)
	return unit, nil
}
