package usecases

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mietwerk/mietwerk/internal/application/rentalunit/dto"
	"github.com/mietwerk/mietwerk/internal/domain/occupancy"
	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

type GetUnitOccupancyUseCase struct {
	unitRepo  rentalunit.Repository
	ledger    CapacityLedger
	hierarchy HierarchyService
	logger    logger.Interface
}

func NewGetUnitOccupancyUseCase(
	unitRepo rentalunit.Repository,
	ledger CapacityLedger,
	hierarchy HierarchyService,
	logger logger.Interface,
) *GetUnitOccupancyUseCase {
	return &GetUnitOccupancyUseCase{
		unitRepo:  unitRepo,
		ledger:    ledger,
		hierarchy: hierarchy,
		logger:    logger,
	}
}

func (uc *GetUnitOccupancyUseCase) Execute(ctx context.Context, unitID uint) (*dto.UnitOccupancyDTO, error) {
	unit, err := uc.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rental unit: %w", err)
	}
	if unit == nil {
		return nil, rentalunit.NewNotFoundError(unitID)
	}

	var (
		slots     occupancy.SlotSummary
		aggregate *occupancy.HierarchySummary
		level     int
		rootID    uint
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ledger, err := uc.ledger.Load(gctx, []uint{unit.ID()})
		if err != nil {
			return err
		}
		slots = ledger.Summary(unit.ID(), unit.Capacity())
		return nil
	})

	g.Go(func() error {
		var err error
		aggregate, err = uc.hierarchy.Aggregate(gctx, unit.ID())
		return err
	})

	// level and root share one ancestor walk
	g.Go(func() error {
		root, err := uc.hierarchy.RootParent(gctx, unit.ID())
		if err != nil {
			return err
		}
		rootID = root.ID()
		level, err = uc.hierarchy.HierarchyLevel(gctx, unit.ID())
		return err
	})

	if err := g.Wait(); err != nil {
		uc.logger.Errorw("failed to compute unit occupancy", "error", err, "unit_id", unitID)
		return nil, err
	}

	return dto.ToUnitOccupancyDTO(unit, slots, aggregate, level, rootID), nil
}
