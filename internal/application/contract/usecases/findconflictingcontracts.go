package usecases

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/mietwerk/mietwerk/internal/domain/contract"
	"github.com/mietwerk/mietwerk/internal/domain/occupancy"
	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/shared/biztime"
	"github.com/mietwerk/mietwerk/internal/shared/errors"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// FindConflictingContractsQuery asks which draft or active contracts on a unit overlap
// a proposed validity window. End nil means open-ended.
type FindConflictingContractsQuery struct {
	UnitID uint
	Start  time.Time
	End    *time.Time
}

type FindConflictingContractsUseCase struct {
	contractRepo   contract.Repository
	assignmentRepo contract.AssignmentRepository
	unitRepo       rentalunit.Repository
	logger         logger.Interface
}

func NewFindConflictingContractsUseCase(
	contractRepo contract.Repository,
	assignmentRepo contract.AssignmentRepository,
	unitRepo rentalunit.Repository,
	logger logger.Interface,
) *FindConflictingContractsUseCase {
	return &FindConflictingContractsUseCase{
		contractRepo:   contractRepo,
		assignmentRepo: assignmentRepo,
		unitRepo:       unitRepo,
		logger:         logger,
	}
}

// Execute returns the overlapping contracts ordered by start date.
func (uc *FindConflictingContractsUseCase) Execute(ctx context.Context, query FindConflictingContractsQuery) ([]*contract.Contract, error) {
	if query.Start.IsZero() {
		return nil, errors.NewFieldError(contract.FieldStart, "start is required")
	}
	if query.End != nil && !query.End.After(query.Start) {
		return nil, errors.NewFieldError(contract.FieldEnd, fmt.Sprintf("end %s must be after start %s",
			biztime.FormatDate(*query.End), biztime.FormatDate(query.Start)))
	}

	unit, err := uc.unitRepo.GetByID(ctx, query.UnitID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rental unit: %w", err)
	}
	if unit == nil {
		return nil, rentalunit.NewNotFoundError(query.UnitID)
	}

	statuses := []contract.Status{contract.StatusDraft, contract.StatusActive}
	bindings, err := uc.assignmentRepo.ListBindingsByUnitIDs(ctx, []uint{unit.ID()}, statuses...)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}
	legacy, err := uc.contractRepo.ListByLegacyUnitIDs(ctx, []uint{unit.ID()}, statuses...)
	if err != nil {
		return nil, fmt.Errorf("failed to load legacy contracts: %w", err)
	}

	candidates := make([]*contract.Contract, 0, len(bindings)+len(legacy))
	for _, b := range bindings {
		candidates = append(candidates, b.Contract)
	}
	candidates = append(candidates, legacy...)

	window := occupancy.NewDateRange(query.Start, query.End)
	seen := make(map[uint]struct{}, len(candidates))
	var conflicts []*contract.Contract
	for _, c := range candidates {
		if _, ok := seen[c.ID()]; ok {
			continue
		}
		seen[c.ID()] = struct{}{}
		if occupancy.Overlaps(c.Period(), window) {
			conflicts = append(conflicts, c)
		}
	}

	sort.Slice(conflicts, func(i, j int) bool {
		if !conflicts[i].Start().Equal(conflicts[j].Start()) {
			return conflicts[i].Start().Before(conflicts[j].Start())
		}
		return conflicts[i].ID() < conflicts[j].ID()
	})

	uc.logger.Debugw("conflicting contracts resolved", "unit_id", unit.ID(), "candidates", len(seen), "conflicts", len(conflicts))
	return conflicts, nil
}
