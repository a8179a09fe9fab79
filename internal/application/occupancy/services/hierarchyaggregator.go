package services

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/mietwerk/mietwerk/internal/domain/occupancy"
	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
	"github.com/mietwerk/mietwerk/internal/shared/errors"
	"github.com/mietwerk/mietwerk/internal/shared/logger"
)

// OccupancyCache stores hierarchy summaries between writes.
type OccupancyCache interface {
	// Get returns nil, nil on a miss
	Get(ctx context.Context, unitID uint) (*occupancy.HierarchySummary, error)
	Set(ctx context.Context, summary *occupancy.HierarchySummary) error
	Invalidate(ctx context.Context, unitIDs ...uint) error
}

// HierarchyAggregator computes subtree occupancy. Descendants are collected breadth-first
// with one query per tree level; ancestors are walked through parent pointers.
type HierarchyAggregator struct {
	unitRepo rentalunit.Repository
	ledger   *CapacityLedger
	cache    OccupancyCache
	group    singleflight.Group
	logger   logger.Interface
}

// NewHierarchyAggregator creates a new HierarchyAggregator
func NewHierarchyAggregator(
	unitRepo rentalunit.Repository,
	ledger *CapacityLedger,
	cache OccupancyCache,
	logger logger.Interface,
) *HierarchyAggregator {
	return &HierarchyAggregator{
		unitRepo: unitRepo,
		ledger:   ledger,
		cache:    cache,
		logger:   logger,
	}
}

// DescendantIDs returns the IDs of all units below unitID, level by level.
// With includeSelf the unit itself comes first.
func (a *HierarchyAggregator) DescendantIDs(ctx context.Context, unitID uint, includeSelf bool) ([]uint, error) {
	seen := map[uint]struct{}{unitID: {}}
	var result []uint
	if includeSelf {
		result = append(result, unitID)
	}

	frontier := []uint{unitID}
	for len(frontier) > 0 {
		children, err := a.unitRepo.ListChildIDs(ctx, frontier)
		if err != nil {
			return nil, fmt.Errorf("failed to list children of %d units: %w", len(frontier), err)
		}
		next := make([]uint, 0, len(children))
		for _, id := range children {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			next = append(next, id)
		}
		result = append(result, next...)
		frontier = next
	}
	return result, nil
}

// Aggregate returns capacity and consumption summed over the unit and all its descendants.
func (a *HierarchyAggregator) Aggregate(ctx context.Context, unitID uint) (*occupancy.HierarchySummary, error) {
	cached, err := a.cache.Get(ctx, unitID)
	if err != nil {
		a.logger.Warnw("occupancy cache read failed", "unit_id", unitID, "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	v, err, _ := a.group.Do(strconv.FormatUint(uint64(unitID), 10), func() (any, error) {
		return a.compute(ctx, unitID)
	})
	if err != nil {
		return nil, err
	}
	summary := v.(*occupancy.HierarchySummary)

	if err := a.cache.Set(ctx, summary); err != nil {
		a.logger.Warnw("occupancy cache write failed", "unit_id", unitID, "error", err)
	}
	copied := *summary
	return &copied, nil
}

func (a *HierarchyAggregator) compute(ctx context.Context, unitID uint) (*occupancy.HierarchySummary, error) {
	root, err := a.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, rentalunit.NewNotFoundError(unitID)
	}

	ids, err := a.DescendantIDs(ctx, unitID, true)
	if err != nil {
		return nil, err
	}
	units, err := a.unitRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	ledger, err := a.ledger.Load(ctx, ids)
	if err != nil {
		return nil, err
	}

	summary := &occupancy.HierarchySummary{UnitID: unitID, UnitCount: len(units)}
	for _, u := range units {
		summary.Slots = summary.Slots.Add(ledger.Summary(u.ID(), u.Capacity()))
	}

	a.logger.Debugw("hierarchy aggregate computed",
		"unit_id", unitID,
		"units", summary.UnitCount,
		"capacity", summary.Slots.Capacity,
		"consumed", summary.Slots.Consumed,
	)
	return summary, nil
}

// AncestorIDs returns the parent chain of unitID, nearest first. The walk stops on a
// repeated ID so a corrupted chain cannot loop.
func (a *HierarchyAggregator) AncestorIDs(ctx context.Context, unitID uint) ([]uint, error) {
	chain, err := a.ancestors(ctx, unitID)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(chain))
	for _, u := range chain {
		ids = append(ids, u.ID())
	}
	return ids, nil
}

// HierarchyLevel counts the hops from the unit to its root; 0 for a root unit.
func (a *HierarchyAggregator) HierarchyLevel(ctx context.Context, unitID uint) (int, error) {
	chain, err := a.ancestors(ctx, unitID)
	if err != nil {
		return 0, err
	}
	return len(chain), nil
}

// RootParent returns the topmost ancestor, or the unit itself when it is a root.
func (a *HierarchyAggregator) RootParent(ctx context.Context, unitID uint) (*rentalunit.RentalUnit, error) {
	chain, err := a.ancestors(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if len(chain) > 0 {
		return chain[len(chain)-1], nil
	}
	unit, err := a.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, rentalunit.NewNotFoundError(unitID)
	}
	return unit, nil
}

func (a *HierarchyAggregator) ancestors(ctx context.Context, unitID uint) ([]*rentalunit.RentalUnit, error) {
	unit, err := a.unitRepo.GetByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	if unit == nil {
		return nil, rentalunit.NewNotFoundError(unitID)
	}

	var chain []*rentalunit.RentalUnit
	seen := map[uint]struct{}{unitID: {}}
	for parentID := unit.ParentID(); parentID != nil; {
		if _, ok := seen[*parentID]; ok {
			a.logger.Errorw("cycle detected in rental unit hierarchy", "unit_id", unitID, "repeated_id", *parentID)
			break
		}
		seen[*parentID] = struct{}{}

		parent, err := a.unitRepo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			a.logger.Warnw("dangling parent reference", "unit_id", unitID, "parent_id", *parentID)
			break
		}
		chain = append(chain, parent)
		parentID = parent.ParentID()
	}
	return chain, nil
}

// Invalidate drops cached summaries of the units and every ancestor above them.
// Failures are logged; the cache TTL bounds staleness.
func (a *HierarchyAggregator) Invalidate(ctx context.Context, unitIDs ...uint) {
	keys := make(map[uint]struct{})
	for _, id := range unitIDs {
		keys[id] = struct{}{}
		chain, err := a.AncestorIDs(ctx, id)
		if err != nil {
			if !errors.IsNotFoundError(err) {
				a.logger.Warnw("failed to resolve ancestors for cache invalidation", "unit_id", id, "error", err)
			}
			continue
		}
		for _, ancestorID := range chain {
			keys[ancestorID] = struct{}{}
		}
	}
	if len(keys) == 0 {
		return
	}

	ids := make([]uint, 0, len(keys))
	for id := range keys {
		ids = append(ids, id)
	}
	if err := a.cache.Invalidate(ctx, ids...); err != nil {
		a.logger.Warnw("occupancy cache invalidation failed", "units", len(ids), "error", err)
	}
}
