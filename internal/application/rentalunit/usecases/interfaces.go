package usecases

import (
	"context"

	"github.com/mietwerk/mietwerk/internal/domain/occupancy"
	"github.com/mietwerk/mietwerk/internal/domain/rentalunit"
)

// CapacityLedger loads consumed slots for a set of units.
type CapacityLedger interface {
	Load(ctx context.Context, unitIDs []uint) (*occupancy.Ledger, error)
}

// HierarchyService answers tree questions about rental units.
type HierarchyService interface {
	Aggregate(ctx context.Context, unitID uint) (*occupancy.HierarchySummary, error)
	AncestorIDs(ctx context.Context, unitID uint) ([]uint, error)
	HierarchyLevel(ctx context.Context, unitID uint) (int, error)
	RootParent(ctx context.Context, unitID uint) (*rentalunit.RentalUnit, error)
	Invalidate(ctx context.Context, unitIDs ...uint)
}

// AvailabilitySynchronizer recomputes the cached availability flag of units.
type AvailabilitySynchronizer interface {
	Synchronize(ctx context.Context, unitID uint) (bool, error)
	SynchronizeAll(ctx context.Context) (int, error)
}
