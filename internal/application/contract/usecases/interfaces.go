package usecases

import (
	"context"
	"time"

	"github.com/mietwerk/mietwerk/internal/domain/occupancy"
)

// CapacityLedger loads consumed slots for a set of units.
type CapacityLedger interface {
	Load(ctx context.Context, unitIDs []uint) (*occupancy.Ledger, error)
	Today() time.Time
}

// AvailabilitySynchronizer recomputes the cached availability flag of units.
type AvailabilitySynchronizer interface {
	SynchronizeUnits(ctx context.Context, unitIDs ...uint) (int, error)
}

// OccupancyInvalidator drops cached hierarchy summaries of units and their ancestors.
type OccupancyInvalidator interface {
	Invalidate(ctx context.Context, unitIDs ...uint)
}
