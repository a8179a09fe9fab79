package rentalunit

import "context"

// Repository defines the interface for rental unit persistence operations.
// Getters return nil, nil when the unit does not exist.
type Repository interface {
	// Create persists a new unit and assigns its ID
	Create(ctx context.Context, unit *RentalUnit) error

	// Update persists name, kind, capacity and parent
	Update(ctx context.Context, unit *RentalUnit) error

	// UpdateAvailability writes only the available column
	UpdateAvailability(ctx context.Context, id uint, available bool) error

	// GetByID retrieves a unit by ID
	GetByID(ctx context.Context, id uint) (*RentalUnit, error)

	// GetByIDForUpdate retrieves a unit by ID holding a row lock until the surrounding
	// transaction ends
	GetByIDForUpdate(ctx context.Context, id uint) (*RentalUnit, error)

	// GetByIDs retrieves units by their IDs
	GetByIDs(ctx context.Context, ids []uint) ([]*RentalUnit, error)

	// ListChildIDs returns the IDs of all units whose parent is in parentIDs, in one query
	ListChildIDs(ctx context.Context, parentIDs []uint) ([]uint, error)

	// ListAfter returns up to limit units with ID greater than afterID, ordered by ID
	ListAfter(ctx context.Context, afterID uint, limit int) ([]*RentalUnit, error)
}
