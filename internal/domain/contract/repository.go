package contract

import "context"

// Repository defines the interface for contract persistence operations.
// Getters return nil, nil when the contract does not exist.
type Repository interface {
	// Create persists a new contract; a taken number yields a duplicate identifier error
	Create(ctx context.Context, contract *Contract) error

	// Update persists status, dates and legacy link
	Update(ctx context.Context, contract *Contract) error

	// Delete removes the contract together with its assignments
	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*Contract, error)

	GetByNumber(ctx context.Context, number string) (*Contract, error)

	// GetByIDs retrieves contracts by their IDs
	GetByIDs(ctx context.Context, ids []uint) ([]*Contract, error)

	// ListByLegacyUnitIDs returns contracts in one of statuses whose legacy link points
	// at one of unitIDs, in one query
	ListByLegacyUnitIDs(ctx context.Context, unitIDs []uint, statuses ...Status) ([]*Contract, error)
}

// AssignmentRepository defines the interface for contract assignment persistence operations.
type AssignmentRepository interface {
	// Create persists a new assignment; a second row for the same contract and unit
	// yields a duplicate identifier error
	Create(ctx context.Context, assignment *Assignment) error

	Update(ctx context.Context, assignment *Assignment) error

	Delete(ctx context.Context, id uint) error

	GetByID(ctx context.Context, id uint) (*Assignment, error)

	GetByContractAndUnit(ctx context.Context, contractID, unitID uint) (*Assignment, error)

	ListByContract(ctx context.Context, contractID uint) ([]*Assignment, error)

	// ListBindingsByUnitIDs returns assignments on unitIDs whose contract is in one of
	// statuses, together with that contract
	ListBindingsByUnitIDs(ctx context.Context, unitIDs []uint, statuses ...Status) ([]Binding, error)
}
