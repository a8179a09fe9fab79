package occupancy

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mietwerk/mietwerk/internal/shared/errors"
)

// Field names reported by assignment validation.
const (
	FieldPrice    = "price"
	FieldQuantity = "quantity"
	FieldValidTo  = "valid_to"
	FieldUnit     = "unit"
)

// AssignmentCheck is everything needed to validate one assignment write without storage access.
type AssignmentCheck struct {
	Price     decimal.Decimal
	Quantity  int
	ValidFrom *time.Time
	ValidTo   *time.Time

	// ContractCurrentlyActive gates the capacity check.
	ContractCurrentlyActive bool
	// UnitCapacity is the capacity of the target unit.
	UnitCapacity int
	// AlreadyConsumed is the ledger count for the unit without this assignment's own contribution.
	AlreadyConsumed int
}

// ValidateAssignment runs the assignment checks in order and returns the first failure
// as a field-scoped validation error.
func ValidateAssignment(c AssignmentCheck) error {
	if c.Price.IsNegative() {
		return errors.NewFieldError(FieldPrice, "price must not be negative")
	}
	if c.Quantity < 1 {
		return errors.NewFieldError(FieldQuantity,
			fmt.Sprintf("quantity must be at least 1, got %d", c.Quantity))
	}
	if c.ValidFrom != nil && c.ValidTo != nil && c.ValidTo.Before(*c.ValidFrom) {
		return errors.NewFieldError(FieldValidTo, "valid_to must not be before valid_from")
	}
	if !c.ContractCurrentlyActive {
		return nil
	}
	if c.AlreadyConsumed+c.Quantity > c.UnitCapacity {
		remaining := c.UnitCapacity - c.AlreadyConsumed
		if remaining < 0 {
			remaining = 0
		}
		return errors.NewFieldError(FieldQuantity, fmt.Sprintf(
			"capacity exceeded: already consumed %d of %d slots, %d available, requested %d",
			c.AlreadyConsumed, c.UnitCapacity, remaining, c.Quantity))
	}
	return nil
}
