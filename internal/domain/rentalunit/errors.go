package rentalunit

import (
	"github.com/mietwerk/mietwerk/internal/shared/errors"
)

// Field names reported by rental unit validation.
const (
	FieldName     = "name"
	FieldKind     = "kind"
	FieldCapacity = "capacity"
	FieldParent   = "parent"
)

// NewCircularReferenceError reports a parent assignment that would create a cycle.
func NewCircularReferenceError() error {
	return errors.NewFieldError(FieldParent, "circular reference: a unit cannot be its own ancestor")
}

// NewNotFoundError reports a missing rental unit.
func NewNotFoundError(id uint) error {
	return errors.NewNotFoundError("rental unit not found", idDetail(id))
}
