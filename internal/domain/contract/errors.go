package contract

import (
	"fmt"

	"github.com/mietwerk/mietwerk/internal/shared/errors"
)

// Field names reported by contract validation.
const (
	FieldNumber     = "number"
	FieldStatus     = "status"
	FieldStart      = "start"
	FieldEnd        = "end"
	FieldTenant     = "tenant_id"
	FieldLegacyUnit = "legacy_unit"
	FieldContract   = "contract"
	FieldUnit       = "unit"
)

// NewNotFoundError reports a missing contract.
func NewNotFoundError(id uint) error {
	return errors.NewNotFoundError("contract not found", fmt.Sprintf("id=%d", id))
}

// NewAssignmentNotFoundError reports a missing contract assignment.
func NewAssignmentNotFoundError(id uint) error {
	return errors.NewNotFoundError("contract assignment not found", fmt.Sprintf("id=%d", id))
}

// NewDuplicateUnitError reports a second assignment of the same unit to one contract.
func NewDuplicateUnitError(unitID uint) error {
	return errors.NewFieldError(FieldUnit,
		fmt.Sprintf("contract already references rental unit %d", unitID))
}

// NewDuplicateNumberError reports a contract number that is already taken.
func NewDuplicateNumberError(number string) error {
	return errors.NewFieldError(FieldNumber,
		fmt.Sprintf("contract number %q is already in use", number))
}
