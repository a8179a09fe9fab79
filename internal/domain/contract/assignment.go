package contract

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mietwerk/mietwerk/internal/domain/occupancy"
	"github.com/mietwerk/mietwerk/internal/shared/errors"
)

// Assignment binds a contract to a rental unit, consuming quantity capacity slots of it.
// Business checks (price, quantity, window, capacity) run through occupancy.ValidateAssignment
// before an assignment is persisted.
type Assignment struct {
	id         uint
	contractID uint
	unitID     uint
	price      decimal.Decimal
	quantity   int
	validFrom  *time.Time
	validTo    *time.Time
	status     AssignmentStatus
	createdAt  time.Time
	updatedAt  time.Time
}

// NewAssignment creates an active assignment of unitID to contractID.
func NewAssignment(contractID, unitID uint, price decimal.Decimal, quantity int, validFrom, validTo *time.Time) (*Assignment, error) {
	fields := make(map[string]string)
	if contractID == 0 {
		fields[FieldContract] = "contract is required"
	}
	if unitID == 0 {
		fields[FieldUnit] = "rental unit is required"
	}
	if len(fields) > 0 {
		return nil, errors.NewFieldErrors(fields)
	}

	now := time.Now().UTC()
	return &Assignment{
		contractID: contractID,
		unitID:     unitID,
		price:      price,
		quantity:   quantity,
		validFrom:  calendarDatePtr(validFrom),
		validTo:    calendarDatePtr(validTo),
		status:     AssignmentStatusActive,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

// ReconstructAssignment reconstructs an assignment from persistence
func ReconstructAssignment(
	id uint,
	contractID uint,
	unitID uint,
	price decimal.Decimal,
	quantity int,
	validFrom, validTo *time.Time,
	status string,
	createdAt, updatedAt time.Time,
) (*Assignment, error) {
	if id == 0 {
		return nil, fmt.Errorf("assignment ID cannot be zero")
	}
	if contractID == 0 || unitID == 0 {
		return nil, fmt.Errorf("assignment %d has no contract or unit", id)
	}
	s := AssignmentStatus(status)
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid assignment status: %s", status)
	}

	return &Assignment{
		id:         id,
		contractID: contractID,
		unitID:     unitID,
		price:      price,
		quantity:   quantity,
		validFrom:  calendarDatePtr(validFrom),
		validTo:    calendarDatePtr(validTo),
		status:     s,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

func (a *Assignment) ID() uint {
	return a.id
}

func (a *Assignment) ContractID() uint {
	return a.contractID
}

func (a *Assignment) UnitID() uint {
	return a.unitID
}

func (a *Assignment) Price() decimal.Decimal {
	return a.price
}

// Quantity returns the number of capacity slots this assignment consumes.
func (a *Assignment) Quantity() int {
	return a.quantity
}

func (a *Assignment) ValidFrom() *time.Time {
	return calendarDatePtr(a.validFrom)
}

func (a *Assignment) ValidTo() *time.Time {
	return calendarDatePtr(a.validTo)
}

func (a *Assignment) Status() AssignmentStatus {
	return a.status
}

func (a *Assignment) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Assignment) UpdatedAt() time.Time {
	return a.updatedAt
}

// SetID sets the assignment ID (only for persistence layer use)
func (a *Assignment) SetID(id uint) error {
	if a.id != 0 {
		return fmt.Errorf("assignment ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("assignment ID cannot be zero")
	}
	a.id = id
	return nil
}

// Revise replaces price, quantity and validity window.
func (a *Assignment) Revise(price decimal.Decimal, quantity int, validFrom, validTo *time.Time) {
	a.price = price
	a.quantity = quantity
	a.validFrom = calendarDatePtr(validFrom)
	a.validTo = calendarDatePtr(validTo)
	a.touch()
}

// ChangeStatus sets the assignment status.
func (a *Assignment) ChangeStatus(status AssignmentStatus) error {
	if !status.IsValid() {
		return errors.NewFieldError("status", fmt.Sprintf("invalid assignment status %q", status))
	}
	if a.status == status {
		return nil
	}
	a.status = status
	a.touch()
	return nil
}

// Check builds the validation input for this assignment. The caller fills in the
// contract activity and capacity figures from the ledger.
func (a *Assignment) Check() occupancy.AssignmentCheck {
	return occupancy.AssignmentCheck{
		Price:     a.price,
		Quantity:  a.quantity,
		ValidFrom: a.ValidFrom(),
		ValidTo:   a.ValidTo(),
	}
}

func (a *Assignment) touch() {
	a.updatedAt = time.Now().UTC()
}

// Binding pairs an assignment with its owning contract.
type Binding struct {
	Assignment *Assignment
	Contract   *Contract
}
