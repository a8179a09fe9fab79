// Package contract provides the contract aggregate, its unit assignments and numbering rules.
package contract

import (
	"fmt"
	"time"

	"github.com/mietwerk/mietwerk/internal/domain/occupancy"
	"github.com/mietwerk/mietwerk/internal/shared/biztime"
	"github.com/mietwerk/mietwerk/internal/shared/errors"
)

// Contract is a rental agreement with a validity window and a lifecycle status.
// It may carry a legacy link to a single rental unit, which is accounted for
// through a materialized assignment (see MaterializeLegacyAssignment).
type Contract struct {
	id           uint
	number       string
	status       Status
	start        time.Time
	end          *time.Time
	tenantID     uint
	legacyUnitID *uint
	createdAt    time.Time
	updatedAt    time.Time
}

// NewContract creates a contract. number may be empty and assigned later by a NumberGenerator.
// An empty status defaults to draft.
func NewContract(number string, tenantID uint, status Status, start time.Time, end *time.Time, legacyUnitID *uint) (*Contract, error) {
	if status == "" {
		status = StatusDraft
	}

	fields := make(map[string]string)
	if number != "" {
		if err := ValidateNumber(number); err != nil {
			fields[FieldNumber] = errors.FieldErrors(err)[FieldNumber]
		}
	}
	if tenantID == 0 {
		fields[FieldTenant] = "tenant is required"
	}
	if !status.IsValid() {
		fields[FieldStatus] = fmt.Sprintf("invalid status %q", status)
	}
	if field, msg := validatePeriod(start, end); field != "" {
		fields[field] = msg
	}
	if legacyUnitID != nil && *legacyUnitID == 0 {
		fields[FieldLegacyUnit] = "legacy unit id must not be zero"
	}
	if len(fields) > 0 {
		return nil, errors.NewFieldErrors(fields)
	}

	now := time.Now().UTC()
	return &Contract{
		number:       number,
		status:       status,
		start:        calendarDate(start),
		end:          calendarDatePtr(end),
		tenantID:     tenantID,
		legacyUnitID: copyID(legacyUnitID),
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// ReconstructContract reconstructs a contract from persistence
func ReconstructContract(
	id uint,
	number string,
	status string,
	start time.Time,
	end *time.Time,
	tenantID uint,
	legacyUnitID *uint,
	createdAt, updatedAt time.Time,
) (*Contract, error) {
	if id == 0 {
		return nil, fmt.Errorf("contract ID cannot be zero")
	}
	s := Status(status)
	if !s.IsValid() {
		return nil, fmt.Errorf("invalid contract status: %s", status)
	}

	return &Contract{
		id:           id,
		number:       number,
		status:       s,
		start:        calendarDate(start),
		end:          calendarDatePtr(end),
		tenantID:     tenantID,
		legacyUnitID: copyID(legacyUnitID),
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}, nil
}

func (c *Contract) ID() uint {
	return c.id
}

// Number returns the human-facing contract number, empty until assigned.
func (c *Contract) Number() string {
	return c.number
}

func (c *Contract) Status() Status {
	return c.status
}

func (c *Contract) Start() time.Time {
	return c.start
}

// End returns the exclusive end date, nil for open-ended contracts.
func (c *Contract) End() *time.Time {
	return calendarDatePtr(c.end)
}

func (c *Contract) TenantID() uint {
	return c.tenantID
}

// LegacyUnitID returns the unit of the legacy single-unit link, if any.
func (c *Contract) LegacyUnitID() *uint {
	return copyID(c.legacyUnitID)
}

func (c *Contract) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Contract) UpdatedAt() time.Time {
	return c.updatedAt
}

// Period returns the validity window of the contract.
func (c *Contract) Period() occupancy.DateRange {
	return occupancy.NewDateRange(c.start, c.End())
}

// IsCurrentlyActive reports whether the contract consumes capacity on the given day:
// status active and start <= today < end (open end counts as ongoing).
func (c *Contract) IsCurrentlyActive(today time.Time) bool {
	return c.status == StatusActive && c.Period().Contains(calendarDate(today))
}

// OverlapsWith reports whether both contracts' validity windows intersect.
func (c *Contract) OverlapsWith(other *Contract) bool {
	return occupancy.Overlaps(c.Period(), other.Period())
}

// SetID sets the contract ID (only for persistence layer use)
func (c *Contract) SetID(id uint) error {
	if c.id != 0 {
		return fmt.Errorf("contract ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("contract ID cannot be zero")
	}
	c.id = id
	return nil
}

// AssignNumber sets the contract number. Once set, the number cannot change.
func (c *Contract) AssignNumber(number string) error {
	if err := ValidateNumber(number); err != nil {
		return err
	}
	if c.number == number {
		return nil
	}
	if c.number != "" {
		return errors.NewFieldError(FieldNumber,
			fmt.Sprintf("contract number %s cannot be changed", c.number))
	}
	c.number = number
	c.touch()
	return nil
}

// TransitionTo moves the contract to the next lifecycle status.
func (c *Contract) TransitionTo(next Status) error {
	if !next.IsValid() {
		return errors.NewFieldError(FieldStatus, fmt.Sprintf("invalid status %q", next))
	}
	if c.status == next {
		return nil
	}
	if !c.status.CanTransitionTo(next) {
		return errors.NewFieldError(FieldStatus,
			fmt.Sprintf("cannot change status from %s to %s", c.status, next))
	}
	c.status = next
	c.touch()
	return nil
}

// Reschedule replaces the validity window.
func (c *Contract) Reschedule(start time.Time, end *time.Time) error {
	if field, msg := validatePeriod(start, end); field != "" {
		return errors.NewFieldError(field, msg)
	}
	c.start = calendarDate(start)
	c.end = calendarDatePtr(end)
	c.touch()
	return nil
}

// LinkLegacyUnit sets or clears the legacy single-unit link.
func (c *Contract) LinkLegacyUnit(unitID *uint) error {
	if unitID != nil && *unitID == 0 {
		return errors.NewFieldError(FieldLegacyUnit, "legacy unit id must not be zero")
	}
	c.legacyUnitID = copyID(unitID)
	c.touch()
	return nil
}

func (c *Contract) touch() {
	c.updatedAt = time.Now().UTC()
}

func validatePeriod(start time.Time, end *time.Time) (string, string) {
	if start.IsZero() {
		return FieldStart, "start is required"
	}
	if end != nil && !calendarDate(*end).After(calendarDate(start)) {
		return FieldEnd, fmt.Sprintf("end %s must be after start %s",
			biztime.FormatDate(*end), biztime.FormatDate(start))
	}
	return "", ""
}

// calendarDate drops the clock part, keeping the calendar date as given.
func calendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return biztime.Date(y, m, d)
}

func calendarDatePtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	d := calendarDate(*t)
	return &d
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
