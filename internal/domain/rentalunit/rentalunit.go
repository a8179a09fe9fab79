// Package rentalunit provides the rental unit aggregate and its hierarchy rules.
package rentalunit

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/mietwerk/mietwerk/internal/shared/errors"
)

const maxNameLength = 200

// RentalUnit is a leasable object offering one or more interchangeable capacity slots.
// A unit may sit below a parent unit; the parent chain is acyclic.
type RentalUnit struct {
	id        uint
	name      string
	kind      Kind
	capacity  int
	available bool
	parentID  *uint
	createdAt time.Time
	updatedAt time.Time
}

// NewRentalUnit creates a new, available rental unit.
func NewRentalUnit(name string, kind Kind, capacity int, parentID *uint) (*RentalUnit, error) {
	name = strings.TrimSpace(name)
	fields := make(map[string]string)
	if msg := validateName(name); msg != "" {
		fields[FieldName] = msg
	}
	if !kind.IsValid() {
		fields[FieldKind] = fmt.Sprintf("invalid kind %q", kind)
	}
	if msg := validateCapacity(capacity); msg != "" {
		fields[FieldCapacity] = msg
	}
	if parentID != nil && *parentID == 0 {
		fields[FieldParent] = "parent id must not be zero"
	}
	if len(fields) > 0 {
		return nil, errors.NewFieldErrors(fields)
	}

	now := nowUTC()
	return &RentalUnit{
		name:      name,
		kind:      kind,
		capacity:  capacity,
		available: true,
		parentID:  copyID(parentID),
		createdAt: now,
		updatedAt: now,
	}, nil
}

// ReconstructRentalUnit reconstructs a rental unit from persistence
func ReconstructRentalUnit(
	id uint,
	name string,
	kind string,
	capacity int,
	available bool,
	parentID *uint,
	createdAt, updatedAt time.Time,
) (*RentalUnit, error) {
	if id == 0 {
		return nil, fmt.Errorf("rental unit ID cannot be zero")
	}
	k := Kind(kind)
	if !k.IsValid() {
		return nil, fmt.Errorf("invalid rental unit kind: %s", kind)
	}
	if capacity < 1 {
		return nil, fmt.Errorf("invalid capacity %d for rental unit %d", capacity, id)
	}

	return &RentalUnit{
		id:        id,
		name:      name,
		kind:      k,
		capacity:  capacity,
		available: available,
		parentID:  copyID(parentID),
		createdAt: createdAt,
		updatedAt: updatedAt,
	}, nil
}

func (u *RentalUnit) ID() uint {
	return u.id
}

func (u *RentalUnit) Name() string {
	return u.name
}

func (u *RentalUnit) Kind() Kind {
	return u.kind
}

// Capacity returns the number of interchangeable slots the unit offers.
func (u *RentalUnit) Capacity() int {
	return u.capacity
}

// Available returns the cached availability flag.
func (u *RentalUnit) Available() bool {
	return u.available
}

// ParentID returns the parent unit ID, nil for a root unit.
func (u *RentalUnit) ParentID() *uint {
	return copyID(u.parentID)
}

func (u *RentalUnit) IsRoot() bool {
	return u.parentID == nil
}

func (u *RentalUnit) CreatedAt() time.Time {
	return u.createdAt
}

func (u *RentalUnit) UpdatedAt() time.Time {
	return u.updatedAt
}

// SetID sets the unit ID (only for persistence layer use)
func (u *RentalUnit) SetID(id uint) error {
	if u.id != 0 {
		return fmt.Errorf("rental unit ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("rental unit ID cannot be zero")
	}
	u.id = id
	return nil
}

// Rename changes the display name.
func (u *RentalUnit) Rename(name string) error {
	name = strings.TrimSpace(name)
	if msg := validateName(name); msg != "" {
		return errors.NewFieldError(FieldName, msg)
	}
	if u.name == name {
		return nil
	}
	u.name = name
	u.touch()
	return nil
}

func (u *RentalUnit) ChangeKind(kind Kind) error {
	if !kind.IsValid() {
		return errors.NewFieldError(FieldKind, fmt.Sprintf("invalid kind %q", kind))
	}
	if u.kind == kind {
		return nil
	}
	u.kind = kind
	u.touch()
	return nil
}

// ChangeCapacity sets a new capacity. consumed is the number of slots currently in use;
// capacity may not drop below it.
func (u *RentalUnit) ChangeCapacity(capacity, consumed int) error {
	if msg := validateCapacity(capacity); msg != "" {
		return errors.NewFieldError(FieldCapacity, msg)
	}
	if capacity < consumed {
		return errors.NewFieldError(FieldCapacity, fmt.Sprintf(
			"capacity %d is below the %d slots currently consumed", capacity, consumed))
	}
	if u.capacity == capacity {
		return nil
	}
	u.capacity = capacity
	u.touch()
	return nil
}

// MoveUnder sets the parent of the unit. ancestors is the chain above the new parent
// (nearest first), as loaded by the caller; it is used to reject cycles.
func (u *RentalUnit) MoveUnder(parentID *uint, ancestors []uint) error {
	if parentID == nil {
		if u.parentID == nil {
			return nil
		}
		u.parentID = nil
		u.touch()
		return nil
	}
	if *parentID == 0 {
		return errors.NewFieldError(FieldParent, "parent id must not be zero")
	}
	if u.id != 0 && (*parentID == u.id || slices.Contains(ancestors, u.id)) {
		return NewCircularReferenceError()
	}
	if u.parentID != nil && *u.parentID == *parentID {
		return nil
	}
	u.parentID = copyID(parentID)
	u.touch()
	return nil
}

// SetAvailable updates the cached flag and reports whether it changed.
func (u *RentalUnit) SetAvailable(available bool) bool {
	if u.available == available {
		return false
	}
	u.available = available
	u.touch()
	return true
}

func (u *RentalUnit) touch() {
	u.updatedAt = nowUTC()
}

func validateName(name string) string {
	if name == "" {
		return "name is required"
	}
	if len(name) > maxNameLength {
		return fmt.Sprintf("name must be at most %d characters long", maxNameLength)
	}
	return ""
}

func validateCapacity(capacity int) string {
	if capacity < 1 {
		return fmt.Sprintf("capacity must be at least 1, got %d", capacity)
	}
	return ""
}

func copyID(id *uint) *uint {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func idDetail(id uint) string {
	return "id=" + strconv.FormatUint(uint64(id), 10)
}

func nowUTC() time.Time {
	return time.Now().UTC()
}
