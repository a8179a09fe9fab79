// Package occupancy holds the pure rules of the occupancy engine: validity windows,
// capacity slot accounting and assignment validation. Nothing here touches storage.
package occupancy

import (
	"fmt"
	"time"

	"github.com/mietwerk/mietwerk/internal/shared/biztime"
)

// DateRange is a validity window. A nil End means the range is open-ended.
type DateRange struct {
	Start time.Time
	End   *time.Time
}

// NewDateRange builds a range; end may be nil for open-ended windows.
func NewDateRange(start time.Time, end *time.Time) DateRange {
	return DateRange{Start: start, End: end}
}

// IsOpen reports whether the range has no end.
func (r DateRange) IsOpen() bool {
	return r.End == nil
}

// Contains reports whether day lies in [Start, End).
func (r DateRange) Contains(day time.Time) bool {
	if day.Before(r.Start) {
		return false
	}
	return r.End == nil || r.End.After(day)
}

func (r DateRange) String() string {
	if r.End == nil {
		return fmt.Sprintf("[%s, open)", biztime.FormatDate(r.Start))
	}
	return fmt.Sprintf("[%s, %s)", biztime.FormatDate(r.Start), biztime.FormatDate(*r.End))
}

// Overlaps decides whether two validity windows intersect.
// Rules are evaluated in order: both open always overlap; an open range overlaps a bounded
// one iff the bounded range ends after the open one starts; two bounded ranges use
// half-open interval intersection. Ranges with End <= Start never reach this function.
func Overlaps(a, b DateRange) bool {
	switch {
	case a.End == nil && b.End == nil:
		return true
	case b.End == nil:
		return a.End.After(b.Start)
	case a.End == nil:
		return b.End.After(a.Start)
	default:
		return a.Start.Before(*b.End) && a.End.After(b.Start)
	}
}
