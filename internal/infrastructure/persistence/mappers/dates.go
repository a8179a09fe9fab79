package mappers

import (
	"time"

	"gorm.io/datatypes"
)

// toDate converts a calendar date to its column value.
func toDate(t time.Time) datatypes.Date {
	return datatypes.Date(t)
}

func toDatePtr(t *time.Time) *datatypes.Date {
	if t == nil {
		return nil
	}
	d := datatypes.Date(*t)
	return &d
}

// fromDate converts a scanned column value back to a UTC calendar date.
func fromDate(d datatypes.Date) time.Time {
	y, m, day := time.Time(d).Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func fromDatePtr(d *datatypes.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := fromDate(*d)
	return &t
}
