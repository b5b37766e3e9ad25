package interfaces

import (
	"context"
	"time"
)

// HolidayResult is the answer of a holiday calendar for one date.
// Available is false when the calendar could not answer; Holiday is then meaningless.
type HolidayResult struct {
	Holiday   bool
	Name      string
	Available bool
	Err       error
}

// Unavailable builds a result for a calendar that could not answer
func Unavailable(err error) HolidayResult {
	return HolidayResult{Available: false, Err: err}
}

// HolidayCalendar reports whether a local date is a public holiday
type HolidayCalendar interface {
	Lookup(ctx context.Context, date time.Time) HolidayResult
	Name() string
}
