package calendar

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/jouhou/internal/interfaces"
	"github.com/ternarybob/jouhou/internal/models"
)

// DateLayout is the local date format used by calendars and run reports
const DateLayout = "2006-01-02"

// WorkingDays are the weekdays that can be business days
var WorkingDays = []time.Weekday{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday}

// Gate decides whether a run falls on a business day
type Gate struct {
	location *time.Location
	calendar interfaces.HolidayCalendar
	logger   arbor.ILogger
}

// NewGate creates a gate for the given timezone. calendar may be nil, in which
// case no date is treated as a holiday.
func NewGate(location *time.Location, calendar interfaces.HolidayCalendar, logger arbor.ILogger) *Gate {
	if location == nil {
		location = time.UTC
	}
	return &Gate{
		location: location,
		calendar: calendar,
		logger:   logger,
	}
}

// Evaluate computes the run context for the instant now.
// Business day = Monday..Friday and not a holiday. Holiday lookups that fail
// or are unavailable count as "not a holiday".
func (g *Gate) Evaluate(ctx context.Context, now time.Time) models.RunContext {
	local := now.In(g.location)
	weekday := MondayIndex(local.Weekday())

	run := models.RunContext{
		Now:           local,
		Date:          local.Format(DateLayout),
		Weekday:       weekday,
		IsWeekday:     IsWorkingWeekday(local.Weekday()),
		HolidayLookup: models.HolidayLookupUnavailable,
	}

	// Weekends are decided without consulting the calendar
	if !run.IsWeekday {
		run.HolidayLookup = models.HolidayLookupSkipped
		return run
	}

	result := g.lookup(ctx, local)
	if result.Available {
		run.HolidayLookup = models.HolidayLookupFound
		run.IsHoliday = result.Holiday
		run.HolidayName = result.Name
	} else {
		g.logger.Debug().
			Str("date", run.Date).
			Err(result.Err).
			Msg("Holiday calendar unavailable, treating date as not a holiday")
	}

	run.IsBusinessDay = run.IsWeekday && !run.IsHoliday
	return run
}

func (g *Gate) lookup(ctx context.Context, local time.Time) interfaces.HolidayResult {
	if g.calendar == nil {
		return interfaces.Unavailable(nil)
	}
	return g.calendar.Lookup(ctx, local)
}

// IsWorkingWeekday reports whether day is one of WorkingDays
func IsWorkingWeekday(day time.Weekday) bool {
	for _, wd := range WorkingDays {
		if wd == day {
			return true
		}
	}
	return false
}

// MondayIndex converts a time.Weekday to Monday=0 ... Sunday=6
func MondayIndex(day time.Weekday) int {
	return (int(day) + 6) % 7
}
