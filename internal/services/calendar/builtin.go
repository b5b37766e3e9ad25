package calendar

import (
	"context"
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/jp"

	"github.com/ternarybob/jouhou/internal/interfaces"
)

// BuiltinCalendar answers from the Japanese public holiday rules compiled into
// rickar/cal. It needs no network and is always available.
type BuiltinCalendar struct {
	holidays *cal.Calendar
}

func NewBuiltinCalendar() *BuiltinCalendar {
	holidays := &cal.Calendar{}
	holidays.AddHoliday(jp.Holidays...)
	return &BuiltinCalendar{holidays: holidays}
}

func (c *BuiltinCalendar) Name() string {
	return SourceBuiltin
}

// Lookup checks the calendar date of date in its own location. Substitute
// holidays (a holiday falling on Sunday moved to a weekday) count as holidays.
func (c *BuiltinCalendar) Lookup(_ context.Context, date time.Time) interfaces.HolidayResult {
	actual, observed, holiday := c.holidays.IsHoliday(date)
	if holiday == nil || (!actual && !observed) {
		return interfaces.HolidayResult{Available: true}
	}

	name := holiday.Name
	if observed && !actual {
		name += " (substitute holiday)"
	}
	return interfaces.HolidayResult{Holiday: true, Name: name, Available: true}
}
