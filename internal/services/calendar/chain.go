package calendar

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ternarybob/jouhou/internal/interfaces"
)

// ChainCalendar consults calendars in order. The first positive answer wins;
// the result is available when at least one member answered.
type ChainCalendar struct {
	calendars []interfaces.HolidayCalendar
}

func NewChainCalendar(calendars ...interfaces.HolidayCalendar) *ChainCalendar {
	return &ChainCalendar{calendars: calendars}
}

func (c *ChainCalendar) Name() string {
	names := make([]string, 0, len(c.calendars))
	for _, cal := range c.calendars {
		names = append(names, cal.Name())
	}
	return strings.Join(names, "+")
}

func (c *ChainCalendar) Lookup(ctx context.Context, date time.Time) interfaces.HolidayResult {
	var errs []error
	available := false

	for _, cal := range c.calendars {
		result := cal.Lookup(ctx, date)
		if !result.Available {
			if result.Err != nil {
				errs = append(errs, result.Err)
			}
			continue
		}
		available = true
		if result.Holiday {
			return result
		}
	}

	if !available {
		return interfaces.Unavailable(errors.Join(errs...))
	}
	return interfaces.HolidayResult{Available: true}
}
