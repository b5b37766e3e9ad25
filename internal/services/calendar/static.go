package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/jouhou/internal/interfaces"
)

// StaticCalendar holds a fixed list of closure days
type StaticCalendar struct {
	dates map[string]struct{}
}

// NewStaticCalendar parses YYYY-MM-DD dates. Blank entries are skipped.
func NewStaticCalendar(dates []string) (*StaticCalendar, error) {
	c := &StaticCalendar{dates: make(map[string]struct{}, len(dates))}
	for _, d := range dates {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		parsed, err := time.Parse(DateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday date %q: %w", d, err)
		}
		c.dates[parsed.Format(DateLayout)] = struct{}{}
	}
	return c, nil
}

func (c *StaticCalendar) Name() string {
	return "static"
}

func (c *StaticCalendar) Lookup(_ context.Context, date time.Time) interfaces.HolidayResult {
	_, ok := c.dates[date.Format(DateLayout)]
	result := interfaces.HolidayResult{Holiday: ok, Available: true}
	if ok {
		result.Name = "configured closure day"
	}
	return result
}

// Len returns the number of configured dates
func (c *StaticCalendar) Len() int {
	return len(c.dates)
}
