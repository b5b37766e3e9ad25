package calendar

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jouhou/internal/interfaces"
	"github.com/ternarybob/jouhou/internal/models"
)

// mockCalendar implements interfaces.HolidayCalendar for testing
type mockCalendar struct {
	result interfaces.HolidayResult
	calls  int
}

func (m *mockCalendar) Name() string { return "mock" }

func (m *mockCalendar) Lookup(ctx context.Context, date time.Time) interfaces.HolidayResult {
	m.calls++
	return m.result
}

func tokyo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	return loc
}

func TestGate_WeekendIsNeverBusinessDay(t *testing.T) {
	loc := tokyo(t)
	// 2026-10-17 is a Saturday, 2026-10-18 a Sunday
	days := []time.Time{
		time.Date(2026, 10, 17, 9, 0, 0, 0, loc),
		time.Date(2026, 10, 18, 9, 0, 0, 0, loc),
	}
	calendars := map[string]interfaces.HolidayCalendar{
		"absent":      nil,
		"not holiday": &mockCalendar{result: interfaces.HolidayResult{Available: true}},
		"holiday":     &mockCalendar{result: interfaces.HolidayResult{Available: true, Holiday: true}},
		"failing":     &mockCalendar{result: interfaces.Unavailable(errors.New("boom"))},
	}

	for name, cal := range calendars {
		for _, day := range days {
			gate := NewGate(loc, cal, arbor.NewLogger())
			run := gate.Evaluate(context.Background(), day)

			assert.False(t, run.IsWeekday, "%s %s", name, run.Date)
			assert.False(t, run.IsBusinessDay, "%s %s", name, run.Date)
			assert.GreaterOrEqual(t, run.Weekday, 5)
			assert.Equal(t, models.HolidayLookupSkipped, run.HolidayLookup)
		}
	}
}

func TestGate_HolidayOnWeekdayIsNotBusinessDay(t *testing.T) {
	loc := tokyo(t)
	cal := &mockCalendar{result: interfaces.HolidayResult{Available: true, Holiday: true, Name: "スポーツの日"}}
	gate := NewGate(loc, cal, arbor.NewLogger())

	// 2026-10-12 is a Monday
	run := gate.Evaluate(context.Background(), time.Date(2026, 10, 12, 8, 0, 0, 0, loc))

	assert.Equal(t, 0, run.Weekday)
	assert.True(t, run.IsWeekday)
	assert.True(t, run.IsHoliday)
	assert.Equal(t, "スポーツの日", run.HolidayName)
	assert.Equal(t, models.HolidayLookupFound, run.HolidayLookup)
	assert.False(t, run.IsBusinessDay)
	assert.Equal(t, 1, cal.calls)
}

func TestGate_UnavailableCalendarFailsOpen(t *testing.T) {
	loc := tokyo(t)
	weekday := time.Date(2026, 10, 14, 8, 0, 0, 0, loc) // Wednesday

	tests := []struct {
		name     string
		calendar interfaces.HolidayCalendar
	}{
		{"absent", nil},
		{"errored", &mockCalendar{result: interfaces.Unavailable(errors.New("connection refused"))}},
		{"unavailable without error", &mockCalendar{result: interfaces.HolidayResult{Available: false, Holiday: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gate := NewGate(loc, tt.calendar, arbor.NewLogger())
			run := gate.Evaluate(context.Background(), weekday)

			assert.Equal(t, 2, run.Weekday)
			assert.False(t, run.IsHoliday)
			assert.Equal(t, models.HolidayLookupUnavailable, run.HolidayLookup)
			assert.True(t, run.IsBusinessDay)
		})
	}
}

func TestGate_UsesCalendarTimezone(t *testing.T) {
	loc := tokyo(t)
	gate := NewGate(loc, nil, arbor.NewLogger())

	// Friday 20:00 UTC is already Saturday in Tokyo
	run := gate.Evaluate(context.Background(), time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC))

	assert.Equal(t, "2026-10-17", run.Date)
	assert.Equal(t, 5, run.Weekday)
	assert.False(t, run.IsBusinessDay)
	assert.Equal(t, loc, run.Now.Location())
}

func TestMondayIndex(t *testing.T) {
	assert.Equal(t, 0, MondayIndex(time.Monday))
	assert.Equal(t, 4, MondayIndex(time.Friday))
	assert.Equal(t, 5, MondayIndex(time.Saturday))
	assert.Equal(t, 6, MondayIndex(time.Sunday))
}

func TestIsWorkingWeekday(t *testing.T) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		assert.Equal(t, MondayIndex(day) < 5, IsWorkingWeekday(day), day.String())
	}
}
