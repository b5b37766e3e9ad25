package models

import "time"

// HolidayLookup records how the holiday status of a run was determined
type HolidayLookup string

const (
	HolidayLookupFound       HolidayLookup = "found"       // Calendar answered
	HolidayLookupUnavailable HolidayLookup = "unavailable" // Calendar absent or failed; treated as not a holiday
	HolidayLookupSkipped     HolidayLookup = "skipped"     // Not a working weekday, calendar not consulted
)

// RunContext is the business-day decision for the current run.
// It is computed once at startup and not modified afterwards.
type RunContext struct {
	Now           time.Time     `json:"now"`     // Instant in the calendar timezone
	Date          string        `json:"date"`    // Local date, YYYY-MM-DD
	Weekday       int           `json:"weekday"` // Monday=0 ... Sunday=6
	IsWeekday     bool          `json:"is_weekday"`
	IsHoliday     bool          `json:"is_holiday"`
	HolidayName   string        `json:"holiday_name,omitempty"`
	HolidayLookup HolidayLookup `json:"holiday_lookup"`
	IsBusinessDay bool          `json:"is_business_day"`
}

// RunReport summarises a single process run
type RunReport struct {
	RunID    string            `json:"run_id"`
	Run      RunContext        `json:"run"`
	Skipped  bool              `json:"skipped"`
	Result   *CompletionResult `json:"result,omitempty"`
	Delivery *DeliveryOutcome  `json:"delivery,omitempty"`
}
