package calendar

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/jouhou/internal/common"
	"github.com/ternarybob/jouhou/internal/httpclient"
	"github.com/ternarybob/jouhou/internal/interfaces"
)

// Holiday sources accepted by calendar.holiday_source
const (
	SourceBuiltin = "builtin"
	SourceAPI     = "api"
	SourceStatic  = "static"
	SourceNone    = "none"
)

// NewHolidayCalendar builds the holiday capability from configuration.
// Returns nil for SourceNone; the gate then treats every date as a non-holiday.
func NewHolidayCalendar(cfg *common.CalendarConfig, logger arbor.ILogger) (interfaces.HolidayCalendar, error) {
	static, err := NewStaticCalendar(cfg.ExtraHolidays)
	if err != nil {
		return nil, err
	}

	switch cfg.HolidaySource {
	case SourceNone:
		return nil, nil
	case SourceStatic:
		return static, nil
	case SourceBuiltin, "":
		builtin := NewBuiltinCalendar()
		if static.Len() == 0 {
			return builtin, nil
		}
		return NewChainCalendar(static, builtin), nil
	case SourceAPI:
		timeout, err := common.ParseDuration(cfg.HolidayTimeout)
		if err != nil {
			return nil, err
		}
		api := NewAPICalendar(cfg.HolidayAPIURL, httpclient.NewDefaultHTTPClient(timeout), logger)
		if static.Len() == 0 {
			return api, nil
		}
		return NewChainCalendar(static, api), nil
	default:
		return nil, fmt.Errorf("unsupported holiday source: %s", cfg.HolidaySource)
	}
}
