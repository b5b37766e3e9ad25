package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/jouhou/internal/httpclient"
	"github.com/ternarybob/jouhou/internal/interfaces"
)

// APICalendar looks up public holidays from a JSON date map endpoint such as
// https://holidays-jp.github.io/api/v1/date.json ({"2026-01-01": "元日", ...}).
type APICalendar struct {
	url    string
	client httpclient.HTTPDoer
	logger arbor.ILogger
}

// NewAPICalendar creates a calendar backed by the endpoint at url
func NewAPICalendar(url string, client httpclient.HTTPDoer, logger arbor.ILogger) *APICalendar {
	if client == nil {
		client = httpclient.NewDefaultHTTPClient(10 * time.Second)
	}
	return &APICalendar{
		url:    url,
		client: client,
		logger: logger,
	}
}

func (c *APICalendar) Name() string {
	return "api"
}

// Lookup fetches the date map and checks date. Every failure yields an
// unavailable result; nothing is returned as an error.
func (c *APICalendar) Lookup(ctx context.Context, date time.Time) interfaces.HolidayResult {
	holidays, err := c.fetch(ctx)
	if err != nil {
		return interfaces.Unavailable(err)
	}

	key := date.Format(DateLayout)
	name, ok := holidays[key]

	c.logger.Debug().
		Str("date", key).
		Bool("holiday", ok).
		Int("known_dates", len(holidays)).
		Msg("Holiday API lookup complete")

	return interfaces.HolidayResult{Holiday: ok, Name: name, Available: true}
}

func (c *APICalendar) fetch(ctx context.Context) (map[string]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create holiday request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("holiday request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("holiday API returned %d: %s", resp.StatusCode, string(body))
	}

	var holidays map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		return nil, fmt.Errorf("decode holiday map: %w", err)
	}
	return holidays, nil
}
