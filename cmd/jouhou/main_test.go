package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/jouhou/internal/common"
)

type endpoints struct {
	openAI        *httptest.Server
	webhook       *httptest.Server
	openAICalls   atomic.Int32
	webhookCalls  atomic.Int32
	webhookStatus int
}

func newEndpoints(t *testing.T, webhookStatus int) *endpoints {
	t.Helper()
	e := &endpoints{webhookStatus: webhookStatus}

	e.openAI = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.openAICalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"resp_1","model":"gpt-5.2","output":[{"type":"message","content":[{"type":"output_text","text":"digest"}]}]}`))
	}))
	t.Cleanup(e.openAI.Close)

	e.webhook = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		e.webhookCalls.Add(1)
		w.WriteHeader(e.webhookStatus)
		if e.webhookStatus != http.StatusNoContent {
			_, _ = w.Write([]byte("rejected"))
		}
	}))
	t.Cleanup(e.webhook.Close)

	return e
}

func (e *endpoints) config() *common.Config {
	cfg := common.NewDefaultConfig()
	cfg.OpenAI.APIKey = "sk-test"
	cfg.OpenAI.BaseURL = e.openAI.URL
	cfg.Webhook.URL = e.webhook.URL
	cfg.Prompt.Text = "Summarise today's news"
	cfg.Retry.BaseWait = "1ms"
	return cfg
}

func at(t *testing.T, year int, month time.Month, day int) func() time.Time {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	now := time.Date(year, month, day, 8, 30, 0, 0, loc)
	return func() time.Time { return now }
}

func TestExecute_ExitCodes(t *testing.T) {
	tests := []struct {
		name          string
		webhookStatus int
		clock         func(t *testing.T) func() time.Time
		mutate        func(e *endpoints, cfg *common.Config)
		expectedCode  int
		openAICalls   int32
		webhookCalls  int32
	}{
		{
			name:          "delivered",
			webhookStatus: http.StatusNoContent,
			clock:         func(t *testing.T) func() time.Time { return at(t, 2026, time.October, 14) },
			expectedCode:  0,
			openAICalls:   1,
			webhookCalls:  1,
		},
		{
			name:          "weekend skip",
			webhookStatus: http.StatusNoContent,
			clock:         func(t *testing.T) func() time.Time { return at(t, 2026, time.October, 17) },
			expectedCode:  0,
		},
		{
			name:          "holiday skip",
			webhookStatus: http.StatusNoContent,
			clock:         func(t *testing.T) func() time.Time { return at(t, 2026, time.November, 3) },
			expectedCode:  0,
		},
		{
			name:          "webhook server error",
			webhookStatus: http.StatusInternalServerError,
			clock:         func(t *testing.T) func() time.Time { return at(t, 2026, time.October, 14) },
			expectedCode:  0,
			openAICalls:   1,
			webhookCalls:  1,
		},
		{
			name:          "missing api key",
			webhookStatus: http.StatusNoContent,
			clock:         func(t *testing.T) func() time.Time { return at(t, 2026, time.October, 14) },
			mutate:        func(e *endpoints, cfg *common.Config) { cfg.OpenAI.APIKey = "" },
			expectedCode:  1,
		},
		{
			name:          "exhausted retries",
			webhookStatus: http.StatusNoContent,
			clock:         func(t *testing.T) func() time.Time { return at(t, 2026, time.October, 14) },
			mutate: func(e *endpoints, cfg *common.Config) {
				cfg.Retry.MaxAttempts = 2
				e.openAI.Close()
			},
			expectedCode: 1,
		},
		{
			name:          "webhook unreachable",
			webhookStatus: http.StatusNoContent,
			clock:         func(t *testing.T) func() time.Time { return at(t, 2026, time.October, 14) },
			mutate:        func(e *endpoints, cfg *common.Config) { e.webhook.Close() },
			expectedCode:  1,
			openAICalls:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEndpoints(t, tt.webhookStatus)
			cfg := e.config()
			if tt.mutate != nil {
				tt.mutate(e, cfg)
			}

			code := execute(context.Background(), cfg, arbor.NewLogger(), tt.clock(t))

			assert.Equal(t, tt.expectedCode, code)
			assert.Equal(t, tt.openAICalls, e.openAICalls.Load())
			assert.Equal(t, tt.webhookCalls, e.webhookCalls.Load())
		})
	}
}

// unsetEnv removes variables for the duration of the test
func unsetEnv(t *testing.T, names ...string) {
	t.Helper()
	for _, name := range names {
		t.Setenv(name, "")
		require.NoError(t, os.Unsetenv(name))
	}
}

func TestRun_MissingEnvExitsOne(t *testing.T) {
	unsetEnv(t, "JOUHOU_CONFIG", "JOUHOU_LOG_OUTPUT", "OPENAI_API_KEY", "DISCORD_WEBHOOK_URL", "PROMPT", "JOUHOU_PROMPT")

	assert.Equal(t, 1, run())
}

func TestRun_UnparseableEnvExitsOne(t *testing.T) {
	unsetEnv(t, "JOUHOU_CONFIG", "JOUHOU_LOG_OUTPUT")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DISCORD_WEBHOOK_URL", "http://127.0.0.1:1/webhook")
	t.Setenv("PROMPT", "p")
	t.Setenv("JOUHOU_RETRY_MAX_ATTEMPTS", "one")

	assert.Equal(t, 1, run())
}
