package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/jouhou/internal/common"
	"github.com/ternarybob/jouhou/internal/httpclient"
	"github.com/ternarybob/jouhou/internal/interfaces"
	"github.com/ternarybob/jouhou/internal/models"
	"github.com/ternarybob/jouhou/internal/services/calendar"
	"github.com/ternarybob/jouhou/internal/services/completion"
	"github.com/ternarybob/jouhou/internal/services/notifier"
)

// App holds all application components and dependencies
type App struct {
	Config *common.Config
	Logger arbor.ILogger

	Gate       *calendar.Gate
	Completion interfaces.CompletionService
	Notifier   interfaces.Notifier

	// Clock returns the current instant; replaced in tests
	Clock func() time.Time
}

// New validates the configuration and initializes all services.
// No network calls are made here.
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		Logger: logger,
		Clock:  time.Now,
	}

	if err := app.initServices(); err != nil {
		return nil, err
	}

	return app, nil
}

func (a *App) initServices() error {
	location, err := a.Config.Location()
	if err != nil {
		return &common.ConfigError{Field: "Config.Calendar.Timezone", EnvVar: "JOUHOU_CALENDAR_TIMEZONE", Reason: err.Error()}
	}

	// 1. Calendar gate
	holidays, err := calendar.NewHolidayCalendar(&a.Config.Calendar, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize holiday calendar: %w", err)
	}
	a.Gate = calendar.NewGate(location, holidays, a.Logger)

	// 2. Completion service with retry policy
	baseWait, err := common.ParseDuration(a.Config.Retry.BaseWait)
	if err != nil {
		return &common.ConfigError{Field: "Config.Retry.BaseWait", EnvVar: "JOUHOU_RETRY_BASE_WAIT", Reason: err.Error()}
	}
	policy, err := completion.NewRetryPolicy(a.Config.Retry.MaxAttempts, baseWait, a.Logger)
	if errors.Is(err, completion.ErrInvalidBaseWait) {
		return &common.ConfigError{Field: "Config.Retry.BaseWait", EnvVar: "JOUHOU_RETRY_BASE_WAIT", Reason: err.Error()}
	}
	if err != nil {
		return &common.ConfigError{Field: "Config.Retry.MaxAttempts", EnvVar: "JOUHOU_RETRY_MAX_ATTEMPTS", Reason: err.Error()}
	}

	timeout, err := common.ParseDuration(a.Config.OpenAI.Timeout)
	if err != nil {
		return &common.ConfigError{Field: "Config.OpenAI.Timeout", EnvVar: "JOUHOU_OPENAI_TIMEOUT", Reason: err.Error()}
	}
	client, err := completion.NewOpenAIClient(a.Config.OpenAI.APIKey, a.Config.OpenAI.BaseURL, timeout, httpclient.NewAPIClient(timeout), a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize OpenAI client: %w", err)
	}
	a.Completion, err = completion.NewService(client, policy, a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize completion service: %w", err)
	}

	// 3. Webhook notifier
	webhookTimeout, err := common.ParseDuration(a.Config.Webhook.Timeout)
	if err != nil {
		return &common.ConfigError{Field: "Config.Webhook.Timeout", EnvVar: "JOUHOU_WEBHOOK_TIMEOUT", Reason: err.Error()}
	}
	a.Notifier, err = notifier.NewWebhookNotifier(a.Config.Webhook.URL, a.Config.Webhook.Username, httpclient.NewDefaultHTTPClient(webhookTimeout), a.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize webhook notifier: %w", err)
	}

	a.Logger.Debug().
		Str("timezone", location.String()).
		Str("holiday_source", a.Config.Calendar.HolidaySource).
		Str("model", a.Config.OpenAI.Model).
		Int("max_attempts", policy.MaxAttempts).
		Dur("base_wait", baseWait).
		Dur("openai_timeout", timeout).
		Msg("Services initialized")

	return nil
}

// Run executes one notification cycle: gate, build, complete, notify.
// A non-business day returns a report with Skipped set and no error. Webhook
// rejections are reported in the delivery outcome, not as errors.
func (a *App) Run(ctx context.Context) (*models.RunReport, error) {
	report := &models.RunReport{RunID: common.NewRunID()}

	run := a.Gate.Evaluate(ctx, a.Clock())
	report.Run = run

	if !run.IsBusinessDay {
		report.Skipped = true
		a.Logger.Info().
			Str("run_id", report.RunID).
			Str("date", run.Date).
			Int("weekday", run.Weekday).
			Bool("holiday", run.IsHoliday).
			Msgf("Not a business day, skipping: %s %s (weekday=%d, holiday=%t)",
				run.Date, run.Now.Location().String(), run.Weekday, run.IsHoliday)
		return report, nil
	}

	a.Logger.Info().
		Str("run_id", report.RunID).
		Str("date", run.Date).
		Int("weekday", run.Weekday).
		Str("holiday_lookup", string(run.HolidayLookup)).
		Msg("Business day, requesting completion")

	request, err := completion.BuildRequest(&a.Config.OpenAI, a.Config.Prompt.Text)
	if err != nil {
		return report, err
	}

	result, err := a.Completion.Complete(ctx, request)
	if err != nil {
		return report, fmt.Errorf("completion failed: %w", err)
	}
	report.Result = result

	outcome, err := a.Notifier.Send(ctx, result.Text)
	if err != nil {
		return report, fmt.Errorf("notification failed: %w", err)
	}
	report.Delivery = outcome

	a.Logger.Info().
		Str("run_id", report.RunID).
		Int("attempts", result.Attempts).
		Int("status", outcome.StatusCode).
		Bool("delivered", outcome.Delivered).
		Msg("Run complete")

	return report, nil
}
