package common

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner and logs the settings that
// shape this run. Secrets are never logged.
func PrintBanner(config *Config, logger arbor.ILogger) {
	banner.Print("Jouhou", GetVersion())

	if config == nil || logger == nil {
		return
	}

	logger.Info().
		Str("version", GetFullVersion()).
		Str("environment", config.Environment).
		Bool("production", config.IsProduction()).
		Str("timezone", config.Calendar.Timezone).
		Str("holiday_source", config.Calendar.HolidaySource).
		Str("model", config.OpenAI.Model).
		Str("reasoning_effort", config.OpenAI.ReasoningEffort).
		Bool("web_search", config.OpenAI.WebSearch).
		Int("max_attempts", config.Retry.MaxAttempts).
		Msg("Jouhou starting")
}
