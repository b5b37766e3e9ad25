package common

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Logging     LoggingConfig  `toml:"logging"`
	Calendar    CalendarConfig `toml:"calendar"`
	OpenAI      OpenAIConfig   `toml:"openai"`
	Retry       RetryConfig    `toml:"retry"`
	Webhook     WebhookConfig  `toml:"webhook"`
	Prompt      PromptConfig   `toml:"prompt"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// CalendarConfig controls the business-day gate
type CalendarConfig struct {
	Timezone       string   `toml:"timezone" validate:"required"`                    // IANA zone used to derive the local date (default: "Asia/Tokyo")
	HolidaySource  string   `toml:"holiday_source" validate:"oneof=builtin api static none"` // "builtin", "api", "static" or "none"
	HolidayAPIURL  string   `toml:"holiday_api_url" validate:"omitempty,url"`
	HolidayTimeout string   `toml:"holiday_timeout"`                                    // Holiday lookup timeout (default: "10s")
	ExtraHolidays  []string `toml:"extra_holidays" validate:"dive,datetime=2006-01-02"` // Additional closure days, YYYY-MM-DD
}

// OpenAIConfig contains OpenAI Responses API settings
type OpenAIConfig struct {
	APIKey          string `toml:"api_key" validate:"required"`
	BaseURL         string `toml:"base_url" validate:"required,url"`
	Model           string `toml:"model" validate:"required"`
	ReasoningEffort string `toml:"reasoning_effort" validate:"oneof=none minimal low medium high xhigh"`
	WebSearch       bool   `toml:"web_search"`
	Timeout         string `toml:"timeout"` // Client-level timeout (default: "1000s")
}

// RetryConfig bounds retries of the completion call
type RetryConfig struct {
	MaxAttempts int    `toml:"max_attempts" validate:"min=2"`
	BaseWait    string `toml:"base_wait"` // First backoff, doubled per attempt (default: "2s")
}

// WebhookConfig contains the chat webhook target
type WebhookConfig struct {
	URL      string `toml:"url" validate:"required,url"`
	Username string `toml:"username"` // Optional display name override
	Timeout  string `toml:"timeout"` // Empty means no client timeout
}

// PromptConfig holds the prompt sent verbatim. An explicitly empty prompt is
// allowed; only an absent one is an error.
type PromptConfig struct {
	Text string `toml:"text"`

	set bool
}

// Set assigns the prompt and marks it as provided, even when empty
func (p *PromptConfig) Set(text string) {
	p.Text = text
	p.set = true
}

// IsSet reports whether a prompt was provided
func (p *PromptConfig) IsSet() bool {
	return p.set || p.Text != ""
}

// ConfigError reports an unusable configuration. It is fatal at startup.
type ConfigError struct {
	Field  string
	EnvVar string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.EnvVar != "" {
		return fmt.Sprintf("invalid configuration %s: %s (set %s)", e.Field, e.Reason, e.EnvVar)
	}
	return fmt.Sprintf("invalid configuration %s: %s", e.Field, e.Reason)
}

// envVarForField maps validated fields to the environment variable an operator sets
var envVarForField = map[string]string{
	"Config.OpenAI.APIKey":          "OPENAI_API_KEY",
	"Config.Webhook.URL":            "DISCORD_WEBHOOK_URL",
	"Config.Prompt.Text":            "PROMPT",
	"Config.Retry.MaxAttempts":      "JOUHOU_RETRY_MAX_ATTEMPTS",
	"Config.Calendar.Timezone":      "JOUHOU_CALENDAR_TIMEZONE",
	"Config.Calendar.HolidaySource": "JOUHOU_HOLIDAY_SOURCE",
	"Config.Calendar.HolidayAPIURL": "JOUHOU_HOLIDAY_API_URL",
	"Config.OpenAI.BaseURL":         "JOUHOU_OPENAI_BASE_URL",
	"Config.OpenAI.Model":           "JOUHOU_OPENAI_MODEL",
	"Config.OpenAI.ReasoningEffort": "JOUHOU_OPENAI_REASONING_EFFORT",
}

// NewDefaultConfig creates a configuration with default values.
// Credentials, webhook URL and prompt have no defaults and must be supplied.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "production",
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"}, // No files written unless "file" is added
		},
		Calendar: CalendarConfig{
			Timezone:       "Asia/Tokyo",
			HolidaySource:  "builtin",
			HolidayAPIURL:  "https://holidays-jp.github.io/api/v1/date.json",
			HolidayTimeout: "10s",
		},
		OpenAI: OpenAIConfig{
			BaseURL:         "https://api.openai.com/v1",
			Model:           "gpt-5.2",
			ReasoningEffort: "low",
			WebSearch:       true,
			Timeout:         "1000s", // Search-backed generations can be slow
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			BaseWait:    "2s",
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env
// Later files override earlier files. Empty paths are ignored.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	if err := applyEnvOverrides(config); err != nil {
		return nil, err
	}

	return config, nil
}

// DiscoverConfigFile returns the config file to load: JOUHOU_CONFIG when set,
// otherwise jouhou.toml in the working directory if it exists.
func DiscoverConfigFile() string {
	if path := os.Getenv("JOUHOU_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat("jouhou.toml"); err == nil {
		return "jouhou.toml"
	}
	return ""
}

// applyEnvOverrides applies environment variable overrides to config.
// A value that cannot be parsed is a *ConfigError, never silently ignored.
func applyEnvOverrides(config *Config) error {
	if env := os.Getenv("JOUHOU_ENV"); env != "" {
		config.Environment = env
	}

	// Logging configuration
	if level := os.Getenv("JOUHOU_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("JOUHOU_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// Calendar configuration
	if tz := os.Getenv("JOUHOU_CALENDAR_TIMEZONE"); tz != "" {
		config.Calendar.Timezone = tz
	}
	if source := os.Getenv("JOUHOU_HOLIDAY_SOURCE"); source != "" {
		config.Calendar.HolidaySource = strings.ToLower(source)
	}
	if apiURL := os.Getenv("JOUHOU_HOLIDAY_API_URL"); apiURL != "" {
		config.Calendar.HolidayAPIURL = apiURL
	}
	if timeout := os.Getenv("JOUHOU_HOLIDAY_TIMEOUT"); timeout != "" {
		config.Calendar.HolidayTimeout = timeout
	}

	// OpenAI configuration (JOUHOU_ prefix takes priority)
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}
	if apiKey := os.Getenv("JOUHOU_OPENAI_API_KEY"); apiKey != "" {
		config.OpenAI.APIKey = apiKey
	}
	if baseURL := os.Getenv("JOUHOU_OPENAI_BASE_URL"); baseURL != "" {
		config.OpenAI.BaseURL = baseURL
	}
	if model := os.Getenv("JOUHOU_OPENAI_MODEL"); model != "" {
		config.OpenAI.Model = model
	}
	if effort := os.Getenv("JOUHOU_OPENAI_REASONING_EFFORT"); effort != "" {
		config.OpenAI.ReasoningEffort = strings.ToLower(effort)
	}
	if webSearch := os.Getenv("JOUHOU_OPENAI_WEB_SEARCH"); webSearch != "" {
		ws, err := strconv.ParseBool(strings.TrimSpace(webSearch))
		if err != nil {
			return &ConfigError{
				Field:  "Config.OpenAI.WebSearch",
				EnvVar: "JOUHOU_OPENAI_WEB_SEARCH",
				Reason: fmt.Sprintf("must be a boolean, got %q", webSearch),
			}
		}
		config.OpenAI.WebSearch = ws
	}
	if timeout := os.Getenv("JOUHOU_OPENAI_TIMEOUT"); timeout != "" {
		config.OpenAI.Timeout = timeout
	}

	// Retry configuration
	if maxAttempts := os.Getenv("JOUHOU_RETRY_MAX_ATTEMPTS"); maxAttempts != "" {
		ma, err := strconv.Atoi(strings.TrimSpace(maxAttempts))
		if err != nil {
			return &ConfigError{
				Field:  "Config.Retry.MaxAttempts",
				EnvVar: "JOUHOU_RETRY_MAX_ATTEMPTS",
				Reason: fmt.Sprintf("must be an integer, got %q", maxAttempts),
			}
		}
		config.Retry.MaxAttempts = ma
	}
	if baseWait := os.Getenv("JOUHOU_RETRY_BASE_WAIT"); baseWait != "" {
		config.Retry.BaseWait = baseWait
	}

	// Webhook configuration
	if url := os.Getenv("DISCORD_WEBHOOK_URL"); url != "" {
		config.Webhook.URL = url
	}
	if url := os.Getenv("JOUHOU_WEBHOOK_URL"); url != "" {
		config.Webhook.URL = url
	}
	if username := os.Getenv("JOUHOU_WEBHOOK_USERNAME"); username != "" {
		config.Webhook.Username = username
	}
	if timeout := os.Getenv("JOUHOU_WEBHOOK_TIMEOUT"); timeout != "" {
		config.Webhook.Timeout = timeout
	}

	// Prompt: presence matters, content is not validated
	if prompt, ok := os.LookupEnv("PROMPT"); ok {
		config.Prompt.Set(prompt)
	}
	if prompt, ok := os.LookupEnv("JOUHOU_PROMPT"); ok {
		config.Prompt.Set(prompt)
	}

	return nil
}

// Validate checks required values and value ranges. The first problem found is
// returned as a *ConfigError.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			fe := validationErrors[0]
			return &ConfigError{
				Field:  fe.StructNamespace(),
				EnvVar: envVarForField[fe.StructNamespace()],
				Reason: describeValidationTag(fe),
			}
		}
		return &ConfigError{Field: "config", Reason: err.Error()}
	}

	if !c.Prompt.IsSet() {
		return &ConfigError{Field: "Config.Prompt.Text", EnvVar: "PROMPT", Reason: "value is required"}
	}

	if c.Calendar.HolidaySource == "api" && c.Calendar.HolidayAPIURL == "" {
		return &ConfigError{Field: "Config.Calendar.HolidayAPIURL", EnvVar: "JOUHOU_HOLIDAY_API_URL", Reason: "value is required when holiday_source is \"api\""}
	}

	if _, err := time.LoadLocation(c.Calendar.Timezone); err != nil {
		return &ConfigError{Field: "Config.Calendar.Timezone", EnvVar: "JOUHOU_CALENDAR_TIMEZONE", Reason: err.Error()}
	}

	durations := []struct {
		field  string
		envVar string
		value  string
	}{
		{"Config.Calendar.HolidayTimeout", "JOUHOU_HOLIDAY_TIMEOUT", c.Calendar.HolidayTimeout},
		{"Config.OpenAI.Timeout", "JOUHOU_OPENAI_TIMEOUT", c.OpenAI.Timeout},
		{"Config.Retry.BaseWait", "JOUHOU_RETRY_BASE_WAIT", c.Retry.BaseWait},
		{"Config.Webhook.Timeout", "JOUHOU_WEBHOOK_TIMEOUT", c.Webhook.Timeout},
	}
	for _, d := range durations {
		if _, err := ParseDuration(d.value); err != nil {
			return &ConfigError{Field: d.field, EnvVar: d.envVar, Reason: err.Error()}
		}
	}

	if baseWait, _ := ParseDuration(c.Retry.BaseWait); baseWait <= 0 {
		return &ConfigError{Field: "Config.Retry.BaseWait", EnvVar: "JOUHOU_RETRY_BASE_WAIT", Reason: fmt.Sprintf("must be a positive duration, got %q", c.Retry.BaseWait)}
	}

	return nil
}

func describeValidationTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "value is required"
	case "min":
		return fmt.Sprintf("must be at least %s, got %v", fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("must be an absolute URL, got %q", fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %q", fe.Param(), fe.Value())
	case "datetime":
		return fmt.Sprintf("must be a YYYY-MM-DD date, got %q", fe.Value())
	default:
		return fmt.Sprintf("failed %q validation", fe.Tag())
	}
}

// ParseDuration parses a duration string. An empty string means zero (no timeout).
func ParseDuration(s string) (time.Duration, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration '%s': %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration '%s' must not be negative", s)
	}
	return d, nil
}

// Location returns the configured calendar timezone
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Calendar.Timezone)
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
