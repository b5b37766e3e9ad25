package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata" // Asia/Tokyo must resolve on minimal images

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/jouhou/internal/app"
	"github.com/ternarybob/jouhou/internal/common"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code: 0 for a skipped or completed run
// (whatever the webhook answered), 1 for configuration or completion failures.
func run() (exitCode int) {
	defer common.RecoverRun(nil, &exitCode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Startup sequence (REQUIRED ORDER):
	// 1. Load config (defaults -> file -> env)
	// 2. Initialize logger
	// 3. Print banner
	// 4. Validate and build services (fails before any network call)
	configFile := common.DiscoverConfigFile()

	var configFiles []string
	if configFile != "" {
		configFiles = append(configFiles, configFile)
	}

	config, err := common.LoadFromFiles(configFiles...)
	if err != nil {
		common.GetLogger().Error().Strs("paths", configFiles).Err(err).Msg("Failed to load configuration")
		return 1
	}

	logger := common.InitLogger(config)
	defer common.RecoverRun(logger, &exitCode)

	common.PrintBanner(config, logger)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("version", common.GetFullVersion()).
		Str("timezone", config.Calendar.Timezone).
		Str("log_level", config.Logging.Level).
		Msg("Configuration loaded")

	return execute(ctx, config, logger, time.Now)
}

// execute builds the application from a loaded configuration and runs it once
// at the instant clock reports.
func execute(ctx context.Context, config *common.Config, logger arbor.ILogger, clock func() time.Time) int {
	application, err := app.New(config, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize application")
		return 1
	}
	application.Clock = clock

	if _, err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("Run failed")
		return 1
	}

	return 0
}
