package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/prewire/prewire/internal/config"
	"github.com/prewire/prewire/internal/logging"
)

// envLogLevel overrides the configured log level when set.
const envLogLevel = "PREWIRE_LOG_LEVEL"

// loggingResult keeps the logger handle so the post-run hook can close a
// log file cleanly.
type loggingResult = logging.Result

// setupLogging configures logging based on config file, environment, and
// CLI flags, and installs a trace-carrying context on the command.
func setupLogging(cmd *cobra.Command) logging.Result {
	loggingCfg := config.GetLoggingConfig()

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		loggingCfg.Format = "console"
		loggingCfg.File = ""
	}

	if envLevel := os.Getenv(envLogLevel); envLevel != "" && !debug {
		loggingCfg.Level = envLevel
	}

	if loggingCfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(loggingCfg.File), 0o750); err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: could not create log directory: %v\n", err)
		}
	}

	result := logging.NewWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.FallbackUsed {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: logging to stderr (%s)\n", result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Debug().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle when one is in use.
func cleanupLogging(result *loggingResult) error {
	if result != nil {
		return result.Close()
	}
	return nil
}
