// Package cli wires the prewire commands: setup, watch, scanner, and
// config management.
package cli

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/prewire/prewire/internal/config"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// NewRootCmd creates the root Cobra command for the prewire CLI.
// It wires up logging, tracing, and the subcommands (setup, watch,
// scanner, config).
func NewRootCmd(ver string) *cobra.Command {
	var logResult *loggingResult

	cmd := &cobra.Command{
		Use:     "prewire",
		Short:   "Pre-commit hook provisioning",
		Long:    "Prewire: install the pre-commit tool and activate commit-time hooks across repositories",
		Version: ver,
		Example: rootCmdExample,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			config.InitGlobalConfig()
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().
		Bool("non-interactive", false, "plain output without styling or terminal prompts (auto-detected when stdout is not a terminal)")
	cmd.AddCommand(NewSetupCmd(), NewWatchCmd(), NewScannerCmd(), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Activate hooks in the current repository
  prewire setup

  # Activate hooks across several repositories
  prewire setup ~/src/app ~/src/lib

  # Watch a workspace and set up newly initialized repositories
  prewire watch ~/src

  # Fetch the secret-scanner binary for an air-gapped host
  prewire scanner fetch --dest ./bin

  # Initialize the settings file
  prewire config init`

// nonInteractive reports whether styled terminal output should be
// suppressed, from the flag or from stdout not being a terminal.
func nonInteractive(cmd *cobra.Command) bool {
	flag, _ := cmd.Flags().GetBool("non-interactive")
	return flag || !isTerminal(os.Stdout)
}
