package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/prewire/prewire/internal/config"
	"github.com/prewire/prewire/internal/installer"
	"github.com/prewire/prewire/internal/orchestrator"
	"github.com/prewire/prewire/internal/repo"
	"github.com/prewire/prewire/internal/runner"
)

// SetupOptions holds the configuration for the setup command, derived
// from CLI flags and the settings file.
type SetupOptions struct {
	Template       string
	NoScanner      bool
	NonInteractive bool
}

// NewSetupCmd creates the setup command that provisions the pre-commit
// tool and activates hooks in the given repositories.
func NewSetupCmd() *cobra.Command {
	var opts SetupOptions

	cmd := &cobra.Command{
		Use:   "setup [path...]",
		Short: "Install the pre-commit tool and activate hooks",
		Long: `Resolves a working pre-commit tool (preferring one already on PATH,
falling back to an isolated environment or a user-scoped install), then
activates commit-time hooks in each given repository.

This command is idempotent: it is safe to run repeatedly against the same
repositories. Paths without a git repository are skipped, never failed.

With no arguments, the current directory is the only target.`,
		Example: `  # Current repository
  prewire setup

  # Several repositories
  prewire setup ~/src/app ~/src/lib

  # Without the secret-scanner hook entry
  prewire setup --no-scanner`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.NonInteractive = nonInteractive(cmd)
			return runSetup(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Template, "template", "", "manifest template file replacing the bundled default")
	cmd.Flags().BoolVar(&opts.NoScanner, "no-scanner", false, "omit the secret-scanner entry from generated configuration")

	return cmd
}

func runSetup(cmd *cobra.Command, args []string, opts SetupOptions) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	targets, err := resolveTargets(args)
	if err != nil {
		return err
	}

	exec := runner.NewExecRunner()
	o := orchestrator.New(exec, installer.NewResolver(exec, config.ScratchDir()))

	summary := o.Run(ctx, targets, orchestrator.Options{
		Manual:           true,
		AutoCreateConfig: cfg.Setup.AutoCreateConfig,
		TemplatePath:     firstNonEmpty(opts.Template, cfg.Setup.TemplatePath),
		IncludeScanner:   cfg.Scanner.Include && !opts.NoScanner,
		ScannerVersion:   cfg.Scanner.Version,
	})

	fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary, opts.NonInteractive))

	if summary.Fatal != nil {
		return fmt.Errorf("setup could not complete: %s", summary.Fatal.Message)
	}
	if summary.Failed > 0 {
		return fmt.Errorf("setup failed for %d of %d repositories", summary.Failed, len(summary.Outcomes))
	}
	return nil
}

// resolveTargets turns CLI path arguments into repository targets,
// defaulting to the current directory.
func resolveTargets(args []string) ([]repo.Target, error) {
	if len(args) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolving current directory: %w", err)
		}
		args = []string{cwd}
	}

	targets := make([]repo.Target, 0, len(args))
	for _, arg := range args {
		abs, err := absPath(arg)
		if err != nil {
			return nil, err
		}
		targets = append(targets, repo.NewTarget(abs))
	}
	return targets, nil
}

func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path %s: %w", path, err)
	}
	return abs, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
