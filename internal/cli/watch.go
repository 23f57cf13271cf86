package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/prewire/prewire/internal/config"
	"github.com/prewire/prewire/internal/installer"
	"github.com/prewire/prewire/internal/orchestrator"
	"github.com/prewire/prewire/internal/repo"
	"github.com/prewire/prewire/internal/runner"
	"github.com/prewire/prewire/internal/watcher"
)

// NewWatchCmd creates the watch command: a long-running trigger that
// sets up repositories as soon as they are initialized under the watched
// roots.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch [root...]",
		Short: "Watch for repository initialization and set up hooks automatically",
		Long: `Watches the given workspace roots for git repository initialization and
runs setup once per detected initialization, after a short quiet period.

With no arguments, the current directory is the only watched root.
Runs until interrupted.`,
		Example: `  # Watch the current directory
  prewire watch

  # Watch a workspace
  prewire watch ~/src`,
		RunE: runWatch,
	}

	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.GetGlobalConfig()

	roots := args
	if len(roots) == 0 {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolving current directory: %w", err)
		}
		roots = []string{cwd}
	}
	for i, root := range roots {
		abs, err := absPath(root)
		if err != nil {
			return err
		}
		roots[i] = abs
	}

	plain := nonInteractive(cmd)
	exec := runner.NewExecRunner()

	runOnce := func(ctx context.Context, targets []repo.Target, manual bool) {
		o := orchestrator.New(exec, installer.NewResolver(exec, config.ScratchDir()))
		summary := o.Run(ctx, targets, orchestrator.Options{
			Manual:           manual,
			AutoCreateConfig: cfg.Setup.AutoCreateConfig,
			TemplatePath:     cfg.Setup.TemplatePath,
			IncludeScanner:   cfg.Scanner.Include,
			ScannerVersion:   cfg.Scanner.Version,
		})
		fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary, plain))
	}

	if cfg.Setup.AutoRunOnStart {
		logger.Info().Ctx(ctx).Msg("running initial setup pass")
		runOnce(ctx, rootsAsTargets(roots), false)
	}

	debounce := time.Duration(cfg.Watch.DebounceSeconds) * time.Second
	w := watcher.New(roots, debounce, func(ctx context.Context) {
		runOnce(ctx, discoverTargets(roots), false)
	})

	logger.Info().Ctx(ctx).Strs("roots", roots).Msg("watching for repository initialization")
	return w.Run(ctx)
}

// rootsAsTargets treats each watched root itself as a setup target.
func rootsAsTargets(roots []string) []repo.Target {
	targets := make([]repo.Target, 0, len(roots))
	for _, root := range roots {
		targets = append(targets, repo.NewTarget(root))
	}
	return targets
}

// discoverTargets collects the watched roots plus their immediate
// child directories, so a repository initialized one level below a
// watched workspace root is picked up.
func discoverTargets(roots []string) []repo.Target {
	var targets []repo.Target
	for _, root := range roots {
		targets = append(targets, repo.NewTarget(root))
		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() && entry.Name() != repo.GitMarkerDir {
				targets = append(targets, repo.NewTarget(filepath.Join(root, entry.Name())))
			}
		}
	}
	return targets
}
