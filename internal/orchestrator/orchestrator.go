// Package orchestrator fans a setup run out over repository targets:
// resolve the hook-runner tool once, then gate and activate each
// repository, aggregating per-repository outcomes into a summary.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/prewire/prewire/internal/hook"
	"github.com/prewire/prewire/internal/installer"
	"github.com/prewire/prewire/internal/logging"
	"github.com/prewire/prewire/internal/repo"
	"github.com/prewire/prewire/internal/runner"
)

// Options carries the per-run settings surface.
type Options struct {
	// Manual marks a user-invoked run. Automatic runs that skip every
	// repository stay silent; manual runs always produce a summary.
	Manual bool

	// AutoCreateConfig permits creating a configuration document in
	// repositories that have none. Existing documents are refreshed
	// regardless.
	AutoCreateConfig bool

	// TemplatePath optionally overrides the bundled document template.
	TemplatePath string

	// IncludeScanner appends the pinned secret-scanner entry to the
	// configuration document.
	IncludeScanner bool

	// ScannerVersion is the scanner version pin.
	ScannerVersion string
}

// RepositoryOutcome is one repository's terminal state for a run:
// exactly one of skipped, success, or failure.
type RepositoryOutcome struct {
	Name    string
	Success bool
	Skipped bool
	Message string
}

// Summary aggregates a whole orchestration run.
type Summary struct {
	RunID     string
	Manual    bool
	Method    installer.Method
	Outcomes  []RepositoryOutcome
	Succeeded int
	Skipped   int
	Failed    int
	Fatal     *installer.FatalError
	Message   string
}

// Quiet reports whether the run should produce no user-facing output: an
// automatic run where nothing was attempted.
func (s Summary) Quiet() bool {
	return !s.Manual && s.Fatal == nil && s.Succeeded == 0 && s.Failed == 0
}

// toolResolver is the installation cascade seen by the orchestrator.
type toolResolver interface {
	Resolve(ctx context.Context) installer.Outcome
}

// Orchestrator runs setup across repositories with a shared tool
// resolution.
type Orchestrator struct {
	runner   runner.Runner
	resolver toolResolver
}

// New creates an Orchestrator using r for repository-level commands and
// resolver for the one-per-run installation cascade.
func New(r runner.Runner, resolver toolResolver) *Orchestrator {
	return &Orchestrator{runner: r, resolver: resolver}
}

// Run executes one orchestration pass over targets. Targets without a
// version-control marker are skipped, never failed; when no target has
// the marker the resolver is not invoked at all. A resolver failure
// aborts the run for every repository with a single fatal message.
// Repository failures are isolated: one repository never prevents
// attempting the rest.
func (o *Orchestrator) Run(ctx context.Context, targets []repo.Target, opts Options) Summary {
	log := logging.FromContext(ctx)
	summary := Summary{RunID: logging.NewRunID(), Manual: opts.Manual}

	repos := 0
	for _, t := range targets {
		if repo.IsRepository(t) {
			repos++
		}
	}
	if repos == 0 {
		for _, t := range targets {
			summary.Outcomes = append(summary.Outcomes, skippedOutcome(t))
			summary.Skipped++
		}
		summary.Message = "no version-controlled repositories to set up"
		log.Debug().
			Ctx(ctx).
			Str("component", "orchestrator").
			Str("run_id", summary.RunID).
			Int("targets", len(targets)).
			Msg("nothing to do")
		return summary
	}

	resolution := o.resolver.Resolve(ctx)
	if !resolution.Installed {
		summary.Fatal = resolution.Fatal
		summary.Message = resolution.Fatal.Message
		log.Error().
			Ctx(ctx).
			Str("component", "orchestrator").
			Str("run_id", summary.RunID).
			Err(resolution.Fatal).
			Msg("tool resolution failed, aborting run")
		return summary
	}
	summary.Method = resolution.Method

	for _, t := range targets {
		outcome := o.setupRepository(ctx, resolution.Tool, t, opts)
		summary.Outcomes = append(summary.Outcomes, outcome)
		switch {
		case outcome.Skipped:
			summary.Skipped++
		case outcome.Success:
			summary.Succeeded++
		default:
			summary.Failed++
			log.Error().
				Ctx(ctx).
				Str("component", "orchestrator").
				Str("run_id", summary.RunID).
				Str("repository", outcome.Name).
				Msg(outcome.Message)
		}
	}

	summary.Message = fmt.Sprintf("%d succeeded, %d skipped, %d failed",
		summary.Succeeded, summary.Skipped, summary.Failed)
	return summary
}

// setupRepository runs the gatekeeper side effects and hook activation
// for one repository.
func (o *Orchestrator) setupRepository(ctx context.Context, tool installer.ToolLocation, t repo.Target, opts Options) RepositoryOutcome {
	log := logging.FromContext(ctx)

	if !repo.IsRepository(t) {
		return skippedOutcome(t)
	}

	if err := repo.EnsureIgnoreEntry(t); err != nil {
		log.Warn().
			Ctx(ctx).
			Str("component", "orchestrator").
			Str("repository", t.Name).
			Err(err).
			Msg("ignore-file update failed")
	}

	_, existed := repo.FindDocument(t)
	if existed || opts.AutoCreateConfig {
		docResult, err := repo.EnsureDocument(t, repo.DocumentOptions{
			TemplatePath:   opts.TemplatePath,
			IncludeScanner: opts.IncludeScanner,
			ScannerVersion: opts.ScannerVersion,
		})
		if err != nil {
			return RepositoryOutcome{Name: t.Name, Message: err.Error()}
		}
		if !docResult.ExistedBefore {
			repo.RefreshNewDocument(ctx, o.runner, tool, t)
		}
	}

	result, err := hook.Activate(ctx, o.runner, tool, t)
	if err != nil {
		return RepositoryOutcome{
			Name:    t.Name,
			Message: fmt.Sprintf("hook activation failed: %v", err),
		}
	}

	msg := "hooks activated"
	if result.Warning != "" {
		msg = "hooks activated; " + result.Warning
	}
	return RepositoryOutcome{Name: t.Name, Success: true, Message: msg}
}

func skippedOutcome(t repo.Target) RepositoryOutcome {
	return RepositoryOutcome{
		Name:    t.Name,
		Skipped: true,
		Message: "no version-control marker directory, skipping",
	}
}
