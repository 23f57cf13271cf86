// Package installer decides how to obtain a working pre-commit binary when
// none is guaranteed to exist on the machine.
//
// The decision is an ordered fallback cascade, cheapest and least invasive
// first: an already-installed tool on the search path, then a disposable
// scratch environment, then a user-scoped package install, then a package
// manager bootstrap followed by one retry. Each strategy returns a tagged
// result; only the final strategy's failure is terminal. The cascade is an
// explicit strategy list rather than exception unwinding so the "try next
// on failure, abort only at the end" policy stays auditable and each
// strategy stays independently testable.
package installer

import (
	"context"
	"fmt"
	"time"

	"github.com/prewire/prewire/internal/logging"
	"github.com/prewire/prewire/internal/python"
	"github.com/prewire/prewire/internal/runner"
	"github.com/prewire/prewire/internal/venv"
)

const (
	// ToolName is the hook-runner tool's search-path name.
	ToolName = "pre-commit"

	// DocsURL is the remediation documentation link.
	DocsURL = "https://pre-commit.com/#install"

	// ManualInstallCommand is the copy-pasteable remediation command.
	ManualInstallCommand = "pip install --user pre-commit"

	quickTimeout       = 15 * time.Second
	userInstallTimeout = 180 * time.Second
	bootstrapTimeout   = 120 * time.Second
)

// Resolver runs the installation cascade.
type Resolver struct {
	runner  runner.Runner
	scratch string
}

// NewResolver creates a Resolver that builds ephemeral environments under
// scratchBase.
func NewResolver(r runner.Runner, scratchBase string) *Resolver {
	return &Resolver{runner: r, scratch: scratchBase}
}

// strategy is one fallback step. ok=false means fall through to the next
// strategy; ok=true means the returned outcome is terminal.
type strategy struct {
	name string
	run  func(ctx context.Context, interp python.Interpreter) (Outcome, bool)
}

// Resolve walks the cascade and returns its terminal outcome. It never
// returns a zero Outcome: the result is either Installed or carries a
// FatalError.
func (r *Resolver) Resolve(ctx context.Context) Outcome {
	log := logging.FromContext(ctx)

	// Cheapest check first: a tool already on the search path ends the
	// cascade before any interpreter is required.
	if out, ok := r.tryAlreadyPresent(ctx); ok {
		return out
	}

	// Every remaining strategy needs an interpreter; without one the
	// failure is permanent and only manual action can fix it.
	interp, err := python.Detect(ctx, r.runner)
	if err != nil {
		log.Warn().
			Ctx(ctx).
			Str("component", "installer").
			Err(err).
			Msg("no python runtime; installation requires manual action")
		return Outcome{Fatal: &FatalError{
			Message:      "no Python runtime found; pre-commit cannot be installed automatically",
			Err:          err,
			Remediations: defaultRemediations(),
		}}
	}

	strategies := []strategy{
		{name: "ephemeral-environment", run: r.tryEphemeralEnvironment},
		{name: "user-scoped-package", run: r.tryUserScopedInstall},
		{name: "bootstrap-and-retry", run: r.tryBootstrapAndRetry},
	}

	for _, s := range strategies {
		out, ok := s.run(ctx, interp)
		if ok {
			return out
		}
		log.Debug().
			Ctx(ctx).
			Str("component", "installer").
			Str("strategy", s.name).
			Msg("strategy failed, falling through")
	}

	// Unreachable: the bootstrap strategy always returns ok=true. Kept as
	// a guard so a future strategy list edit cannot fall off the end.
	return Outcome{Fatal: &FatalError{
		Message:      "installation cascade exhausted",
		Remediations: defaultRemediations(),
	}}
}

// tryAlreadyPresent queries the tool by name, no path. A version answer is
// terminal success.
func (r *Resolver) tryAlreadyPresent(ctx context.Context) (Outcome, bool) {
	log := logging.FromContext(ctx)

	res, err := r.runner.Run(ctx, runner.Spec{
		Name:    ToolName,
		Args:    []string{"--version"},
		Timeout: quickTimeout,
	})
	if err != nil || res.CombinedOutput() == "" {
		return Outcome{}, false
	}

	log.Info().
		Ctx(ctx).
		Str("component", "installer").
		Str("method", string(MethodAlreadyPresent)).
		Str("version", res.CombinedOutput()).
		Msg("pre-commit already installed")
	return Outcome{
		Installed: true,
		Method:    MethodAlreadyPresent,
		Message:   fmt.Sprintf("pre-commit already installed (%s)", res.CombinedOutput()),
		Tool:      ByName(ToolName),
	}, true
}

// tryEphemeralEnvironment builds the scratch environment. Failures are
// expected on locked-down machines and fall through to the next strategy.
func (r *Resolver) tryEphemeralEnvironment(ctx context.Context, interp python.Interpreter) (Outcome, bool) {
	log := logging.FromContext(ctx)

	env, err := venv.Build(ctx, r.runner, interp.Command, r.scratch)
	if err != nil {
		log.Debug().
			Ctx(ctx).
			Str("component", "installer").
			Str("env_root", env.Root).
			Err(err).
			Msg("ephemeral environment build failed")
		return Outcome{}, false
	}

	return Outcome{
		Installed: true,
		Method:    MethodEphemeralEnv,
		Message:   fmt.Sprintf("pre-commit installed into ephemeral environment at %s", env.Root),
		Tool:      ByPath(env.Tool),
	}, true
}

// tryUserScopedInstall installs the package in user scope, no elevated
// privileges.
func (r *Resolver) tryUserScopedInstall(ctx context.Context, interp python.Interpreter) (Outcome, bool) {
	if err := r.userScopedInstall(ctx, interp); err != nil {
		return Outcome{}, false
	}
	return Outcome{
		Installed: true,
		Method:    MethodUserScoped,
		Message:   "pre-commit installed in user scope",
		Tool:      ByName(ToolName),
	}, true
}

// tryBootstrapAndRetry repairs the package manager and retries the
// user-scoped install once. This is the cascade's last strategy: its
// failure is the terminal failure, carrying the underlying error text.
func (r *Resolver) tryBootstrapAndRetry(ctx context.Context, interp python.Interpreter) (Outcome, bool) {
	log := logging.FromContext(ctx)

	if _, err := r.runner.Run(ctx, runner.Spec{
		Name:    interp.Command,
		Args:    []string{"-m", "ensurepip", "--upgrade"},
		Timeout: bootstrapTimeout,
	}); err != nil {
		log.Debug().
			Ctx(ctx).
			Str("component", "installer").
			Err(err).
			Msg("package manager bootstrap failed")
		return Outcome{Fatal: &FatalError{
			Message:      "could not bootstrap pip",
			Err:          err,
			Remediations: defaultRemediations(),
		}}, true
	}

	if err := r.userScopedInstall(ctx, interp); err != nil {
		return Outcome{Fatal: &FatalError{
			Message:      "pre-commit installation failed after pip bootstrap",
			Err:          err,
			Remediations: defaultRemediations(),
		}}, true
	}

	return Outcome{
		Installed: true,
		Method:    MethodBootstrapped,
		Message:   "pre-commit installed in user scope after pip bootstrap",
		Tool:      ByName(ToolName),
	}, true
}

func (r *Resolver) userScopedInstall(ctx context.Context, interp python.Interpreter) error {
	_, err := r.runner.Run(ctx, runner.Spec{
		Name:    interp.Command,
		Args:    []string{"-m", "pip", "install", "--user", ToolName},
		Timeout: userInstallTimeout,
	})
	return err
}

func defaultRemediations() []Remediation {
	return []Remediation{
		{Label: "Retry setup", Command: "prewire setup"},
		{Label: "Open installation docs", URL: DocsURL},
		{Label: "Install manually", Command: ManualInstallCommand},
	}
}
