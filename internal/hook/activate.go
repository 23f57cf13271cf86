// Package hook activates the commit-time hook in a repository using a
// resolved hook-runner tool: install the hook script, verify it landed,
// then best-effort pre-build the tool's check environments.
package hook

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/prewire/prewire/internal/fsutil"
	"github.com/prewire/prewire/internal/installer"
	"github.com/prewire/prewire/internal/logging"
	"github.com/prewire/prewire/internal/repo"
	"github.com/prewire/prewire/internal/runner"
)

const (
	// scriptName is the hook script filename the tool writes under the
	// repository's hooks directory for commit-time events.
	scriptName = "pre-commit"

	// cacheEnvVar points the tool's own environment cache at a
	// per-repository directory so repositories never share cache state.
	cacheEnvVar = "PRE_COMMIT_HOME"

	installTimeout  = 60 * time.Second
	prebuildTimeout = 5 * time.Minute
)

// ErrScriptNotCreated reports that the install command succeeded but the
// hook script still does not exist where the version-control system looks
// for it. Kept distinct from command failures so callers and summaries can
// tell the two apart.
var ErrScriptNotCreated = errors.New("hook script was not created")

// Result describes a completed activation.
type Result struct {
	// ScriptPath is where the verified hook script lives.
	ScriptPath string

	// EnvironmentsReady reports whether the pre-build phase completed.
	// False means the first real commit builds environments on demand.
	EnvironmentsReady bool

	// Warning carries the advisory message when the pre-build phase
	// failed. Empty on full success.
	Warning string
}

// Activate installs and verifies the commit-time hook script in the
// target repository, then pre-builds the tool's check environments.
//
// Phase one must succeed: an install-command failure or a missing script
// after the command is the repository's failure. Phase two never fails
// the activation; its outcome is reported through Result.Warning.
func Activate(ctx context.Context, r runner.Runner, tool installer.ToolLocation, t repo.Target) (Result, error) {
	log := logging.FromContext(ctx)
	cacheEnv := []string{cacheEnvVar + "=" + t.CacheDir()}

	res, err := r.Run(ctx, runner.Spec{
		Name:    tool.Command(),
		Args:    []string{"install", "--hook-type", "pre-commit"},
		Dir:     t.Root,
		Env:     cacheEnv,
		Timeout: installTimeout,
	})
	if err != nil {
		return Result{}, fmt.Errorf("installing hook script in %s: %w (output: %s)",
			t.Name, err, res.CombinedOutput())
	}

	scriptPath := filepath.Join(t.HooksDir(), scriptName)
	if !fsutil.Exists(scriptPath) {
		return Result{}, fmt.Errorf("%w at %s", ErrScriptNotCreated, scriptPath)
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "hook").
		Str("repository", t.Name).
		Str("script", scriptPath).
		Msg("hook script installed and verified")

	result := Result{ScriptPath: scriptPath}

	if _, err := r.Run(ctx, runner.Spec{
		Name:    tool.Command(),
		Args:    []string{"install-hooks"},
		Dir:     t.Root,
		Env:     cacheEnv,
		Timeout: prebuildTimeout,
	}); err != nil {
		result.Warning = "check environments were not pre-built; the first commit " +
			"builds them on demand and may fail if prerequisites are missing"
		log.Warn().
			Ctx(ctx).
			Str("component", "hook").
			Str("repository", t.Name).
			Err(err).
			Msg("environment pre-build failed")
		return result, nil
	}

	result.EnvironmentsReady = true
	return result, nil
}
