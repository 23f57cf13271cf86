// Package venv builds the disposable Python environment that carries the
// pre-commit tool when the host machine has no usable installation.
package venv

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"
	"time"

	"github.com/prewire/prewire/internal/fsutil"
	"github.com/prewire/prewire/internal/logging"
	"github.com/prewire/prewire/internal/runner"
)

const (
	// DirName is the fixed name of the ephemeral environment directory
	// under the scratch base. The same name is appended to repository
	// ignore files so a stray in-repo environment never gets committed.
	DirName = ".prewire-venv"

	createTimeout  = 60 * time.Second
	installTimeout = 180 * time.Second
)

// Environment describes the on-disk layout of a built environment. The
// paths are populated even when the build fails so callers can log them
// for diagnostics; Tool is only trustworthy after a nil-error Build.
type Environment struct {
	Root   string
	Python string
	Pip    string
	Tool   string
}

// paths resolves the platform-specific binary locations inside an
// environment rooted at root: Scripts/ with .exe suffixes on Windows,
// bin/ elsewhere.
func paths(root string) Environment {
	binDir := "bin"
	suffix := ""
	if runtime.GOOS == "windows" {
		binDir = "Scripts"
		suffix = ".exe"
	}
	return Environment{
		Root:   root,
		Python: filepath.Join(root, binDir, "python"+suffix),
		Pip:    filepath.Join(root, binDir, "pip"+suffix),
		Tool:   filepath.Join(root, binDir, "pre-commit"+suffix),
	}
}

// Build creates (or refreshes) the ephemeral environment under scratchBase
// using the given interpreter command, installs pre-commit into it, and
// verifies the tool binary landed.
//
// Every failure is returned as an ordinary error together with the
// environment paths; nothing escapes this boundary. Callers treat an error
// as "try the next fallback", never as fatal. The environment directory is
// deliberately left on disk for later runs to reuse.
func Build(ctx context.Context, r runner.Runner, interpreter, scratchBase string) (Environment, error) {
	log := logging.FromContext(ctx)

	env := paths(filepath.Join(scratchBase, DirName))

	log.Debug().
		Ctx(ctx).
		Str("component", "venv").
		Str("operation", "build").
		Str("root", env.Root).
		Str("interpreter", interpreter).
		Msg("building ephemeral environment")

	// venv creation is a no-op/refresh when the directory already exists,
	// so repeated runs reuse the prior environment.
	if _, err := r.Run(ctx, runner.Spec{
		Name:    interpreter,
		Args:    []string{"-m", "venv", env.Root},
		Timeout: createTimeout,
	}); err != nil {
		return env, fmt.Errorf("creating environment at %s: %w", env.Root, err)
	}

	if _, err := r.Run(ctx, runner.Spec{
		Name:    env.Python,
		Args:    []string{"-m", "pip", "install", "--upgrade", "pip"},
		Timeout: installTimeout,
	}); err != nil {
		return env, fmt.Errorf("upgrading pip in %s: %w", env.Root, err)
	}

	if _, err := r.Run(ctx, runner.Spec{
		Name:    env.Python,
		Args:    []string{"-m", "pip", "install", "pre-commit"},
		Timeout: installTimeout,
	}); err != nil {
		return env, fmt.Errorf("installing pre-commit into %s: %w", env.Root, err)
	}

	if !fsutil.Exists(env.Tool) {
		return env, fmt.Errorf("pre-commit binary missing at %s after install", env.Tool)
	}

	log.Info().
		Ctx(ctx).
		Str("component", "venv").
		Str("tool", env.Tool).
		Msg("ephemeral environment ready")
	return env, nil
}
