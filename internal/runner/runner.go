// Package runner abstracts external process invocation behind a small
// interface so the installation cascade and hook activation can be tested
// without spawning interpreters or package managers.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/prewire/prewire/internal/logging"
)

// DefaultTimeout bounds commands whose Spec carries no explicit timeout.
const DefaultTimeout = 60 * time.Second

// Spec describes a single external command invocation.
type Spec struct {
	// Name is the command to run, either a bare name resolved on PATH or
	// an absolute path.
	Name string

	// Args are the command arguments.
	Args []string

	// Dir is the working directory; empty means the caller's cwd.
	Dir string

	// Env holds KEY=VALUE pairs appended to the parent environment.
	Env []string

	// Timeout bounds the invocation. Zero means DefaultTimeout. Timeout
	// expiry is reported as an ordinary error so callers can feed it into
	// their fallback logic.
	Timeout time.Duration
}

// Result carries the captured output of a completed command.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// CombinedOutput returns stdout and stderr concatenated, trimmed.
func (r Result) CombinedOutput() string {
	return strings.TrimSpace(r.Stdout + r.Stderr)
}

// Runner executes external commands.
type Runner interface {
	Run(ctx context.Context, spec Spec) (Result, error)
}

// ExecRunner runs commands via os/exec with per-invocation timeouts.
type ExecRunner struct{}

// NewExecRunner returns a Runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes the command described by spec. A non-zero exit status is
// returned as an error alongside the captured output; timeout expiry
// surfaces as a wrapped context.DeadlineExceeded.
func (e *ExecRunner) Run(ctx context.Context, spec Spec) (Result, error) {
	log := logging.FromContext(ctx)

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.Debug().
		Ctx(ctx).
		Str("component", "runner").
		Str("command", spec.Name).
		Strs("args", spec.Args).
		Dur("timeout", timeout).
		Msg("running external command")

	//nolint:gosec // Command names come from the fixed cascade, not user input
	cmd := exec.CommandContext(runCtx, spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{Stdout: stdout.String(), Stderr: stderr.String()}
	if cmd.ProcessState != nil {
		res.ExitCode = cmd.ProcessState.ExitCode()
	}

	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			log.Debug().
				Ctx(ctx).
				Str("component", "runner").
				Str("command", spec.Name).
				Msg("command timed out")
			return res, fmt.Errorf("command %s timed out after %s: %w", spec.Name, timeout, context.DeadlineExceeded)
		}
		return res, fmt.Errorf("command %s %s: %w (stderr: %s)",
			spec.Name, strings.Join(spec.Args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return res, nil
}
