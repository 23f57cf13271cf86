// Package python locates a usable Python interpreter on the host machine.
package python

import (
	"context"
	"errors"
	"runtime"
	"time"

	"github.com/prewire/prewire/internal/logging"
	"github.com/prewire/prewire/internal/runner"
)

// ErrNoInterpreter is returned when no candidate interpreter answers a
// version query. Every installation strategy after the PATH probe depends
// on an interpreter, so callers treat this as a permanent condition.
var ErrNoInterpreter = errors.New("no python interpreter found")

// versionQueryTimeout bounds each candidate's version probe.
const versionQueryTimeout = 15 * time.Second

// Interpreter identifies a working interpreter by its invocation name and
// the version string it reported.
type Interpreter struct {
	Command string
	Version string
}

// candidates returns interpreter command names in preference order: the
// more specific name before the generic one. Windows prefers the py
// launcher, which resolves installed interpreters itself.
func candidates() []string {
	if runtime.GOOS == "windows" {
		return []string{"py", "python", "python3"}
	}
	return []string{"python3", "python"}
}

// Detect tries each candidate in order and selects the first whose version
// query produces non-empty output. Old interpreters print the version to
// stderr, so combined output is inspected. There are no retries beyond the
// fixed candidate list.
func Detect(ctx context.Context, r runner.Runner) (Interpreter, error) {
	log := logging.FromContext(ctx)

	for _, cand := range candidates() {
		res, err := r.Run(ctx, runner.Spec{
			Name:    cand,
			Args:    []string{"--version"},
			Timeout: versionQueryTimeout,
		})
		if err != nil {
			log.Debug().
				Ctx(ctx).
				Str("component", "python").
				Str("candidate", cand).
				Err(err).
				Msg("interpreter candidate failed version query")
			continue
		}

		out := res.CombinedOutput()
		if out == "" {
			continue
		}

		log.Debug().
			Ctx(ctx).
			Str("component", "python").
			Str("candidate", cand).
			Str("version", out).
			Msg("interpreter detected")
		return Interpreter{Command: cand, Version: out}, nil
	}

	return Interpreter{}, ErrNoInterpreter
}
