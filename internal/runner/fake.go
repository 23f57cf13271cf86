package runner

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// FakeResponse scripts the outcome of commands whose invocation line
// matches Match (substring of "name arg arg ...").
type FakeResponse struct {
	Match  string
	Result Result
	Err    error
}

// FakeRunner records every invocation and answers from a scripted response
// table. Used by tests to assert cascade ordering and call counts without
// spawning processes.
type FakeRunner struct {
	mu        sync.Mutex
	Responses []FakeResponse
	Calls     []Spec

	// DefaultErr is returned for invocations with no matching response.
	// Nil means unmatched invocations succeed with an empty Result.
	DefaultErr error

	// OnRun, when set, is invoked for every call after recording; it can
	// produce filesystem side effects the code under test verifies.
	OnRun func(spec Spec)
}

// Run records the invocation and returns the first matching scripted
// response.
func (f *FakeRunner) Run(_ context.Context, spec Spec) (Result, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, spec)
	f.mu.Unlock()

	if f.OnRun != nil {
		f.OnRun(spec)
	}

	line := spec.Name + " " + strings.Join(spec.Args, " ")
	for _, resp := range f.Responses {
		if strings.Contains(line, resp.Match) {
			return resp.Result, resp.Err
		}
	}
	if f.DefaultErr != nil {
		return Result{ExitCode: 1}, fmt.Errorf("fake runner: %s: %w", line, f.DefaultErr)
	}
	return Result{}, nil
}

// CallCount returns how many recorded invocations contain match in their
// invocation line.
func (f *FakeRunner) CallCount(match string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, spec := range f.Calls {
		line := spec.Name + " " + strings.Join(spec.Args, " ")
		if strings.Contains(line, match) {
			n++
		}
	}
	return n
}

// CallLines returns the recorded invocations as "name arg ..." strings, in
// order.
func (f *FakeRunner) CallLines() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	lines := make([]string, 0, len(f.Calls))
	for _, spec := range f.Calls {
		lines = append(lines, strings.TrimSpace(spec.Name+" "+strings.Join(spec.Args, " ")))
	}
	return lines
}
