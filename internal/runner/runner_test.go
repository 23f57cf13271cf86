package runner

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecRunnerCapturesOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses POSIX shell utilities")
	}

	r := NewExecRunner()
	res, err := r.Run(context.Background(), Spec{Name: "echo", Args: []string{"hello"}})
	require.NoError(t, err)
	assert.Equal(t, "hello\n", res.Stdout)
	assert.Equal(t, 0, res.ExitCode)
	assert.Equal(t, "hello", res.CombinedOutput())
}

func TestExecRunnerNonZeroExit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses POSIX shell utilities")
	}

	r := NewExecRunner()
	res, err := r.Run(context.Background(), Spec{Name: "false"})
	require.Error(t, err)
	assert.Equal(t, 1, res.ExitCode)
}

func TestExecRunnerMissingCommand(t *testing.T) {
	r := NewExecRunner()
	_, err := r.Run(context.Background(), Spec{Name: "prewire-definitely-not-a-command"})
	assert.Error(t, err)
}

func TestExecRunnerTimeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("test uses POSIX shell utilities")
	}

	r := NewExecRunner()
	_, err := r.Run(context.Background(), Spec{
		Name:    "sleep",
		Args:    []string{"5"},
		Timeout: 50 * time.Millisecond,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFakeRunnerScripting(t *testing.T) {
	fake := &FakeRunner{
		Responses: []FakeResponse{
			{Match: "pre-commit --version", Result: Result{Stdout: "pre-commit 3.7.0\n"}},
			{Match: "pip install", Err: errors.New("no network")},
		},
	}

	res, err := fake.Run(context.Background(), Spec{Name: "pre-commit", Args: []string{"--version"}})
	require.NoError(t, err)
	assert.Equal(t, "pre-commit 3.7.0", res.CombinedOutput())

	_, err = fake.Run(context.Background(), Spec{Name: "python3", Args: []string{"-m", "pip", "install", "pre-commit"}})
	assert.Error(t, err)

	assert.Equal(t, 1, fake.CallCount("pre-commit --version"))
	assert.Equal(t, 1, fake.CallCount("pip install"))
	assert.Equal(t, 0, fake.CallCount("venv"))
	assert.Len(t, fake.CallLines(), 2)
}
