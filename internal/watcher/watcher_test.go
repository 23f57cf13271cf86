package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsInitSignal(t *testing.T) {
	root := t.TempDir()
	gitDir := filepath.Join(root, ".git")
	require.NoError(t, os.Mkdir(gitDir, 0o755))
	gitFile := filepath.Join(root, "sub.git")
	require.NoError(t, os.WriteFile(filepath.Join(root, ".git-file"), nil, 0o644))

	w := New([]string{root}, time.Second, func(context.Context) {})

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"marker directory created", fsnotify.Event{Name: gitDir, Op: fsnotify.Create}, true},
		{"marker directory written", fsnotify.Event{Name: gitDir, Op: fsnotify.Write}, false},
		{"unrelated name", fsnotify.Event{Name: gitFile, Op: fsnotify.Create}, false},
		{"marker is a file", fsnotify.Event{Name: filepath.Join(root, ".git-file"), Op: fsnotify.Create}, false},
		{"marker missing on disk", fsnotify.Event{Name: filepath.Join(root, "gone", ".git"), Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, w.isInitSignal(tt.event))
		})
	}
}

func TestIsInitSignalLatched(t *testing.T) {
	root := t.TempDir()
	gitDir := filepath.Join(root, ".git")
	require.NoError(t, os.Mkdir(gitDir, 0o755))

	w := New([]string{root}, time.Second, func(context.Context) {})
	event := fsnotify.Event{Name: gitDir, Op: fsnotify.Create}

	assert.True(t, w.isInitSignal(event))
	w.fire(context.Background())
	assert.False(t, w.isInitSignal(event), "signals after the latch are ignored")
}

func TestFireLatchesToASingleTrigger(t *testing.T) {
	var fires atomic.Int32
	w := New(nil, time.Second, func(context.Context) { fires.Add(1) })

	w.fire(context.Background())
	w.fire(context.Background())
	w.fire(context.Background())

	assert.Equal(t, int32(1), fires.Load())
}

func TestRunFailsWithoutWatchableRoots(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "does-not-exist")}, time.Second, func(context.Context) {})

	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no watchable roots")
}

func TestRunTriggersOnRepositoryInitialization(t *testing.T) {
	root := t.TempDir()

	fired := make(chan struct{}, 1)
	w := New([]string{root}, 50*time.Millisecond, func(context.Context) {
		fired <- struct{}{}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the notifier a moment to establish the watch.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("trigger did not fire after repository initialization")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
