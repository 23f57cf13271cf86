// Package watcher detects version-control initialization under a set of
// workspace roots and triggers a setup run once the repository has had a
// quiet moment to finish initializing.
package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/prewire/prewire/internal/fsutil"
	"github.com/prewire/prewire/internal/logging"
)

// DefaultDebounce is the quiet period after the last initialization
// signal before the trigger fires. Long enough for the version-control
// tool to finish writing its marker directory.
const DefaultDebounce = 2 * time.Second

// Watcher arms a single-shot debounced trigger on version-control
// initialization. Each detected signal rearms the timer; the trigger
// fires once after the quiet period, and a latch prevents a second
// automatic fire in the same session.
type Watcher struct {
	roots    []string
	debounce time.Duration
	trigger  func(context.Context)

	mu    sync.Mutex
	fired bool
}

// New creates a Watcher over roots. A non-positive debounce falls back
// to DefaultDebounce.
func New(roots []string, debounce time.Duration, trigger func(context.Context)) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{roots: roots, debounce: debounce, trigger: trigger}
}

// Run watches until ctx is cancelled. Roots that cannot be watched are
// logged and skipped; Run fails only when the notifier itself cannot be
// created or no root could be added.
func (w *Watcher) Run(ctx context.Context) error {
	log := logging.FromContext(ctx)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating filesystem notifier: %w", err)
	}

	added := 0
	for _, root := range w.roots {
		if err := fsw.Add(root); err != nil {
			log.Warn().
				Ctx(ctx).
				Str("component", "watcher").
				Str("root", root).
				Err(err).
				Msg("cannot watch root")
			continue
		}
		added++
	}
	if added == 0 {
		_ = fsw.Close()
		return fmt.Errorf("no watchable roots among %d candidates", len(w.roots))
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	g, gctx := errgroup.WithContext(ctx)

	// Closing the notifier on cancellation unblocks the event loop.
	g.Go(func() error {
		<-gctx.Done()
		return fsw.Close()
	})

	g.Go(func() error {
		for {
			select {
			case event, ok := <-fsw.Events:
				if !ok {
					return nil
				}
				if !w.isInitSignal(event) {
					continue
				}
				log.Debug().
					Ctx(gctx).
					Str("component", "watcher").
					Str("path", event.Name).
					Dur("debounce", w.debounce).
					Msg("initialization detected, arming trigger")
				timer.Reset(w.debounce)
			case err, ok := <-fsw.Errors:
				if !ok {
					return nil
				}
				log.Warn().
					Ctx(gctx).
					Str("component", "watcher").
					Err(err).
					Msg("notifier error")
			case <-timer.C:
				w.fire(gctx)
			}
		}
	})

	err = g.Wait()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// isInitSignal reports whether event is the creation of a
// version-control marker directory, and holds fire once the latch is set.
func (w *Watcher) isInitSignal(event fsnotify.Event) bool {
	w.mu.Lock()
	fired := w.fired
	w.mu.Unlock()
	if fired {
		return false
	}
	return event.Op.Has(fsnotify.Create) &&
		filepath.Base(event.Name) == ".git" &&
		fsutil.IsDir(event.Name)
}

func (w *Watcher) fire(ctx context.Context) {
	w.mu.Lock()
	if w.fired {
		w.mu.Unlock()
		return
	}
	w.fired = true
	w.mu.Unlock()

	w.trigger(ctx)
}
