// Package repo implements the per-repository gatekeeper: the precondition
// check that a target actually is a git repository, and the idempotent
// side effects (ignore-file entry, configuration document) applied before
// hook activation.
package repo

import (
	"path/filepath"

	"github.com/prewire/prewire/internal/fsutil"
)

// GitMarkerDir is the version-control marker directory checked at each
// repository root.
const GitMarkerDir = ".git"

// Target is one repository root plus its display name. Targets are
// supplied externally per run and never persisted.
type Target struct {
	Root string
	Name string
}

// NewTarget builds a Target from a filesystem root, deriving the display
// name from the final path element.
func NewTarget(root string) Target {
	return Target{Root: root, Name: filepath.Base(root)}
}

// GitDir returns the version-control directory path for the target.
func (t Target) GitDir() string {
	return filepath.Join(t.Root, GitMarkerDir)
}

// HooksDir returns the well-known hooks path inside the version-control
// directory.
func (t Target) HooksDir() string {
	return filepath.Join(t.GitDir(), "hooks")
}

// CacheDir returns the per-repository cache directory for the tool's own
// environment cache. It lives inside the version-control directory so it
// needs no ignore entry and cannot collide with any global cache.
func (t Target) CacheDir() string {
	return filepath.Join(t.GitDir(), "pre-commit-cache")
}

// IsRepository reports whether the target carries the version-control
// marker directory. Targets without it are skipped, never failed.
func IsRepository(t Target) bool {
	return fsutil.IsDir(t.GitDir())
}
