package repo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/prewire/prewire/internal/venv"
)

// IgnoreEntry is the line appended to repository ignore files so a stray
// in-repo ephemeral environment never gets committed.
const IgnoreEntry = venv.DirName + "/"

// EnsureIgnoreEntry appends the ephemeral-environment entry to the
// target's .gitignore unless an exact match is already present. A missing
// ignore file is treated as empty content. Unrelated content is never
// rewritten and the entry is never duplicated.
//
// Callers treat errors from this step as best-effort: they are logged and
// swallowed, never failing the repository's setup.
func EnsureIgnoreEntry(t Target) error {
	path := filepath.Join(t.Root, ".gitignore")

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == IgnoreEntry || trimmed == venv.DirName {
			return nil
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // .gitignore is world-readable
	if err != nil {
		return fmt.Errorf("opening %s for append: %w", path, err)
	}
	defer f.Close()

	entry := IgnoreEntry + "\n"
	if len(data) > 0 && !strings.HasSuffix(string(data), "\n") {
		entry = "\n" + entry
	}
	if _, err := f.WriteString(entry); err != nil {
		return fmt.Errorf("appending ignore entry to %s: %w", path, err)
	}
	return nil
}
