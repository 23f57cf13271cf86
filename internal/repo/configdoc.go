package repo

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prewire/prewire/internal/installer"
	"github.com/prewire/prewire/internal/logging"
	"github.com/prewire/prewire/internal/runner"
)

//go:embed templates/pre-commit-config.yaml
var bundledTemplate string

// fallbackTemplate covers basic hygiene checks when a configured template
// override cannot be read.
const fallbackTemplate = `# Managed by prewire. Edits are overwritten on the next setup run.
repos:
  - repo: https://github.com/pre-commit/pre-commit-hooks
    rev: v4.6.0
    hooks:
      - id: trailing-whitespace
      - id: end-of-file-fixer
`

// scannerEntryFormat is the fixed-format secret-scanner addition, pinned
// to the configured version.
const scannerEntryFormat = `  - repo: https://github.com/gitleaks/gitleaks
    rev: v%s
    hooks:
      - id: gitleaks
`

// configFileNames are the accepted configuration document filenames, in
// preference order.
//
//nolint:gochecknoglobals // Fixed filename contract of the hook-runner tool.
var configFileNames = []string{".pre-commit-config.yaml", ".pre-commit-config.yml"}

const refreshCommandTimeout = 60 * time.Second

// DocumentOptions controls configuration document generation.
type DocumentOptions struct {
	// TemplatePath optionally replaces the bundled template. An
	// unreadable path falls back to the inline hygiene manifest.
	TemplatePath string

	// IncludeScanner appends the pinned gitleaks entry.
	IncludeScanner bool

	// ScannerVersion is the gitleaks version pin (bare semver).
	ScannerVersion string
}

// DocumentResult reports where the document landed and whether one
// existed before this run.
type DocumentResult struct {
	Path          string
	ExistedBefore bool
}

// FindDocument returns the path of an existing configuration document at
// the repository root, trying both accepted filenames.
func FindDocument(t Target) (string, bool) {
	for _, name := range configFileNames {
		path := filepath.Join(t.Root, name)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

// RenderDocument builds the document content: template plus optional
// scanner entry. The output is deterministic given the options, which is
// what makes the unconditional rewrite idempotent across runs.
func RenderDocument(opts DocumentOptions) []byte {
	content := bundledTemplate
	if opts.TemplatePath != "" {
		if data, err := os.ReadFile(opts.TemplatePath); err == nil {
			content = string(data)
		} else {
			content = fallbackTemplate
		}
	}

	if opts.IncludeScanner {
		content += fmt.Sprintf(scannerEntryFormat, opts.ScannerVersion)
	}
	return []byte(content)
}

// EnsureDocument writes the canonical configuration document at the
// repository root. The write is unconditional — an existing document is
// refreshed to canonical content, not preserved — and lands at the
// existing document's path when one exists, else at the primary filename.
func EnsureDocument(t Target, opts DocumentOptions) (DocumentResult, error) {
	path, existed := FindDocument(t)
	if !existed {
		path = filepath.Join(t.Root, configFileNames[0])
	}

	content := RenderDocument(opts)
	//nolint:gosec // The manifest is repository content, world-readable by design.
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return DocumentResult{}, fmt.Errorf("writing configuration document %s: %w", path, err)
	}

	return DocumentResult{Path: path, ExistedBefore: existed}, nil
}

// RefreshNewDocument migrates a newly created document to the tool's
// current format and reinstalls the hook. Both commands are best-effort:
// any failure is logged and swallowed, reserved for documents created by
// this run only.
func RefreshNewDocument(ctx context.Context, r runner.Runner, tool installer.ToolLocation, t Target) {
	log := logging.FromContext(ctx)

	for _, args := range [][]string{
		{"migrate-config"},
		{"install", "--hook-type", "pre-commit"},
	} {
		if _, err := r.Run(ctx, runner.Spec{
			Name:    tool.Command(),
			Args:    args,
			Dir:     t.Root,
			Timeout: refreshCommandTimeout,
		}); err != nil {
			log.Warn().
				Ctx(ctx).
				Str("component", "repo").
				Str("repository", t.Name).
				Strs("args", args).
				Err(err).
				Msg("best-effort document refresh step failed")
			return
		}
	}
}
