package repo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prewire/prewire/internal/installer"
	"github.com/prewire/prewire/internal/runner"
)

func TestFindDocument(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		_, found := FindDocument(gitRepo(t))
		assert.False(t, found)
	})

	t.Run("yaml variant", func(t *testing.T) {
		target := gitRepo(t)
		path := filepath.Join(target.Root, ".pre-commit-config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("repos: []\n"), 0o644))

		got, found := FindDocument(target)
		require.True(t, found)
		assert.Equal(t, path, got)
	})

	t.Run("yml variant", func(t *testing.T) {
		target := gitRepo(t)
		path := filepath.Join(target.Root, ".pre-commit-config.yml")
		require.NoError(t, os.WriteFile(path, []byte("repos: []\n"), 0o644))

		got, found := FindDocument(target)
		require.True(t, found)
		assert.Equal(t, path, got)
	})

	t.Run("yaml preferred over yml", func(t *testing.T) {
		target := gitRepo(t)
		for _, name := range []string{".pre-commit-config.yaml", ".pre-commit-config.yml"} {
			require.NoError(t, os.WriteFile(filepath.Join(target.Root, name), []byte("repos: []\n"), 0o644))
		}

		got, found := FindDocument(target)
		require.True(t, found)
		assert.Equal(t, filepath.Join(target.Root, ".pre-commit-config.yaml"), got)
	})
}

func TestRenderDocument(t *testing.T) {
	t.Run("bundled template", func(t *testing.T) {
		content := string(RenderDocument(DocumentOptions{}))
		assert.Contains(t, content, "pre-commit-hooks")
		assert.NotContains(t, content, "gitleaks")
	})

	t.Run("scanner entry pinned", func(t *testing.T) {
		content := string(RenderDocument(DocumentOptions{
			IncludeScanner: true,
			ScannerVersion: "8.18.4",
		}))
		assert.Contains(t, content, "https://github.com/gitleaks/gitleaks")
		assert.Contains(t, content, "rev: v8.18.4")
	})

	t.Run("template override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "template.yaml")
		require.NoError(t, os.WriteFile(path, []byte("repos: []\n"), 0o644))

		content := string(RenderDocument(DocumentOptions{TemplatePath: path}))
		assert.Equal(t, "repos: []\n", content)
	})

	t.Run("unreadable override falls back", func(t *testing.T) {
		content := string(RenderDocument(DocumentOptions{
			TemplatePath: filepath.Join(t.TempDir(), "missing.yaml"),
		}))
		assert.Contains(t, content, "trailing-whitespace")
		assert.Contains(t, content, "end-of-file-fixer")
	})

	t.Run("deterministic", func(t *testing.T) {
		opts := DocumentOptions{IncludeScanner: true, ScannerVersion: "8.18.4"}
		assert.Equal(t, RenderDocument(opts), RenderDocument(opts))
	})
}

func TestEnsureDocumentCreatesAtPrimaryName(t *testing.T) {
	target := gitRepo(t)

	result, err := EnsureDocument(target, DocumentOptions{})
	require.NoError(t, err)

	assert.False(t, result.ExistedBefore)
	assert.Equal(t, filepath.Join(target.Root, ".pre-commit-config.yaml"), result.Path)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, RenderDocument(DocumentOptions{}), data)
}

func TestEnsureDocumentRefreshesExisting(t *testing.T) {
	target := gitRepo(t)
	path := filepath.Join(target.Root, ".pre-commit-config.yml")
	require.NoError(t, os.WriteFile(path, []byte("# hand-edited\nrepos: []\n"), 0o644))

	opts := DocumentOptions{IncludeScanner: true, ScannerVersion: "8.18.4"}
	result, err := EnsureDocument(target, opts)
	require.NoError(t, err)

	assert.True(t, result.ExistedBefore)
	assert.Equal(t, path, result.Path, "existing filename variant is reused")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, RenderDocument(opts), data, "existing content is replaced with canonical content")
}

func TestEnsureDocumentIdempotent(t *testing.T) {
	target := gitRepo(t)
	opts := DocumentOptions{IncludeScanner: true, ScannerVersion: "8.18.4"}

	first, err := EnsureDocument(target, opts)
	require.NoError(t, err)
	firstData, err := os.ReadFile(first.Path)
	require.NoError(t, err)

	second, err := EnsureDocument(target, opts)
	require.NoError(t, err)
	secondData, err := os.ReadFile(second.Path)
	require.NoError(t, err)

	assert.True(t, second.ExistedBefore)
	assert.Equal(t, firstData, secondData, "repeated runs with unchanged settings are byte-identical")
}

func TestRefreshNewDocument(t *testing.T) {
	tool := installer.ToolLocation{Name: "pre-commit"}

	t.Run("runs migrate then install", func(t *testing.T) {
		fake := &runner.FakeRunner{}
		target := gitRepo(t)

		RefreshNewDocument(context.Background(), fake, tool, target)

		require.Len(t, fake.Calls, 2)
		assert.Equal(t, []string{"migrate-config"}, fake.Calls[0].Args)
		assert.Equal(t, []string{"install", "--hook-type", "pre-commit"}, fake.Calls[1].Args)
		assert.Equal(t, target.Root, fake.Calls[0].Dir)
	})

	t.Run("failure is swallowed and stops the sequence", func(t *testing.T) {
		fake := &runner.FakeRunner{
			Responses: []runner.FakeResponse{
				{Match: "migrate-config", Err: errors.New("unsupported config version")},
			},
		}

		// No error surfaces; the remaining step is skipped.
		RefreshNewDocument(context.Background(), fake, tool, gitRepo(t))
		assert.Equal(t, 0, fake.CallCount("install"))
	})
}
