package repo

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gitRepo(t *testing.T) Target {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".git"), 0o755))
	return NewTarget(root)
}

func TestIsRepository(t *testing.T) {
	target := gitRepo(t)
	assert.True(t, IsRepository(target))

	bare := NewTarget(t.TempDir())
	assert.False(t, IsRepository(bare))

	// A .git file (as in worktrees) is not the marker directory.
	fileRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(fileRoot, ".git"), []byte("gitdir: elsewhere"), 0o644))
	assert.False(t, IsRepository(NewTarget(fileRoot)))
}

func TestTargetPaths(t *testing.T) {
	target := Target{Root: "/work/app", Name: "app"}
	assert.Equal(t, "/work/app/.git", target.GitDir())
	assert.Equal(t, "/work/app/.git/hooks", target.HooksDir())
	assert.Equal(t, "/work/app/.git/pre-commit-cache", target.CacheDir())
}

func TestNewTargetDerivesName(t *testing.T) {
	assert.Equal(t, "app", NewTarget("/work/app").Name)
}

func TestEnsureIgnoreEntryCreatesFile(t *testing.T) {
	target := gitRepo(t)

	require.NoError(t, EnsureIgnoreEntry(target))

	data, err := os.ReadFile(filepath.Join(target.Root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, IgnoreEntry+"\n", string(data))
}

func TestEnsureIgnoreEntryIdempotent(t *testing.T) {
	target := gitRepo(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, EnsureIgnoreEntry(target))
	}

	data, err := os.ReadFile(filepath.Join(target.Root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, IgnoreEntry+"\n", string(data), "entry appears exactly once after repeated runs")
}

func TestEnsureIgnoreEntryPreservesContent(t *testing.T) {
	target := gitRepo(t)
	existing := "node_modules/\n*.log\n"
	require.NoError(t, os.WriteFile(filepath.Join(target.Root, ".gitignore"), []byte(existing), 0o644))

	require.NoError(t, EnsureIgnoreEntry(target))

	data, err := os.ReadFile(filepath.Join(target.Root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, existing+IgnoreEntry+"\n", string(data))
}

func TestEnsureIgnoreEntryHandlesMissingTrailingNewline(t *testing.T) {
	target := gitRepo(t)
	require.NoError(t, os.WriteFile(filepath.Join(target.Root, ".gitignore"), []byte("dist"), 0o644))

	require.NoError(t, EnsureIgnoreEntry(target))

	data, err := os.ReadFile(filepath.Join(target.Root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "dist\n"+IgnoreEntry+"\n", string(data))
}

func TestEnsureIgnoreEntryAcceptsBareDirectoryName(t *testing.T) {
	target := gitRepo(t)
	existing := ".prewire-venv\n"
	require.NoError(t, os.WriteFile(filepath.Join(target.Root, ".gitignore"), []byte(existing), 0o644))

	require.NoError(t, EnsureIgnoreEntry(target))

	data, err := os.ReadFile(filepath.Join(target.Root, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, existing, string(data), "entry without trailing slash already covers the directory")
}

func TestEnsureIgnoreEntryExactMatchOnly(t *testing.T) {
	target := gitRepo(t)
	// A substring occurrence is not a match; the entry is still appended.
	require.NoError(t, os.WriteFile(filepath.Join(target.Root, ".gitignore"),
		[]byte("foo/.prewire-venv-backup/\n"), 0o644))

	require.NoError(t, EnsureIgnoreEntry(target))

	data, err := os.ReadFile(filepath.Join(target.Root, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n"+IgnoreEntry+"\n")
}
