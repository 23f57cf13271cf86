package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "present")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	tests := []struct {
		name string
		path string
		want bool
	}{
		{name: "existing file", path: file, want: true},
		{name: "existing directory", path: tmpDir, want: true},
		{name: "missing entry", path: filepath.Join(tmpDir, "absent"), want: false},
		{name: "missing parent chain", path: filepath.Join(tmpDir, "a", "b", "c"), want: false},
		{name: "empty path", path: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Exists(tt.path))
		})
	}
}

func TestIsDir(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o600))

	assert.True(t, IsDir(tmpDir))
	assert.False(t, IsDir(file), "regular file is not a directory")
	assert.False(t, IsDir(filepath.Join(tmpDir, "absent")))
}
