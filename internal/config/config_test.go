package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	t.Setenv("PREWIRE_HOME", t.TempDir())
	cfg := New()

	assert.True(t, cfg.Setup.AutoRunOnStart)
	assert.True(t, cfg.Setup.AutoCreateConfig)
	assert.True(t, cfg.Scanner.Include, "scanner inclusion is on by default")
	assert.Equal(t, DefaultScannerVersion, cfg.Scanner.Version)
	assert.Equal(t, DefaultDebounceSeconds, cfg.Watch.DebounceSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSaveAndReload(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PREWIRE_HOME", home)

	cfg := New()
	cfg.Scanner.Version = "8.20.0"
	cfg.Setup.AutoRunOnStart = false
	require.NoError(t, cfg.Save())

	reloaded := New()
	assert.Equal(t, "8.20.0", reloaded.Scanner.Version)
	assert.False(t, reloaded.Setup.AutoRunOnStart)
	// Untouched sections keep defaults.
	assert.True(t, reloaded.Setup.AutoCreateConfig)
}

func TestNewWithBrokenFileDegradesToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("PREWIRE_HOME", home)
	require.NoError(t, os.WriteFile(filepath.Join(home, "config.yaml"), []byte("{broken: ["), 0o600))

	cfg := New()
	assert.Equal(t, DefaultScannerVersion, cfg.Scanner.Version)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{
			name:    "bad scanner pin",
			mutate:  func(c *Config) { c.Scanner.Version = "not-a-version" },
			wantErr: true,
		},
		{
			name:   "bad pin ignored when scanner disabled",
			mutate: func(c *Config) { c.Scanner.Include = false; c.Scanner.Version = "junk" },
		},
		{
			name:    "negative debounce",
			mutate:  func(c *Config) { c.Watch.DebounceSeconds = -1 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestShallowMergeYAML(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte(
		"scanner:\n  include: false\n  version: 9.0.0\nunknown_key: ignored\n"), 0o600))

	cfg := defaults()
	require.NoError(t, ShallowMergeYAML(cfg, overlay))

	assert.False(t, cfg.Scanner.Include)
	assert.Equal(t, "9.0.0", cfg.Scanner.Version)
	assert.True(t, cfg.Setup.AutoCreateConfig, "absent sections stay untouched")
}

func TestShallowMergeYAMLReplacesWholeSection(t *testing.T) {
	overlay := filepath.Join(t.TempDir(), "overlay.yaml")
	require.NoError(t, os.WriteFile(overlay, []byte("scanner:\n  version: 9.0.0\n"), 0o600))

	cfg := defaults()
	require.NoError(t, ShallowMergeYAML(cfg, overlay))

	// Whole-section replacement: include reverts to the zero value because
	// the overlay section omitted it.
	assert.False(t, cfg.Scanner.Include)
}

func TestShallowMergeYAMLErrors(t *testing.T) {
	assert.Error(t, ShallowMergeYAML(nil, "x"))
	assert.Error(t, ShallowMergeYAML(defaults(), filepath.Join(t.TempDir(), "missing.yaml")))
}

func TestScratchDirOverride(t *testing.T) {
	t.Setenv("PREWIRE_SCRATCH", "/tmp/custom-scratch")
	assert.Equal(t, "/tmp/custom-scratch", ScratchDir())
}

func TestGlobalConfigSingleton(t *testing.T) {
	t.Setenv("PREWIRE_HOME", t.TempDir())
	ResetGlobalConfigForTest()
	t.Cleanup(ResetGlobalConfigForTest)

	cfg := GetGlobalConfig()
	require.NotNil(t, cfg)
	assert.Same(t, cfg, GetGlobalConfig(), "same instance on repeat calls")
}
