// Package config holds the prewire settings surface: the feature toggles
// the host supplies per run, logging configuration, and the resolution of
// the directories prewire owns on disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Masterminds/semver/v3"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/prewire/prewire/internal/logging"
)

const (
	// DefaultScannerVersion is the gitleaks version pinned into generated
	// configuration documents when no pin is configured.
	DefaultScannerVersion = "8.18.4"

	// DefaultDebounceSeconds is the quiet period the git-init watcher
	// waits before firing the orchestrator.
	DefaultDebounceSeconds = 2

	configFileName = "config.yaml"
)

// Config is the full prewire settings document.
type Config struct {
	Setup   SetupConfig   `yaml:"setup"`
	Scanner ScannerConfig `yaml:"scanner"`
	Watch   WatchConfig   `yaml:"watch"`
	Logging LoggingConfig `yaml:"logging"`
}

// SetupConfig controls the per-repository setup behavior.
type SetupConfig struct {
	// AutoRunOnStart makes `prewire watch` run a full setup pass when it
	// starts, before any git-init event arrives.
	AutoRunOnStart bool `yaml:"auto_run_on_start"`

	// AutoCreateConfig enables writing the configuration document into
	// repositories that lack one.
	AutoCreateConfig bool `yaml:"auto_create_config"`

	// TemplatePath optionally points at a manifest template file that
	// replaces the bundled default. An unreadable file falls back to the
	// bundled content.
	TemplatePath string `yaml:"template_path,omitempty"`
}

// ScannerConfig controls the secret-scanner entry appended to generated
// configuration documents and the side-channel binary fetch.
type ScannerConfig struct {
	// Include appends the gitleaks hook entry to generated documents.
	Include bool `yaml:"include"`

	// Version is the gitleaks version pin (bare semver, no leading v).
	Version string `yaml:"version"`
}

// WatchConfig controls the git-init trigger watcher.
type WatchConfig struct {
	// DebounceSeconds is the quiet period after the last init signal
	// before the orchestrator fires.
	DebounceSeconds int `yaml:"debounce_seconds"`
}

// LoggingConfig mirrors the logging package's Config in settings form.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
}

// ToLoggingConfig bridges the settings section to the logging package.
// Output becomes "file" whenever a file path is set.
func (lc *LoggingConfig) ToLoggingConfig() logging.Config {
	output := "stderr"
	if lc.File != "" {
		output = "file"
	}
	return logging.Config{
		Level:  lc.Level,
		Format: lc.Format,
		Output: output,
		File:   lc.File,
	}
}

// New returns a Config populated with defaults, overlaid with the settings
// file under the prewire home directory when one exists. A broken settings
// file degrades to defaults rather than failing the run.
func New() *Config {
	cfg := defaults()

	path, err := ConfigFilePath()
	if err != nil {
		return cfg
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return cfg
	}
	if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
		return defaults()
	}
	return cfg
}

func defaults() *Config {
	return &Config{
		Setup: SetupConfig{
			AutoRunOnStart:   true,
			AutoCreateConfig: true,
		},
		Scanner: ScannerConfig{
			Include: true,
			Version: DefaultScannerVersion,
		},
		Watch: WatchConfig{
			DebounceSeconds: DefaultDebounceSeconds,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks the settings for values the pipeline cannot use.
func (c *Config) Validate() error {
	if c.Scanner.Include {
		if _, err := semver.NewVersion(c.Scanner.Version); err != nil {
			return fmt.Errorf("scanner.version %q is not valid semver: %w", c.Scanner.Version, err)
		}
	}
	if c.Watch.DebounceSeconds < 0 {
		return fmt.Errorf("watch.debounce_seconds must be >= 0, got %d", c.Watch.DebounceSeconds)
	}
	return nil
}

// Save writes the settings document under the prewire home directory,
// creating it when needed.
func (c *Config) Save() error {
	path, err := ConfigFilePath()
	if err != nil {
		return err
	}
	if mkErr := os.MkdirAll(filepath.Dir(path), 0o700); mkErr != nil {
		return fmt.Errorf("creating config directory: %w", mkErr)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if writeErr := os.WriteFile(path, data, 0o600); writeErr != nil {
		return fmt.Errorf("writing config file %s: %w", path, writeErr)
	}
	return nil
}

// HomeDir returns the prewire home directory: $PREWIRE_HOME when set,
// otherwise ~/.prewire.
func HomeDir() (string, error) {
	if home := os.Getenv("PREWIRE_HOME"); home != "" {
		return home, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(userHome, ".prewire"), nil
}

// ConfigFilePath returns the settings file path under the prewire home.
func ConfigFilePath() (string, error) {
	home, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configFileName), nil
}

// ScratchDir returns the scratch base directory that holds the ephemeral
// environment, under the XDG cache root. $PREWIRE_SCRATCH overrides it,
// which tests and locked-down deployments use.
func ScratchDir() string {
	if scratch := os.Getenv("PREWIRE_SCRATCH"); scratch != "" {
		return scratch
	}
	return filepath.Join(xdg.CacheHome, "prewire")
}
