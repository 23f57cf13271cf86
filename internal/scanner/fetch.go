// Package scanner downloads the secret-scanner binary for air-gapped or
// custom deployments where the hook-runner tool cannot fetch it itself.
package scanner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/cenkalti/backoff/v4"

	"github.com/prewire/prewire/internal/logging"
)

const (
	// BinaryName is the scanner executable's base name.
	BinaryName = "gitleaks"

	// DefaultVersion is the pinned release fetched when no version is
	// configured.
	DefaultVersion = "8.18.4"

	// DefaultBaseURL is the release download root.
	DefaultBaseURL = "https://github.com/gitleaks/gitleaks/releases/download"

	downloadTimeout = 5 * time.Minute
	maxRetries      = 3
)

// Fetcher downloads and extracts scanner release archives.
type Fetcher struct {
	// Client is the HTTP client; nil uses a client with a download
	// timeout.
	Client *http.Client

	// BaseURL overrides the release download root.
	BaseURL string

	// RetryInterval is the initial backoff between download attempts.
	// Zero uses the backoff default.
	RetryInterval time.Duration
}

// Options selects which release asset to fetch and where the extracted
// binary lands.
type Options struct {
	// Version is the release pin (bare semver). Empty means
	// DefaultVersion.
	Version string

	// DestDir receives the extracted binary. Created if missing.
	DestDir string

	// OS and Arch identify the asset platform. Empty means the running
	// platform.
	OS   string
	Arch string
}

// Fetch downloads the pinned release for the platform, extracts the
// scanner binary, and returns its final path. The download is retried
// with exponential backoff; extraction rejects archive entries that
// escape the extraction root.
func (f *Fetcher) Fetch(ctx context.Context, opts Options) (string, error) {
	log := logging.FromContext(ctx)

	version := opts.Version
	if version == "" {
		version = DefaultVersion
	}
	if _, err := semver.StrictNewVersion(version); err != nil {
		return "", fmt.Errorf("invalid scanner version pin %q: %w", version, err)
	}

	goos := opts.OS
	if goos == "" {
		goos = runtime.GOOS
	}
	arch := opts.Arch
	if arch == "" {
		arch = runtime.GOARCH
	}

	asset, err := assetName(version, goos, arch)
	if err != nil {
		return "", err
	}
	base := f.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	url := fmt.Sprintf("%s/v%s/%s", base, version, asset)

	log.Info().
		Ctx(ctx).
		Str("component", "scanner").
		Str("version", version).
		Str("url", url).
		Msg("fetching scanner release")

	archivePath, err := f.download(ctx, url, asset)
	if err != nil {
		return "", err
	}
	defer os.Remove(archivePath)

	if err := os.MkdirAll(opts.DestDir, 0o755); err != nil {
		return "", fmt.Errorf("creating destination %s: %w", opts.DestDir, err)
	}

	binary := BinaryName
	if goos == "windows" {
		binary += ".exe"
	}
	dest := filepath.Join(opts.DestDir, binary)
	if err := extract(archivePath, asset, binary, dest); err != nil {
		return "", fmt.Errorf("extracting %s: %w", asset, err)
	}

	log.Info().
		Ctx(ctx).
		Str("component", "scanner").
		Str("path", dest).
		Msg("scanner binary ready")
	return dest, nil
}

// assetName maps a version and platform to the release asset filename.
func assetName(version, goos, goarch string) (string, error) {
	arch, ok := map[string]string{
		"amd64": "x64",
		"arm64": "arm64",
		"386":   "x32",
		"arm":   "armv7",
	}[goarch]
	if !ok {
		return "", fmt.Errorf("no scanner release for architecture %q", goarch)
	}

	switch goos {
	case "linux", "darwin":
		return fmt.Sprintf("%s_%s_%s_%s.tar.gz", BinaryName, version, goos, arch), nil
	case "windows":
		return fmt.Sprintf("%s_%s_windows_%s.zip", BinaryName, version, arch), nil
	default:
		return "", fmt.Errorf("no scanner release for platform %q", goos)
	}
}

// download fetches url to a temporary file, retrying transient failures.
func (f *Fetcher) download(ctx context.Context, url, asset string) (string, error) {
	client := f.Client
	if client == nil {
		client = &http.Client{Timeout: downloadTimeout}
	}

	policy := backoff.NewExponentialBackOff()
	if f.RetryInterval > 0 {
		policy.InitialInterval = f.RetryInterval
	}

	var path string
	operation := func() error {
		var err error
		path, err = f.downloadOnce(ctx, client, url, asset)
		return err
	}
	err := backoff.Retry(operation,
		backoff.WithContext(backoff.WithMaxRetries(policy, maxRetries), ctx))
	if err != nil {
		return "", fmt.Errorf("downloading %s: %w", url, err)
	}
	return path, nil
}

func (f *Fetcher) downloadOnce(ctx context.Context, client *http.Client, url, asset string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", backoff.Permanent(err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusNotFound:
		// A missing release asset will not appear on retry.
		return "", backoff.Permanent(fmt.Errorf("release asset not found (HTTP %d)", resp.StatusCode))
	default:
		return "", fmt.Errorf("unexpected HTTP status %d", resp.StatusCode)
	}

	tmp, err := os.CreateTemp("", asset+"-*")
	if err != nil {
		return "", backoff.Permanent(err)
	}
	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", backoff.Permanent(err)
	}
	return tmp.Name(), nil
}
