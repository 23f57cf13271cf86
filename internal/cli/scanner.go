package cli

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/prewire/prewire/internal/config"
	"github.com/prewire/prewire/internal/scanner"
)

// NewScannerCmd creates the scanner command group.
func NewScannerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scanner",
		Short: "Manage the secret-scanner binary",
	}
	cmd.AddCommand(newScannerFetchCmd())
	return cmd
}

// newScannerFetchCmd creates the scanner fetch command for air-gapped or
// custom deployments where the hook-runner tool cannot download the
// scanner itself.
func newScannerFetchCmd() *cobra.Command {
	var (
		versionPin string
		dest       string
		targetOS   string
		targetArch string
	)

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the gitleaks binary for offline use",
		Long: `Downloads the pinned gitleaks release for the given platform, verifies
the archive entries, and extracts the executable into the destination
directory. The configured version pin is used unless --pin overrides it.`,
		Example: `  # Fetch for the current platform into ./bin
  prewire scanner fetch --dest ./bin

  # Fetch a specific version for another platform
  prewire scanner fetch --pin 8.18.4 --os windows --arch amd64 --dest ./dist`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if versionPin == "" {
				versionPin = cfg.Scanner.Version
			}

			f := &scanner.Fetcher{}
			path, err := f.Fetch(cmd.Context(), scanner.Options{
				Version: versionPin,
				DestDir: dest,
				OS:      targetOS,
				Arch:    targetArch,
			})
			if err != nil {
				return err
			}

			cmd.Printf("Scanner binary written to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&versionPin, "pin", "", "gitleaks version to fetch (defaults to the configured pin)")
	cmd.Flags().StringVar(&dest, "dest", ".", "destination directory for the extracted binary")
	cmd.Flags().StringVar(&targetOS, "os", runtime.GOOS, "target operating system")
	cmd.Flags().StringVar(&targetArch, "arch", runtime.GOARCH, "target architecture")

	return cmd
}
