package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prewire/prewire/internal/config"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage prewire configuration",
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigValidateCmd())
	return cmd
}

// newConfigInitCmd creates the config init command for writing the
// default settings file.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the settings file with default values",
		Long: `Creates the settings file under the prewire home directory
($PREWIRE_HOME or ~/.prewire) populated with default values.`,
		Example: `  # Create the settings file
  prewire config init

  # Overwrite an existing settings file
  prewire config init --force`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := config.ConfigFilePath()
			if err != nil {
				return fmt.Errorf("resolving settings path: %w", err)
			}

			if !force {
				if _, statErr := os.Stat(path); statErr == nil {
					return errors.New("settings file already exists, use --force to overwrite")
				} else if !os.IsNotExist(statErr) {
					return fmt.Errorf("cannot access settings path %s: %w", path, statErr)
				}
			}

			cfg := config.New()
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("saving settings: %w", err)
			}

			cmd.Printf("Settings initialized at %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing settings file")

	return cmd
}

// newConfigValidateCmd creates the config validate command.
func newConfigValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the settings file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.GetGlobalConfig().Validate(); err != nil {
				return fmt.Errorf("settings are invalid: %w", err)
			}
			cmd.Println("Settings are valid")
			return nil
		},
	}
}
