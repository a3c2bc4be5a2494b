package cli

import (
	"fmt"
	"os"

	"botf2/internal/config"

	"github.com/spf13/cobra"
)

var (
	configPath string
	cfg        config.Config
	rootCmd    = &cobra.Command{
		Use:   "diplomacyctl",
		Short: "Operator tooling for the botf2 diplomacy engine",
		Long: `diplomacyctl applies migrations, replays scripted scenarios and inspects
the snapshots and events the diplomacy server produces.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load(configPath)
			if err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("BOTF2_CONFIG"), "path to the YAML config file")

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(eventsCmd)
}

// stringFlag returns the flag value when set on the command line, else fallback.
func stringFlag(cmd *cobra.Command, name, fallback string) string {
	if cmd.Flags().Changed(name) {
		v, _ := cmd.Flags().GetString(name)
		return v
	}
	return fallback
}

func requireValue(value, hint string) error {
	if value == "" {
		return fmt.Errorf("missing %s", hint)
	}
	return nil
}
