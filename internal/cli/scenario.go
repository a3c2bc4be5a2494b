package cli

import (
	"fmt"
	"os"

	"botf2/internal/scenario"

	"github.com/spf13/cobra"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Scripted scenario tooling",
}

var scenarioRunCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Replay a scenario in memory and print the resulting relations",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := scenario.Load(args[0])
		if err != nil {
			return err
		}
		logger := cfg.Log.NewLogger(os.Stderr)
		res, err := scenario.Run(cmd.Context(), f, logger)
		if err != nil {
			return fmt.Errorf("run %s: %w", args[0], err)
		}
		return scenario.Render(cmd.OutOrStdout(), res)
	},
}

func init() {
	scenarioCmd.AddCommand(scenarioRunCmd)
}
