package cli

import (
	"encoding/json"
	"fmt"

	"botf2/internal/adapter/snapshot/badgerstore"
	"botf2/internal/domain/diplomacy"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Inspect per-turn snapshots in a badger directory",
}

var snapshotShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print one snapshot as JSON (latest when --turn is 0)",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := stringFlag(cmd, "path", cfg.Snapshot.BadgerPath)
		if err := requireValue(path, "badger path (--path or BOTF2_BADGER_PATH)"); err != nil {
			return err
		}
		turn, _ := cmd.Flags().GetInt("turn")

		store, err := badgerstore.Open(badgerstore.DefaultConfig(path))
		if err != nil {
			return err
		}
		defer store.Close()

		var snap diplomacy.Snapshot
		if turn > 0 {
			snap, err = store.LoadSnapshot(cmd.Context(), turn)
		} else {
			turn, snap, err = store.Latest(cmd.Context())
		}
		if err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		b, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "turn %d\n%s\n", turn, b)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the turns that have a snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := stringFlag(cmd, "path", cfg.Snapshot.BadgerPath)
		if err := requireValue(path, "badger path (--path or BOTF2_BADGER_PATH)"); err != nil {
			return err
		}
		store, err := badgerstore.Open(badgerstore.DefaultConfig(path))
		if err != nil {
			return err
		}
		defer store.Close()

		turns, err := store.Turns(cmd.Context())
		if err != nil {
			return err
		}
		if len(turns) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "(none)")
		}
		for _, t := range turns {
			fmt.Fprintln(cmd.OutOrStdout(), t)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{snapshotShowCmd, snapshotListCmd} {
		c.Flags().String("path", "", "badger directory")
		snapshotCmd.AddCommand(c)
	}
	snapshotShowCmd.Flags().Int("turn", 0, "turn to print")
}
