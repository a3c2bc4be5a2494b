package cli

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	gormrepo "botf2/internal/adapter/repo/gorm"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the SQL migrations to postgres",
	RunE: func(cmd *cobra.Command, args []string) error {
		dsn := stringFlag(cmd, "dsn", cfg.Storage.DSN)
		if err := requireValue(dsn, "postgres DSN (--dsn or BOTF2_DB_DSN)"); err != nil {
			return err
		}
		var migrations fs.FS = gormrepo.Migrations()
		if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
			migrations = os.DirFS(dir)
		}

		db, err := gormrepo.OpenPostgres(dsn)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}

		applied, err := gormrepo.ApplyMigrations(context.Background(), db, migrations)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(applied) == 0 {
			fmt.Fprintln(out, "schema is up to date")
			return nil
		}
		for _, v := range applied {
			fmt.Fprintf(out, "applied %s\n", v)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().String("dsn", "", "postgres DSN")
	migrateCmd.Flags().String("dir", "", "read migrations from this directory instead of the embedded set")
}
