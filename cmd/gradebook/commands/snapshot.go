package commands

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gradebook/internal/store"
	"gradebook/internal/telemetry"
	configlibsql "gradebook/lib/configutil/libsql"

	"github.com/spf13/cobra"
)

var snapshotDb *string

func init() {
	snapshotDb = snapshotCmd.Flags().String("db", "gradebook.db", "The sqlite file (or libsql url) to write the snapshot to.")
	rootCmd.AddCommand(snapshotCmd)
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot [--db <path/to/gradebook.db>]",
	Short: "Copies every course and submission of the user into a sqlite snapshot.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		tel := telemetry.SlogAPI{}

		config, err := loadConfig()
		if err != nil {
			return err
		}
		source, closeSource, err := config.Source.OpenSource(ctx, tel)
		if err != nil {
			return err
		}
		defer closeSource()

		target := configlibsql.FromDSN(*snapshotDb)
		target.AuthToken = os.Getenv("LIBSQL_AUTH_TOKEN")
		db, err := target.OpenDB()
		if err != nil {
			return fmt.Errorf("open %s: %w", *snapshotDb, err)
		}
		defer db.Close()

		snapshots := store.NewStore(db, tel)
		err = snapshots.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("migrate %s: %w", *snapshotDb, err)
		}

		t1 := time.Now()
		count, err := snapshots.Snapshot(ctx, source, config.User)
		if err != nil {
			return err
		}
		slog.Info("snapshot time", "seconds", time.Since(t1).Seconds())

		fmt.Fprintf(cmd.OutOrStdout(), "saved %d courses of %s to %s\n", count, config.User, *snapshotDb)
		return nil
	},
}
