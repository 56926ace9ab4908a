package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/tablekeeper/internal/config"
	"github.com/JonMunkholm/tablekeeper/internal/storage/postgres"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var db config.DatabaseConfig
			if err := config.LoadInto(&db); err != nil {
				return err
			}

			pool, err := postgres.Connect(cmd.Context(), db)
			if err != nil {
				return err
			}
			defer pool.Close()

			if err := postgres.Migrate(cmd.Context(), pool); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}
