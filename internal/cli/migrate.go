package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dost-app/dost/internal/database"
)

// NewMigrateCmd creates the 'migrate' command.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply SQLite schema migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			if cfg.Store.Driver != "sqlite" {
				slog.Info("store driver needs no migrations", "driver", cfg.Store.Driver)
				return nil
			}

			db, err := database.OpenSQLite(cmd.Context(), cfg.DB)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.RunMigrations(db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrations applied to %s\n", cfg.DB.Path)
			return nil
		},
	}
}
