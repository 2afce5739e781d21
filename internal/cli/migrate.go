package cli

import (
	"fmt"

	"p2p-lending-backend/internal/infrastructure/db"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the lending tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log := loadConfig()
			gdb, err := openDB(cfg, log)
			if err != nil {
				return err
			}
			defer closeDB(gdb)

			if err := db.Migrate(gdb); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", len(db.Models()))
			return nil
		},
	}
}
