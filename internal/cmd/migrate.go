package cmd

import (
	"github.com/Siddharth20050904/inventory-management/internal/migrations"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()
		return migrations.RunMigrations(a.db, a.logger)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
