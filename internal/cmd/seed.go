package cmd

import (
	"github.com/Siddharth20050904/inventory-management/internal/migrations"

	"github.com/spf13/cobra"
)

var (
	seedDemo          bool
	seedAdminUsername string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default admin account and, optionally, a demo catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer a.close()

		if err := migrations.RunMigrations(a.db, a.logger); err != nil {
			return err
		}
		return migrations.Seed(cmd.Context(), a.db, migrations.SeedOptions{
			AdminUsername: seedAdminUsername,
			AdminEmail:    a.cfg.AdminEmail,
			AdminPassword: a.cfg.AdminPassword,
			DemoCatalog:   seedDemo,
		}, a.logger)
	},
}

func init() {
	seedCmd.Flags().BoolVar(&seedDemo, "demo", false, "also create demo products and a walk-in customer")
	seedCmd.Flags().StringVar(&seedAdminUsername, "admin-username", "admin", "username for the default admin")
	rootCmd.AddCommand(seedCmd)
}
