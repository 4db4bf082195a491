package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Inventory and order management backend",
	Long: `Inventory keeps product stock, customer balances and order records consistent
while sales and purchase orders are created, edited, delivered and paid.

Run "inventory migrate" once, then "inventory serve" to start the HTTP API.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
