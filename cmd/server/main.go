package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import migrations and seeders so their init() funcs register them.
	_ "github.com/shashiranjanraj/bazaar/database/migrations"
	_ "github.com/shashiranjanraj/bazaar/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "bazaar",
	Short: "Bazaar e-commerce backend",
	Long:  "Bazaar is an e-commerce backend: product catalog, per-user carts, and atomic order placement behind a REST API.",
}

func init() {
	// Server
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	// Database
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	// Workers
	rootCmd.AddCommand(queueWorkCmd)
	rootCmd.AddCommand(queueFailedCmd)
	rootCmd.AddCommand(queueRetryCmd)
	rootCmd.AddCommand(scheduleRunCmd)
}
