// Command courierctl runs maintenance jobs against the courier database.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "courierctl",
		Short:         "Maintenance tooling for the courier backend",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().Duration("timeout", 2*time.Minute, "abort the job after this long")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL DSN (defaults to DATABASE_URL)")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(purgeSessionsCmd())
	rootCmd.AddCommand(syncDriverNamesCmd())
	return rootCmd
}
