package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mspctl",
	Short: "Operator tooling for the MSP ticket engine",
	Long: `mspctl applies database migrations and mints access tokens for the
ticket engine. Configuration is read from the same environment variables and
.env file the API server uses.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(tokenCmd)
}
