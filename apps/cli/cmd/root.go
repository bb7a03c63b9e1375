package cmd

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "restflow",
	Short: "Fluent HTTP requests for JSON APIs.",
	Long: `restflow is a command-line client for JSON REST APIs. Build a
request from flags, send it, and get a readable, colored response back.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitUsageError)
	}
}

func init() {
	rootCmd.AddCommand(newMethodCommand(http.MethodGet))
	rootCmd.AddCommand(newMethodCommand(http.MethodPost))
	rootCmd.AddCommand(newMethodCommand(http.MethodPut))
	rootCmd.AddCommand(newMethodCommand(http.MethodPatch))
	rootCmd.AddCommand(newMethodCommand(http.MethodDelete))
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}
