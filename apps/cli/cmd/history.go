package cmd

import (
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/restflow/packages/core/config"
	"github.com/abdul-hamid-achik/restflow/packages/history"
	"github.com/abdul-hamid-achik/restflow/packages/output"
	"github.com/spf13/cobra"
)

var (
	historyLimitFlag   int
	historyConfigFlag  string
	historyNoColorFlag bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded requests",
	Long: `List requests recorded in the history store, newest first.

Recording is off by default; enable it with --history on a request
command or history: true in the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(historyConfigFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
			os.Exit(ExitConfigError)
		}

		path := cfg.HistoryPath
		if path == "" {
			path = history.DefaultPath()
		}

		formatter := output.NewConsoleFormatter(
			output.WithWriter(cmd.OutOrStdout()),
			output.WithNoColor(historyNoColorFlag || cfg.GetNoColor()),
		)

		if _, err := os.Stat(path); os.IsNotExist(err) {
			formatter.FormatHistory(nil)
			return nil
		}

		store, err := history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		entries, err := store.Recent(historyLimitFlag)
		if err != nil {
			return err
		}

		formatter.FormatHistory(entries)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Maximum number of entries to show")
	historyCmd.Flags().StringVar(&historyConfigFlag, "config", "", "Path to config file")
	historyCmd.Flags().BoolVar(&historyNoColorFlag, "no-color", false, "Disable colored output")
}
