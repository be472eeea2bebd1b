package main

import (
	"fmt"
	"pgtpch/internal/ui"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// initHistoryCmd initializes the history command and adds it to the root command.
func initHistoryCmd(rootCmd *cobra.Command) {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded benchmark runs",
		Long: `Lists the runs recorded in the history store configured by
history.type and history.dsn, oldest first.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if viper.GetString("history.type") == "" {
				cmd.Println("Run history is disabled. Set history.type to json, sqlite or postgres.")
				return nil
			}

			store, err := openStore()
			if err != nil {
				return fmt.Errorf("failed to open run history: %w", err)
			}
			defer store.Close()

			records, err := store.LoadAll()
			if err != nil {
				return fmt.Errorf("failed to load run history: %w", err)
			}
			if len(records) == 0 {
				cmd.Println("No runs recorded.")
				return nil
			}

			total := len(records)
			limit, _ := cmd.Flags().GetInt("limit")
			if limit > 0 && total > limit {
				records = records[total-limit:]
			}

			out := cmd.OutOrStdout()
			styles := ui.NewStyles(out, viper.GetBool("no_color"))
			fmt.Fprintln(out, styles.HistoryTitle(len(records), total))
			fmt.Fprintln(out, styles.HistoryTable(records))
			return nil
		},
	}
	historyCmd.Flags().Int("limit", 20, "Show at most this many of the latest runs (0 for all)")
	rootCmd.AddCommand(historyCmd)
}
