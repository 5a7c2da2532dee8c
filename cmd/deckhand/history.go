package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckhand-io/deckhand/internal/config"
	"github.com/deckhand-io/deckhand/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent generation runs",
	Long: `Show recent generation runs from the local run history.

Runs are recorded in a SQLite database (history.path, default
.deckhand/history.db). Recording is best-effort and can be turned off
with history.enabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if !cfg.History.Enabled {
			fmt.Println("History is disabled (history.enabled = false).")
			return nil
		}

		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return fmt.Errorf("open history: %w", err)
		}
		defer store.Close()
		if err := store.Migrate(); err != nil {
			return fmt.Errorf("migrate history: %w", err)
		}

		runs, err := store.ListRuns(historyLimit)
		if err != nil {
			return fmt.Errorf("list runs: %w", err)
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded yet.")
			return nil
		}

		fmt.Printf("%-10s %-17s %-8s %-7s %-7s %s\n",
			"ID", "STARTED", "STATUS", "SLIDES", "CHARTS", "TOPIC")
		for _, r := range runs {
			fmt.Printf("%-10s %-17s %-8s %-7d %-7d %s\n",
				r.ID,
				r.StartedAt.Local().Format("2006-01-02 15:04"),
				r.Status,
				r.SlideCount,
				r.ChartCount,
				r.Topic)
		}

		sum, err := store.Summarize()
		if err == nil && sum.Total > 0 {
			fmt.Printf("\n%d runs: %d succeeded, %d failed, %d slides, %d charts\n",
				sum.Total, sum.Succeeded, sum.Failed, sum.TotalSlides, sum.TotalCharts)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum runs to show")
}
