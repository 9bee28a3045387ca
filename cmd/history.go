package cmd

import (
	"errors"
	"fmt"
	"os"
	"reroute/internal/db"
	"reroute/internal/model"
	"reroute/internal/repository"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var (
	historyN      int
	historyFailed bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent moves",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfg.History.DBPath); errors.Is(err, os.ErrNotExist) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no history yet (enable history.enabled in the config)")
			return nil
		}

		if err := db.Init(cfg.History.DBPath); err != nil {
			return err
		}
		defer func() {
			_ = db.Close()
		}()

		repo := repository.NewHistoryRepository()

		var histories []model.History
		var err error
		if historyFailed {
			histories, err = repo.GetFailed()
		} else {
			histories, err = repo.GetRecent(historyN)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(histories) == 0 {
			_, _ = fmt.Fprintln(out, "no history yet")
			return nil
		}

		_, _ = fmt.Fprintln(out, formatHistory(histories, time.Now()))

		stats, err := repo.GetStats()
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s moves, %s failed\n",
			humanize.Comma(stats.Total), humanize.Comma(stats.Failed))
		return nil
	},
}

func formatHistory(histories []model.History, now time.Time) string {
	rows := make([][]string, 0, len(histories))
	for _, h := range histories {
		status := "✓"
		if h.Status == model.StatusFailed {
			status = "✗"
		}

		detail := humanize.IBytes(uint64(max(h.Size, 0)))
		if h.ErrMsg != "" {
			detail = h.ErrMsg
		}

		rows = append(rows, []string{
			status,
			humanize.RelTime(h.MovedAt, now, "ago", "from now"),
			string(h.Trigger),
			h.SrcPath,
			detail,
		})
	}

	return renderTable(
		[]string{"", "WHEN", "TRIGGER", "SOURCE", "SIZE"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
	)
}

func init() {
	historyCmd.Flags().IntVar(&historyN, "n", 20, "number of history entries to show")
	historyCmd.Flags().BoolVar(&historyFailed, "failed", false, "show only failed moves")
	rootCmd.AddCommand(historyCmd)
}
