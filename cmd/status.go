package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reroute/internal/model"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "View the running watcher's counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := daemonURL("/status")
		if err != nil {
			return err
		}

		resp, err := http.Get(url)
		if err != nil {
			return fmt.Errorf("reroute not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		var snap model.RouterSnapshot
		if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
			return fmt.Errorf("failed to decode status response: %w", err)
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), formatSnapshot(snap, time.Now()))
		return nil
	},
}

func formatSnapshot(snap model.RouterSnapshot, now time.Time) string {
	lastMove := "-"
	if snap.LastMove != nil {
		lastMove = humanize.RelTime(*snap.LastMove, now, "ago", "from now")
	}

	rows := [][]string{
		{"source", snap.Source},
		{"destination", snap.Dest},
		{"started", humanize.RelTime(snap.StartedAt, now, "ago", "from now")},
		{"rerouted", humanize.Comma(int64(snap.Rerouted))},
		{"skipped", humanize.Comma(int64(snap.Skipped))},
		{"failed", humanize.Comma(int64(snap.Failed))},
		{"last move", lastMove},
	}
	if snap.LastError != "" {
		rows = append(rows, []string{"last error", snap.LastError})
	}

	return renderTable([]string{"FIELD", "VALUE"}, rows, nil)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
