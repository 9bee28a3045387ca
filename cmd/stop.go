package cmd

import (
	"fmt"
	"io"
	"net/http"

	"github.com/spf13/cobra"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running watcher",
	RunE: func(cmd *cobra.Command, args []string) error {
		url, err := daemonURL("/stop")
		if err != nil {
			return err
		}

		resp, err := http.Post(url, "application/json", nil)
		if err != nil {
			return fmt.Errorf("reroute not running: %w", err)
		}

		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("stop failed: %s", resp.Status)
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
