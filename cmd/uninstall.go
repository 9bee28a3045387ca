package cmd

import (
	"fmt"
	"reroute/internal/autostart"

	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the login service",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := autostart.New().Uninstall(); err != nil {
			return err
		}

		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "reroute autostart removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
