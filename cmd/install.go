package cmd

import (
	"fmt"
	"os"
	"reroute/internal/autostart"
	"reroute/internal/config"

	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install [destination] [source]",
	Short: "Start reroute at login for the given directories",
	Args:  cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		execPath, err := os.Executable()
		if err != nil {
			return fmt.Errorf("failed to get executable path: %w", err)
		}

		var dest, source string
		if len(args) > 0 {
			dest = args[0]
		}
		if len(args) > 1 {
			source = args[1]
		}

		// Resolve now: the service has neither our environment nor our cwd.
		route, err := config.ResolveRoute(source, dest, cfg.SourceEnv)
		if err != nil {
			return err
		}
		if err := route.Validate(); err != nil {
			return err
		}

		serviceArgs := []string{route.Dest, route.Source}
		if configPath != "" {
			serviceArgs = append(serviceArgs, "--config", configPath)
		}

		if err := autostart.New().Install(execPath, serviceArgs); err != nil {
			return err
		}

		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "reroute registered for autostart: %q => %q\n", route.Source, route.Dest)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
