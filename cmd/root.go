package cmd

import (
	"errors"
	"fmt"
	"os"
	"reroute/internal/config"
	"reroute/internal/logger"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	cfg        *config.Config
	debug      bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "reroute [destination] [source]",
	Short: "Move new files from a watched directory into a destination",
	Long: `reroute watches the source directory (default $DOWNLOADS) and moves every
file that appears there into the destination (default: the current directory).
Files still being written, such as *.tmp, are left alone until they are renamed.`,
	Version:      version,
	Args:         cobra.MaximumNArgs(2),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		logger.Init(debug || cfg.Log.Debug, cfg.Log.Format)
		return nil
	},
	RunE: runWatch,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var errNoDaemon = errors.New("status server is disabled, set daemon_addr in the config")

func daemonURL(path string) (string, error) {
	if cfg.DaemonAddr == "" {
		return "", errNoDaemon
	}
	return fmt.Sprintf("http://%s%s", cfg.DaemonAddr, path), nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug mode")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ~/.reroute/config.yaml)")
}
