// Package cli wires the fleetwatch command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/hieunt/fleetwatch/internal/config"
	"github.com/spf13/cobra"
)

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "fleetwatch",
	Short: "Poll a fleet of compute hosts and alert on trouble",
	Long: `fleetwatch polls a fixed fleet of compute hosts over SSH, checks
reachability, CPU/GPU temperature, and uptime, and sends alerts to a
Discord webhook when thresholds are crossed or hosts go down, reboot,
or recover.

One invocation is one poll pass; schedule it with cron:

  */2 * * * * fleetwatch run --config /etc/fleetwatch.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig finds and loads the config honoring the --config flag.
func loadConfig() (*config.Config, error) {
	path, err := config.Find(configFlag)
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}
