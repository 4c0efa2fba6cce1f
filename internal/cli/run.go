package cli

import (
	"context"
	"os"

	"github.com/hieunt/fleetwatch/internal/alert"
	"github.com/hieunt/fleetwatch/internal/config"
	"github.com/hieunt/fleetwatch/internal/exec"
	"github.com/hieunt/fleetwatch/internal/lock"
	"github.com/hieunt/fleetwatch/internal/logger"
	"github.com/hieunt/fleetwatch/internal/metrics"
	"github.com/hieunt/fleetwatch/internal/monitor"
	"github.com/hieunt/fleetwatch/internal/state"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Poll every host once and send alerts",
	Long: `Run one poll pass over the configured fleet.

Each host is checked for reachability, CPU/GPU temperature, and unexpected
reboots. Down/uptime state is persisted under state_dir so alerts are not
re-sent on every poll and recoveries are reported.

Examples:
  fleetwatch run
  fleetwatch run --config /etc/fleetwatch.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCommand()
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runCommand() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log := logger.NewEnvLogger("[fleetwatch]")

	if cfg.Lock.Enabled {
		lk, err := lock.Acquire(cfg.StateDir, cfg.Lock.Stale)
		if err != nil {
			return err
		}
		defer lk.Release()
	}

	m := monitor.New(cfg,
		metrics.NewShellSource(exec.NewRouter(cfg), cfg.CommandTimeout, log),
		alert.NewDiscordSink(webhookURL(cfg), cfg.Alerts.UTCOffset, log),
		state.NewFileStore(cfg.StateDir, log),
		log)

	return m.RunOnce(context.Background())
}

// webhookURL resolves the alert webhook, falling back to the environment
// variable the original deployment used.
func webhookURL(cfg *config.Config) string {
	if cfg.Alerts.WebhookURL != "" {
		return cfg.Alerts.WebhookURL
	}
	return os.Getenv("DISCORD_WEBHOOK_URL")
}
