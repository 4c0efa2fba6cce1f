package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/hieunt/fleetwatch/internal/config"
	"github.com/hieunt/fleetwatch/internal/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var initForceFlag bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a .fleetwatch.yaml configuration",
	Long: `Write a starter configuration file in the current directory.
Edit the host list, SSH credentials, and thresholds afterwards.

Examples:
  fleetwatch init
  fleetwatch init --force`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return initCommand(initForceFlag)
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForceFlag, "force", false, "Overwrite an existing config file")
}

// scaffold mirrors config.Config with string durations so the generated
// YAML reads naturally ("5s" instead of nanosecond integers).
type scaffold struct {
	Version int           `yaml:"version"`
	Local   string        `yaml:"local"`
	Hosts   []config.Host `yaml:"hosts"`
	SSH     struct {
		User    string `yaml:"user"`
		Key     string `yaml:"key"`
		Timeout string `yaml:"timeout"`
	} `yaml:"ssh"`
	Thresholds struct {
		CPU float64 `yaml:"cpu"`
		GPU float64 `yaml:"gpu"`
	} `yaml:"thresholds"`
	RebootTolerance string `yaml:"reboot_tolerance"`
	CommandTimeout  string `yaml:"command_timeout"`
	StateDir        string `yaml:"state_dir"`
	Alerts          struct {
		WebhookURL string `yaml:"webhook_url"`
		UTCOffset  int    `yaml:"utc_offset"`
	} `yaml:"alerts"`
	Lock struct {
		Enabled bool   `yaml:"enabled"`
		Stale   string `yaml:"stale"`
	} `yaml:"lock"`
}

func initCommand(force bool) error {
	configPath := filepath.Join(".", config.ConfigFileName)

	if _, err := os.Stat(configPath); err == nil && !force {
		var overwrite bool

		form := huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(fmt.Sprintf("Config file '%s' already exists. Overwrite?", config.ConfigFileName)).
					Value(&overwrite),
			),
		)

		if err := form.Run(); err != nil {
			return errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to get user input",
				"Try running with --force to overwrite")
		}

		if !overwrite {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	data, err := yaml.Marshal(defaultScaffold())
	if err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to generate config",
			"This shouldn't happen - please report this bug!")
	}

	header := "# fleetwatch configuration\n# 'local' names the host whose commands run without SSH.\n"
	if err := os.WriteFile(configPath, append([]byte(header), data...), 0o644); err != nil {
		return errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to write "+configPath,
			"Check directory permissions")
	}

	fmt.Printf("Wrote %s — edit the host list before the first run.\n", configPath)
	return nil
}

func defaultScaffold() scaffold {
	defaults := config.DefaultConfig()

	var s scaffold
	s.Version = defaults.Version
	s.Local = "this-host"
	s.Hosts = []config.Host{
		{Name: "this-host", Address: "this-host"},
		{Name: "gpu1", Address: "gpu1.example.net"},
	}
	s.SSH.User = os.Getenv("USER")
	s.SSH.Key = "~/.ssh/id_rsa"
	s.SSH.Timeout = defaults.SSH.Timeout.String()
	s.Thresholds.CPU = defaults.Thresholds.CPU
	s.Thresholds.GPU = defaults.Thresholds.GPU
	s.RebootTolerance = defaults.RebootTolerance.String()
	s.CommandTimeout = defaults.CommandTimeout.String()
	s.StateDir = "~/.local/state/fleetwatch"
	s.Alerts.UTCOffset = defaults.Alerts.UTCOffset
	s.Lock.Enabled = defaults.Lock.Enabled
	s.Lock.Stale = defaults.Lock.Stale.String()
	return s
}
