package config

import "time"

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Config represents the complete .fleetwatch.yaml configuration file.
type Config struct {
	Version int `yaml:"version" mapstructure:"version"`

	// Local is the host name whose commands run locally instead of over SSH.
	Local string `yaml:"local" mapstructure:"local"`

	// Hosts is the ordered fleet. Evaluation order follows list order.
	Hosts []Host `yaml:"hosts" mapstructure:"hosts"`

	SSH        SSHConfig       `yaml:"ssh" mapstructure:"ssh"`
	Thresholds ThresholdConfig `yaml:"thresholds" mapstructure:"thresholds"`

	// RebootTolerance is the uptime regression grace window. A host is judged
	// rebooted when current_uptime + tolerance < last_uptime.
	RebootTolerance time.Duration `yaml:"reboot_tolerance" mapstructure:"reboot_tolerance"`

	// CommandTimeout bounds each local or remote command execution.
	CommandTimeout time.Duration `yaml:"command_timeout" mapstructure:"command_timeout"`

	// StateDir is where down_since/last_uptime state files live.
	StateDir string `yaml:"state_dir" mapstructure:"state_dir"`

	Alerts AlertConfig `yaml:"alerts" mapstructure:"alerts"`
	Lock   LockConfig  `yaml:"lock" mapstructure:"lock"`
}

// Host identifies one fleet member. Identity is Name; Address is what we
// actually connect to (an IP, hostname, or SSH config alias).
type Host struct {
	Name    string `yaml:"name" mapstructure:"name"`
	Address string `yaml:"address" mapstructure:"address"`
}

// SSHConfig holds remote execution credentials.
type SSHConfig struct {
	// User is the SSH principal. Empty falls back to $USER.
	User string `yaml:"user" mapstructure:"user"`

	// Key is the identity file path. Empty tries the agent and default keys.
	Key string `yaml:"key" mapstructure:"key"`

	// Timeout bounds the TCP dial + handshake.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// ThresholdConfig holds temperature alert thresholds in °C.
// Comparisons are strict (reading > threshold).
type ThresholdConfig struct {
	CPU float64 `yaml:"cpu" mapstructure:"cpu"`
	GPU float64 `yaml:"gpu" mapstructure:"gpu"`
}

// AlertConfig controls outbound alert delivery.
type AlertConfig struct {
	// WebhookURL is the Discord webhook. Empty falls back to the
	// DISCORD_WEBHOOK_URL environment variable.
	WebhookURL string `yaml:"webhook_url" mapstructure:"webhook_url"`

	// UTCOffset is the hour offset used for the timestamp prefix on alerts.
	UTCOffset int `yaml:"utc_offset" mapstructure:"utc_offset"`
}

// LockConfig controls the local run lock that prevents overlapping polls.
type LockConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`

	// Stale is when to consider a lock stale (holder probably crashed).
	Stale time.Duration `yaml:"stale" mapstructure:"stale"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentConfigVersion,
		SSH: SSHConfig{
			Timeout: 5 * time.Second,
		},
		Thresholds: ThresholdConfig{
			CPU: 88,
			GPU: 88,
		},
		RebootTolerance: 5 * time.Minute,
		CommandTimeout:  5 * time.Second,
		Alerts: AlertConfig{
			UTCOffset: 8,
		},
		Lock: LockConfig{
			Enabled: true,
			Stale:   10 * time.Minute,
		},
	}
}
