package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, 88.0, cfg.Thresholds.CPU)
	assert.Equal(t, 88.0, cfg.Thresholds.GPU)
	assert.Equal(t, 5*time.Minute, cfg.RebootTolerance)
	assert.Equal(t, 5*time.Second, cfg.CommandTimeout)
	assert.Equal(t, 5*time.Second, cfg.SSH.Timeout)
	assert.Equal(t, 8, cfg.Alerts.UTCOffset)
	assert.True(t, cfg.Lock.Enabled)
	assert.Equal(t, 10*time.Minute, cfg.Lock.Stale)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)

	content := `
version: 1
local: rtx_sashimi
hosts:
  - name: rtx_sashimi
    address: rtx_sashimi
  - name: fatchoy
    address: fatchoy.example.net
ssh:
  user: hieunt
  key: /keys/id_rsa
  timeout: 3s
thresholds:
  cpu: 90
  gpu: 85
reboot_tolerance: 120s
command_timeout: 2s
state_dir: /var/lib/fleetwatch
alerts:
  webhook_url: https://discord.example/webhook
  utc_offset: 7
lock:
  enabled: false
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "rtx_sashimi", cfg.Local)
	require.Len(t, cfg.Hosts, 2)
	assert.Equal(t, Host{Name: "rtx_sashimi", Address: "rtx_sashimi"}, cfg.Hosts[0])
	assert.Equal(t, Host{Name: "fatchoy", Address: "fatchoy.example.net"}, cfg.Hosts[1])
	assert.Equal(t, "hieunt", cfg.SSH.User)
	assert.Equal(t, 3*time.Second, cfg.SSH.Timeout)
	assert.Equal(t, 90.0, cfg.Thresholds.CPU)
	assert.Equal(t, 85.0, cfg.Thresholds.GPU)
	assert.Equal(t, 2*time.Minute, cfg.RebootTolerance)
	assert.Equal(t, 2*time.Second, cfg.CommandTimeout)
	assert.Equal(t, "/var/lib/fleetwatch", cfg.StateDir)
	assert.Equal(t, "https://discord.example/webhook", cfg.Alerts.WebhookURL)
	assert.Equal(t, 7, cfg.Alerts.UTCOffset)
	assert.False(t, cfg.Lock.Enabled)
}

func TestLoadAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, ConfigFileName)

	content := `
hosts:
  - name: gpu1
    address: gpu1
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 88.0, cfg.Thresholds.CPU)
	assert.Equal(t, 5*time.Minute, cfg.RebootTolerance)
	assert.NotEmpty(t, cfg.StateDir)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/.fleetwatch.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "Config file not found")
}

func TestFindExplicit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: 1"), 0o644))

	found, err := Find(path)
	require.NoError(t, err)
	assert.Equal(t, path, found)

	_, err = Find("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := DefaultConfig()
		cfg.Hosts = []Host{{Name: "gpu1", Address: "gpu1"}}
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"no hosts", func(c *Config) { c.Hosts = nil }, "No hosts configured"},
		{"missing name", func(c *Config) { c.Hosts[0].Name = "" }, "has no name"},
		{"missing address", func(c *Config) { c.Hosts[0].Address = "" }, "has no address"},
		{"duplicate names", func(c *Config) {
			c.Hosts = append(c.Hosts, Host{Name: "gpu1", Address: "other"})
		}, "Duplicate host name"},
		{"unknown local", func(c *Config) { c.Local = "nope" }, "not in the hosts list"},
		{"zero cpu threshold", func(c *Config) { c.Thresholds.CPU = 0 }, "must be positive"},
		{"negative tolerance", func(c *Config) { c.RebootTolerance = -time.Second }, "cannot be negative"},
		{"zero command timeout", func(c *Config) { c.CommandTimeout = 0 }, "must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "x"), ExpandHome("~/x"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "relative", ExpandHome("relative"))
}
