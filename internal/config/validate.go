package config

import (
	"fmt"

	"github.com/hieunt/fleetwatch/internal/errors"
)

// Validate checks the config for problems that would make a poll pass
// meaningless. Config errors are the only fatal startup errors.
func (c *Config) Validate() error {
	if len(c.Hosts) == 0 {
		return errors.New(errors.ErrConfig,
			"No hosts configured",
			"Add at least one entry under 'hosts' with a name and address")
	}

	seen := make(map[string]bool, len(c.Hosts))
	for i, h := range c.Hosts {
		if h.Name == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Host %d has no name", i),
				"Every host needs a unique 'name'")
		}
		if h.Address == "" {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Host '%s' has no address", h.Name),
				"Set 'address' to a hostname, IP, or SSH config alias")
		}
		if seen[h.Name] {
			return errors.New(errors.ErrConfig,
				fmt.Sprintf("Duplicate host name '%s'", h.Name),
				"Host names identify state entries and must be unique")
		}
		seen[h.Name] = true
	}

	if c.Local != "" && !seen[c.Local] {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("'local' host '%s' is not in the hosts list", c.Local),
			"Set 'local' to the name of one of the configured hosts, or remove it")
	}

	if c.Thresholds.CPU <= 0 || c.Thresholds.GPU <= 0 {
		return errors.New(errors.ErrConfig,
			"Temperature thresholds must be positive",
			"Set thresholds.cpu and thresholds.gpu to a value in °C, e.g. 88")
	}

	if c.RebootTolerance < 0 {
		return errors.New(errors.ErrConfig,
			"reboot_tolerance cannot be negative",
			"Use a duration like 300s, or omit it for the default")
	}

	if c.CommandTimeout <= 0 {
		return errors.New(errors.ErrConfig,
			"command_timeout must be positive",
			"Use a short duration like 5s")
	}

	return nil
}
