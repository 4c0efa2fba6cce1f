// Package exec provides command execution against fleet hosts. Commands run
// locally for the host fleetwatch itself lives on and over SSH for everyone
// else; callers see one Runner interface either way.
package exec

import (
	"context"

	"github.com/hieunt/fleetwatch/internal/config"
)

// Runner executes a shell command on a fleet host and returns trimmed stdout.
// Implementations return a structured error (code EXEC or SSH) on connect,
// auth, timeout, or non-zero exit.
type Runner interface {
	Run(ctx context.Context, host config.Host, cmd string) (string, error)
}

// Router dispatches to local or SSH execution based on the host name.
type Router struct {
	local  *LocalRunner
	remote *SSHRunner

	// localName is the configured host that runs commands without SSH.
	localName string
}

// NewRouter builds a Runner for the given config.
func NewRouter(cfg *config.Config) *Router {
	return &Router{
		local:     NewLocalRunner(),
		remote:    NewSSHRunner(cfg.SSH),
		localName: cfg.Local,
	}
}

// Run executes cmd on the host, locally when the host is the configured
// local machine and over SSH otherwise.
func (r *Router) Run(ctx context.Context, host config.Host, cmd string) (string, error) {
	if host.Name != "" && host.Name == r.localName {
		return r.local.Run(ctx, host, cmd)
	}
	return r.remote.Run(ctx, host, cmd)
}
