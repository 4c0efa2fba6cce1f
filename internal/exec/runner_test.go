package exec

import (
	"context"
	"testing"
	"time"

	"github.com/hieunt/fleetwatch/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func routerConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Local = "here"
	cfg.Hosts = []config.Host{
		{Name: "here", Address: "here"},
		{Name: "remote", Address: "192.0.2.1"},
	}
	cfg.SSH.Timeout = 100 * time.Millisecond
	return cfg
}

func TestRouterRunsLocalHostLocally(t *testing.T) {
	router := NewRouter(routerConfig())

	out, err := router.Run(context.Background(), config.Host{Name: "here", Address: "here"}, "echo local-path")
	require.NoError(t, err)
	assert.Equal(t, "local-path", out)
}

func TestRouterRoutesOtherHostsOverSSH(t *testing.T) {
	router := NewRouter(routerConfig())

	// 192.0.2.1 is TEST-NET-1, guaranteed unroutable: proves the command
	// went to the SSH path instead of running locally.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := router.Run(ctx, config.Host{Name: "remote", Address: "192.0.2.1"}, "echo should-not-run")
	assert.Error(t, err)
}

func TestRouterWithoutLocalNameAlwaysUsesSSH(t *testing.T) {
	cfg := routerConfig()
	cfg.Local = ""
	router := NewRouter(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := router.Run(ctx, config.Host{Name: "here", Address: "192.0.2.1"}, "echo should-not-run")
	assert.Error(t, err)
}
