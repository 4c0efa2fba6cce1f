package cli

import (
	"testing"

	"github.com/hieunt/fleetwatch/internal/config"
	"github.com/hieunt/fleetwatch/internal/metrics"
	"github.com/stretchr/testify/assert"
)

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "-"},
		{-1, "-"},
		{90, "1m"},
		{3700, "1h1m"},
		{90000, "1d1h"},
		{605000, "7d0h"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.seconds), "seconds=%v", tt.seconds)
	}
}

func TestFormatTemp(t *testing.T) {
	assert.Equal(t, "-", formatTemp(0))
	assert.Equal(t, "76°C", formatTemp(76.2))
}

func TestRenderSnapshots(t *testing.T) {
	snaps := []metrics.Snapshot{
		{
			Host:      config.Host{Name: "gpu1"},
			Reachable: true,
			Temps:     metrics.TemperatureReading{CPU: 70, GPU: 65},
			Uptime:    90000,
		},
		{
			Host: config.Host{Name: "gpu2"},
		},
	}

	out := renderSnapshots(snaps, false)

	assert.Contains(t, out, "HOST")
	assert.Contains(t, out, "gpu1")
	assert.Contains(t, out, "up")
	assert.Contains(t, out, "70°C")
	assert.Contains(t, out, "1d1h")
	assert.Contains(t, out, "gpu2")
	assert.Contains(t, out, "down")
}
