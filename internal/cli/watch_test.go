package cli

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hieunt/fleetwatch/internal/config"
	"github.com/hieunt/fleetwatch/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func watchTestModel() watchModel {
	cfg := config.DefaultConfig()
	cfg.Hosts = []config.Host{{Name: "gpu1", Address: "gpu1"}}
	return newWatchModel(cfg, nil, 30*time.Second)
}

func TestWatchModelQuitKeys(t *testing.T) {
	m := watchTestModel()

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
}

func TestWatchModelSnapshotStopsCollecting(t *testing.T) {
	m := watchTestModel()
	assert.True(t, m.collecting)

	updated, cmd := m.Update(snapshotMsg([]metrics.Snapshot{{Host: config.Host{Name: "gpu1"}}}))
	wm := updated.(watchModel)

	assert.False(t, wm.collecting)
	assert.Len(t, wm.snaps, 1)
	assert.NotNil(t, cmd, "a refresh tick should be scheduled")
}

func TestWatchModelRefreshStartsCollection(t *testing.T) {
	m := watchTestModel()
	m.collecting = false

	updated, cmd := m.Update(refreshMsg(time.Now()))
	wm := updated.(watchModel)

	assert.True(t, wm.collecting)
	assert.NotNil(t, cmd)
}

func TestWatchModelViewBeforeFirstSnapshot(t *testing.T) {
	m := watchTestModel()

	view := m.View()
	assert.Contains(t, view, "fleetwatch")
	assert.Contains(t, view, "waiting for first snapshot")
}

func TestWatchModelViewWithSnapshots(t *testing.T) {
	m := watchTestModel()
	m.collecting = false
	m.updated = time.Now()
	m.snaps = []metrics.Snapshot{
		{Host: config.Host{Name: "gpu1"}, Reachable: true, Uptime: 120},
	}

	view := m.View()
	assert.Contains(t, view, "gpu1")
	assert.Contains(t, view, "q quit")
}
