// Package monitor holds the polling core: the per-host reachability state
// machine, temperature threshold evaluation, and reboot detection via uptime
// regression. One RunOnce call is one poll pass; the process is expected to
// be invoked by an external scheduler and exit.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/hieunt/fleetwatch/internal/alert"
	"github.com/hieunt/fleetwatch/internal/config"
	"github.com/hieunt/fleetwatch/internal/logger"
	"github.com/hieunt/fleetwatch/internal/metrics"
	"github.com/hieunt/fleetwatch/internal/state"
)

// Monitor evaluates the configured fleet against thresholds and tracks
// down/uptime state across runs. It owns no goroutines and no globals;
// independent Monitor instances can run side by side.
type Monitor struct {
	hosts   []config.Host
	metrics metrics.Source
	alerts  alert.Sink
	store   state.Store
	log     logger.Logger

	cpuThreshold float64
	gpuThreshold float64
	tolerance    float64 // reboot grace window, seconds

	now func() time.Time
}

// New builds a Monitor from config and its collaborators.
func New(cfg *config.Config, src metrics.Source, sink alert.Sink, store state.Store, log logger.Logger) *Monitor {
	if log == nil {
		log = logger.Noop()
	}
	return &Monitor{
		hosts:        cfg.Hosts,
		metrics:      src,
		alerts:       sink,
		store:        store,
		log:          log,
		cpuThreshold: cfg.Thresholds.CPU,
		gpuThreshold: cfg.Thresholds.GPU,
		tolerance:    cfg.RebootTolerance.Seconds(),
		now:          time.Now,
	}
}

// SetClock overrides the time source, for tests.
func (m *Monitor) SetClock(now func() time.Time) {
	m.now = now
}

// RunOnce performs one poll pass: load state, evaluate every host in
// configured order, persist state incrementally. Individual host failures
// degrade to sentinels inside the metrics source, so a pass always covers
// the whole fleet and always returns nil.
func (m *Monitor) RunOnce(ctx context.Context) error {
	lastUptime := make(map[string]float64)
	downSince := make(map[string]int64)
	m.store.LoadMap(state.KeyLastUptime, &lastUptime)
	m.store.LoadMap(state.KeyDownSince, &downSince)

	for _, host := range m.hosts {
		m.evaluateHost(ctx, host, lastUptime, downSince)
	}

	return nil
}

// evaluateHost runs the full check sequence for one host, mutating and
// persisting the shared state maps.
func (m *Monitor) evaluateHost(ctx context.Context, host config.Host, lastUptime map[string]float64, downSince map[string]int64) {
	now := m.now()

	if !m.metrics.IsReachable(ctx, host) {
		if since, ok := downSince[host.Name]; ok {
			// Repeat every poll while down. Cadence control is the
			// scheduler's job, and a missed prolonged-outage alert is
			// worse than a noisy one.
			elapsed := now.Unix() - since
			m.alerts.Send(ctx, fmt.Sprintf(":warning: **%s** has been down for %d seconds!", host.Name, elapsed))
		} else {
			downSince[host.Name] = now.Unix()
			m.saveMap(state.KeyDownSince, downSince)
			m.alerts.Send(ctx, fmt.Sprintf(":warning: **%s** is down!", host.Name))
		}
		m.log.Debug("%s unreachable, skipping metric checks", host.Name)
		return
	}

	if since, ok := downSince[host.Name]; ok {
		elapsed := now.Unix() - since
		delete(downSince, host.Name)
		m.saveMap(state.KeyDownSince, downSince)
		m.alerts.Send(ctx, fmt.Sprintf(":white_check_mark: **%s** is back up after %d seconds of downtime.", host.Name, elapsed))
	}

	m.checkTemperatures(ctx, host)

	uptime := m.metrics.UptimeSeconds(ctx, host)
	if last, ok := lastUptime[host.Name]; ok && uptime+m.tolerance < last {
		// A 0.0 uptime sentinel after a long prior uptime lands here too.
		// Accepted false-positive risk of best-effort metrics collection.
		m.alerts.Send(ctx, fmt.Sprintf(":warning: **%s** rebooted unexpectedly!", host.Name))
	}
	lastUptime[host.Name] = uptime
	m.saveMap(state.KeyLastUptime, lastUptime)
}

// checkTemperatures alerts on strict threshold breaches. A reading of
// exactly 0 is the "unavailable" sentinel and never alerts, even if a
// threshold were somehow configured at or below zero.
func (m *Monitor) checkTemperatures(ctx context.Context, host config.Host) {
	temps := m.metrics.Temperatures(ctx, host)

	if temps.CPU != 0 && temps.CPU > m.cpuThreshold {
		m.alerts.Send(ctx, fmt.Sprintf(":hot_face: **%s** CPU temp %.1f°C exceeded threshold (%.1f°C)!",
			host.Name, temps.CPU, m.cpuThreshold))
	}

	if temps.GPU != 0 && temps.GPU > m.gpuThreshold {
		procs := m.metrics.GpuProcesses(ctx, host)
		m.alerts.Send(ctx, fmt.Sprintf(":hot_face: **%s** GPU temp %.1f°C exceeded threshold (%.1f°C)!\n**Processes using the GPU:**\n%s",
			host.Name, temps.GPU, m.gpuThreshold, FormatGpuProcesses(procs)))
	}
}

func (m *Monitor) saveMap(key string, v any) {
	if err := m.store.SaveMap(key, v); err != nil {
		m.log.Error("failed to persist %s: %v", key, err)
	}
}
