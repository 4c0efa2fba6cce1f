package metrics

import (
	"context"
	"sync"

	"github.com/hieunt/fleetwatch/internal/config"
)

// Snapshot is a point-in-time view of one host, used by the status and
// watch commands. The monitor core does not use snapshots; it polls hosts
// sequentially so state writes stay uncontended.
type Snapshot struct {
	Host      config.Host
	Reachable bool
	Temps     TemperatureReading
	Uptime    float64
}

// Collect gathers snapshots for all hosts in parallel and returns them in
// the configured host order. Snapshots are read-only, so unlike the
// monitor's sequential pass, fanning out here is safe.
func Collect(ctx context.Context, src Source, hosts []config.Host) []Snapshot {
	snaps := make([]Snapshot, len(hosts))

	var wg sync.WaitGroup
	for i, host := range hosts {
		wg.Add(1)
		go func(i int, host config.Host) {
			defer wg.Done()
			snap := Snapshot{Host: host}
			if src.IsReachable(ctx, host) {
				snap.Reachable = true
				snap.Temps = src.Temperatures(ctx, host)
				snap.Uptime = src.UptimeSeconds(ctx, host)
			}
			snaps[i] = snap
		}(i, host)
	}
	wg.Wait()

	return snaps
}
