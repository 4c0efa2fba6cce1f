package monitor

import (
	"fmt"
	"strings"

	"github.com/hieunt/fleetwatch/internal/metrics"
)

// FormatGpuProcesses renders the GPU process list for an alert body, one
// itemized line per process.
func FormatGpuProcesses(procs []metrics.GpuProcess) string {
	if len(procs) == 0 {
		return "No GPU processes found."
	}

	lines := make([]string, 0, len(procs))
	for _, p := range procs {
		lines = append(lines, fmt.Sprintf("- PID %s, User: %s, Process: %s, GPU Mem: %s MB",
			p.PID, p.Username, p.ProcessName, p.GpuMemMB))
	}
	return strings.Join(lines, "\n")
}
