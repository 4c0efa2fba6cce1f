package metrics

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCPUTemp parses the lm-sensors package temperature field, e.g.
// "+88.0°C" or "88.0".
func ParseCPUTemp(output string) (float64, error) {
	s := strings.TrimSpace(output)
	if s == "" {
		return 0, fmt.Errorf("empty sensors output")
	}
	s = strings.TrimPrefix(s, "+")
	s = strings.TrimSuffix(s, "°C")
	s = strings.TrimSpace(s)

	temp, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse cpu temperature %q: %w", output, err)
	}
	return temp, nil
}

// ParseMaxGPUTemp parses nvidia-smi temperature.gpu output (one line per
// GPU) and returns the hottest reading. Returns 0 when no line parses,
// which is the "unavailable" sentinel.
func ParseMaxGPUTemp(output string) float64 {
	var max float64
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		temp, err := strconv.ParseFloat(line, 64)
		if err != nil {
			continue
		}
		if temp > max {
			max = temp
		}
	}
	return max
}

// ParseUptime parses /proc/uptime, whose first field is uptime in seconds.
func ParseUptime(output string) (float64, error) {
	fields := strings.Fields(output)
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty uptime output")
	}
	uptime, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse uptime %q: %w", fields[0], err)
	}
	return uptime, nil
}

// ParseGpuProcesses parses nvidia-smi compute-apps CSV output:
// one "pid, process_name, used_gpu_memory" line per process.
// Malformed lines are skipped. Username starts as "unknown"; the caller
// resolves it per PID.
func ParseGpuProcesses(output string) []GpuProcess {
	var procs []GpuProcess
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 3 {
			continue
		}
		procs = append(procs, GpuProcess{
			PID:         strings.TrimSpace(parts[0]),
			Username:    "unknown",
			ProcessName: strings.TrimSpace(parts[1]),
			GpuMemMB:    strings.TrimSpace(parts[2]),
		})
	}
	return procs
}
