// Package metrics reads reachability, temperature, GPU process, and uptime
// data from fleet hosts by running shell commands through an exec.Runner.
// Every call degrades to a sentinel or empty value on failure; nothing here
// returns an error to the caller.
package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/hieunt/fleetwatch/internal/config"
	"github.com/hieunt/fleetwatch/internal/exec"
	"github.com/hieunt/fleetwatch/internal/logger"
)

// TemperatureReading holds CPU and GPU temperatures in °C.
// 0.0 is the sentinel for "could not be determined" and must never be
// treated as a real reading.
type TemperatureReading struct {
	CPU float64
	GPU float64
}

// GpuProcess describes one process currently using a GPU. Fields stay as
// strings: they are only ever formatted into alert text.
type GpuProcess struct {
	PID         string
	Username    string
	ProcessName string
	GpuMemMB    string
}

// Source is the metrics capability consumed by the monitor core.
// Implementations never return errors; failures map to sentinel values.
type Source interface {
	// IsReachable reports whether the host responds to a trivial command.
	IsReachable(ctx context.Context, host config.Host) bool

	// Temperatures returns CPU/GPU temperatures. A sensor that can't be
	// read yields the 0.0 sentinel for that sensor only.
	Temperatures(ctx context.Context, host config.Host) TemperatureReading

	// GpuProcesses returns processes using the GPU, empty on failure.
	GpuProcesses(ctx context.Context, host config.Host) []GpuProcess

	// UptimeSeconds returns system uptime, 0.0 on failure.
	UptimeSeconds(ctx context.Context, host config.Host) float64
}

// Shell commands issued per metric, same probes the original deployment used.
const (
	reachableCmd   = "uptime"
	cpuTempCmd     = `sensors | grep 'Package id 0:' | awk '{print $4}'`
	gpuTempCmd     = "nvidia-smi --query-gpu=temperature.gpu --format=csv,noheader,nounits"
	gpuProcsCmd    = "nvidia-smi --query-compute-apps=pid,process_name,used_gpu_memory --format=csv,noheader,nounits"
	uptimeCmd      = "cat /proc/uptime"
	procUserPrefix = "ps -o user= -p "
)

// ShellSource implements Source by running shell commands on the host.
type ShellSource struct {
	runner  exec.Runner
	timeout time.Duration
	log     logger.Logger
}

// NewShellSource builds a Source on top of the given runner. Every command
// is bounded by timeout so a hung host can't stall the whole pass.
func NewShellSource(runner exec.Runner, timeout time.Duration, log logger.Logger) *ShellSource {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Noop()
	}
	return &ShellSource{runner: runner, timeout: timeout, log: log}
}

func (s *ShellSource) run(ctx context.Context, host config.Host, cmd string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.runner.Run(ctx, host, cmd)
}

// IsReachable checks the host by running 'uptime' on it.
func (s *ShellSource) IsReachable(ctx context.Context, host config.Host) bool {
	if _, err := s.run(ctx, host, reachableCmd); err != nil {
		s.log.Debug("reachability check failed for %s: %v", host.Name, err)
		return false
	}
	return true
}

// Temperatures reads CPU package and GPU temperatures. Multi-GPU hosts
// report the hottest GPU.
func (s *ShellSource) Temperatures(ctx context.Context, host config.Host) TemperatureReading {
	var reading TemperatureReading

	if out, err := s.run(ctx, host, cpuTempCmd); err == nil {
		if temp, perr := ParseCPUTemp(out); perr == nil {
			reading.CPU = temp
		} else {
			s.log.Debug("cpu temp parse failed for %s: %v", host.Name, perr)
		}
	} else {
		s.log.Debug("cpu temp read failed for %s: %v", host.Name, err)
	}

	if out, err := s.run(ctx, host, gpuTempCmd); err == nil {
		reading.GPU = ParseMaxGPUTemp(out)
	} else {
		s.log.Debug("gpu temp read failed for %s: %v", host.Name, err)
	}

	return reading
}

// GpuProcesses lists compute processes on the host's GPUs. The owning user
// is resolved per PID with a follow-up ps call; "unknown" when that fails.
func (s *ShellSource) GpuProcesses(ctx context.Context, host config.Host) []GpuProcess {
	out, err := s.run(ctx, host, gpuProcsCmd)
	if err != nil {
		s.log.Debug("gpu process list failed for %s: %v", host.Name, err)
		return nil
	}

	procs := ParseGpuProcesses(out)
	for i := range procs {
		user, err := s.run(ctx, host, procUserPrefix+procs[i].PID)
		if err != nil || strings.TrimSpace(user) == "" {
			continue
		}
		procs[i].Username = strings.TrimSpace(user)
	}
	return procs
}

// UptimeSeconds reads /proc/uptime. Returns the 0.0 sentinel on any failure,
// which after a long prior uptime will register as a reboot; that false
// positive is accepted rather than suppressing real reboot detection.
func (s *ShellSource) UptimeSeconds(ctx context.Context, host config.Host) float64 {
	out, err := s.run(ctx, host, uptimeCmd)
	if err != nil {
		s.log.Debug("uptime read failed for %s: %v", host.Name, err)
		return 0
	}
	uptime, perr := ParseUptime(out)
	if perr != nil {
		s.log.Debug("uptime parse failed for %s: %v", host.Name, perr)
		return 0
	}
	return uptime
}
