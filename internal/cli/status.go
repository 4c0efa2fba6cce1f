package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hieunt/fleetwatch/internal/exec"
	"github.com/hieunt/fleetwatch/internal/logger"
	"github.com/hieunt/fleetwatch/internal/metrics"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a one-shot snapshot of the fleet",
	Long: `Probe every configured host in parallel and print reachability,
temperatures, and uptime as a table. Sends no alerts and touches no state.

Examples:
  fleetwatch status
  fleetwatch status --config /etc/fleetwatch.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return statusCommand()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func statusCommand() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	src := metrics.NewShellSource(exec.NewRouter(cfg), cfg.CommandTimeout, logger.NewEnvLogger("[status]"))
	snaps := metrics.Collect(context.Background(), src, cfg.Hosts)

	fmt.Print(renderSnapshots(snaps, colorEnabled()))
	return nil
}

// colorEnabled reports whether styled output makes sense: stdout is a
// terminal and it supports at least ANSI colors.
func colorEnabled() bool {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return termenv.ColorProfile() != termenv.Ascii
}

// Status table styles, ANSI palette for terminal compatibility.
var (
	styleHeader = lipgloss.NewStyle().Bold(true)
	styleUp     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleDown   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleMuted  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// renderSnapshots formats fleet snapshots as an aligned table.
func renderSnapshots(snaps []metrics.Snapshot, color bool) string {
	var b strings.Builder

	header := fmt.Sprintf("%-16s %-6s %8s %8s %12s", "HOST", "STATE", "CPU", "GPU", "UPTIME")
	if color {
		header = styleHeader.Render(header)
	}
	b.WriteString(header + "\n")

	for _, s := range snaps {
		if !s.Reachable {
			line := fmt.Sprintf("%-16s %-6s %8s %8s %12s", s.Host.Name, "down", "-", "-", "-")
			if color {
				line = styleDown.Render(line)
			}
			b.WriteString(line + "\n")
			continue
		}

		line := fmt.Sprintf("%-16s %-6s %8s %8s %12s",
			s.Host.Name, "up",
			formatTemp(s.Temps.CPU), formatTemp(s.Temps.GPU),
			formatUptime(s.Uptime))
		if color {
			line = styleUp.Render(fmt.Sprintf("%-16s %-6s", s.Host.Name, "up")) +
				styleMuted.Render(fmt.Sprintf(" %8s %8s %12s",
					formatTemp(s.Temps.CPU), formatTemp(s.Temps.GPU), formatUptime(s.Uptime)))
		}
		b.WriteString(line + "\n")
	}

	return b.String()
}

// formatTemp renders a temperature, "-" for the unavailable sentinel.
func formatTemp(temp float64) string {
	if temp == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f°C", temp)
}

// formatUptime renders uptime seconds compactly, e.g. "3d4h" or "12m".
func formatUptime(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	total := int64(seconds)
	days := total / 86400
	hours := (total % 86400) / 3600
	minutes := (total % 3600) / 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd%dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh%dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}
