package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/hieunt/fleetwatch/internal/config"
	"github.com/hieunt/fleetwatch/internal/errors"
	"github.com/hieunt/fleetwatch/internal/exec"
	"github.com/hieunt/fleetwatch/internal/logger"
	"github.com/hieunt/fleetwatch/internal/metrics"
	"github.com/spf13/cobra"
)

var watchIntervalFlag time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live fleet dashboard",
	Long: `Continuously refresh the fleet snapshot in a terminal dashboard.
Like 'status', this sends no alerts and touches no state.

Examples:
  fleetwatch watch
  fleetwatch watch --interval 10s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return watchCommand(watchIntervalFlag)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchIntervalFlag, "interval", 30*time.Second, "Refresh interval")
}

func watchCommand(interval time.Duration) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if interval < time.Second {
		return errors.New(errors.ErrConfig,
			"Refresh interval too short",
			"Use at least 1s; every refresh runs SSH commands against the whole fleet")
	}

	src := metrics.NewShellSource(exec.NewRouter(cfg), cfg.CommandTimeout, logger.Noop())

	m := newWatchModel(cfg, src, interval)
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

type snapshotMsg []metrics.Snapshot

type refreshMsg time.Time

type watchModel struct {
	cfg      *config.Config
	src      metrics.Source
	interval time.Duration

	spinner    spinner.Model
	snaps      []metrics.Snapshot
	collecting bool
	updated    time.Time
}

func newWatchModel(cfg *config.Config, src metrics.Source, interval time.Duration) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	return watchModel{
		cfg:        cfg,
		src:        src,
		interval:   interval,
		spinner:    sp,
		collecting: true,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.collect())
}

// collect fans out one parallel snapshot pass as a tea command.
func (m watchModel) collect() tea.Cmd {
	src, hosts := m.src, m.cfg.Hosts
	return func() tea.Msg {
		return snapshotMsg(metrics.Collect(context.Background(), src, hosts))
	}
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			if !m.collecting {
				m.collecting = true
				return m, m.collect()
			}
		}
		return m, nil

	case snapshotMsg:
		m.snaps = msg
		m.collecting = false
		m.updated = time.Now()
		return m, tea.Tick(m.interval, func(t time.Time) tea.Msg {
			return refreshMsg(t)
		})

	case refreshMsg:
		m.collecting = true
		return m, m.collect()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleWatchHelp = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func (m watchModel) View() string {
	title := styleTitle.Render("fleetwatch")
	if m.collecting {
		title += " " + m.spinner.View() + "polling"
	} else {
		title += styleWatchHelp.Render(fmt.Sprintf("  updated %s", m.updated.Format("15:04:05")))
	}

	body := "\n"
	if len(m.snaps) == 0 {
		body += styleWatchHelp.Render("waiting for first snapshot...") + "\n"
	} else {
		body += renderSnapshots(m.snaps, true)
	}

	help := styleWatchHelp.Render(fmt.Sprintf("refresh %s • r refresh now • q quit", m.interval))

	return title + "\n" + body + "\n" + help + "\n"
}
