package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// JobRow is the read-only snapshot of one job the monitor renders. It is
// intentionally decoupled from internal/jobtable's Job type so this package
// never imports the shell's process-control internals.
type JobRow struct {
	Jid     int
	Pid     int
	State   string
	Cmdline string
}

// JobSnapshotFunc returns the current set of live jobs; the monitor calls
// it on every refresh tick instead of holding a reference to the job table.
type JobSnapshotFunc func() []JobRow

type monitorKeyMap struct {
	Quit key.Binding
	Help key.Binding
}

func defaultMonitorKeyMap() monitorKeyMap {
	return monitorKeyMap{
		Quit: key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Help: key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

func (k monitorKeyMap) ShortHelp() []key.Binding { return []key.Binding{k.Quit, k.Help} }
func (k monitorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit, k.Help}}
}

type tickMsg time.Time

// jobMonitorModel is a read-only bubbletea view over the job table: it
// polls JobSnapshotFunc on a fixed interval and never sends a job-control
// signal itself, so accidentally leaving it open can't stop or kill a job.
type jobMonitorModel struct {
	snapshot JobSnapshotFunc
	rows     []JobRow
	keymap   monitorKeyMap
	help     help.Model
	width    int
	interval time.Duration
	quitting bool
}

func newJobMonitorModel(snapshot JobSnapshotFunc, interval time.Duration) jobMonitorModel {
	h := help.New()
	h.ShowAll = false
	return jobMonitorModel{
		snapshot: snapshot,
		rows:     snapshot(),
		keymap:   defaultMonitorKeyMap(),
		help:     h,
		interval: interval,
	}
}

func (m jobMonitorModel) tickCmd() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m jobMonitorModel) Init() tea.Cmd {
	return m.tickCmd()
}

func (m jobMonitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tickMsg:
		m.rows = m.snapshot()
		return m, m.tickCmd()
	}
	return m, nil
}

func (m jobMonitorModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(fmt.Sprintf("%-5s %-8s %-12s %s", "JID", "PID", "STATE", "COMMAND")))
	b.WriteString("\n")
	for _, r := range m.rows {
		style := JobRunningStyle
		switch r.State {
		case "Foreground":
			style = JobForegroundStyle
		case "Stopped":
			style = JobStoppedStyle
		}
		b.WriteString(fmt.Sprintf("%-5d %-8d %-12s %s\n", r.Jid, r.Pid, style.Render(r.State), r.Cmdline))
	}
	if len(m.rows) == 0 {
		b.WriteString(MutedStyle.Render("no jobs"))
		b.WriteString("\n")
	}
	b.WriteString(lipgloss.NewStyle().Foreground(currentTheme.Overlay).Render(m.help.View(m.keymap)))
	return b.String()
}

// RunJobMonitor opens the interactive, read-only `jobs -i` monitor
// (spec.md's `jobs -i` extension), refreshing the job table every
// refresh interval until the user presses q.
func RunJobMonitor(snapshot JobSnapshotFunc, refresh time.Duration) error {
	if refresh <= 0 {
		refresh = 500 * time.Millisecond
	}
	p := tea.NewProgram(newJobMonitorModel(snapshot, refresh), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
