package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-roadsim/pkg/simulation"
)

// refreshInterval is how often the view re-reads the simulation, so timer
// ticks show up without a key press
const refreshInterval = 50 * time.Millisecond

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	graphBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("#FFFF00")).
			Padding(0, 1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2).
			MarginLeft(2)

	carStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	targetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FF00")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Help  key.Binding
	Quit  key.Binding
}

var keys = keyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k", "w"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j", "s"),
		key.WithHelp("↓/j", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("left", "h", "a"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l", "d"),
		key.WithHelp("→/l", "right"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Left, k.Right, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Help, k.Quit},
	}
}

type model struct {
	sim      *simulation.Simulation
	cfg      simulation.Config
	snap     simulation.Snapshot
	runID    string
	keys     keyMap
	help     help.Model
	width    int
	height   int
	message  string
	rejected bool
}

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func newModel(sim *simulation.Simulation, runID string) model {
	return model{
		sim:   sim,
		cfg:   sim.Config(),
		snap:  sim.Snapshot(),
		runID: runID,
		keys:  keys,
		help:  help.New(),
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

	case tickMsg:
		m.snap = m.sim.Snapshot()
		return m, tickCmd()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		case key.Matches(msg, m.keys.Up):
			m.move(simulation.Up)
		case key.Matches(msg, m.keys.Down):
			m.move(simulation.Down)
		case key.Matches(msg, m.keys.Left):
			m.move(simulation.Left)
		case key.Matches(msg, m.keys.Right):
			m.move(simulation.Right)
		}
	}

	return m, nil
}

func (m *model) move(dir simulation.Direction) {
	snap, ok := m.sim.ApplyDirection(dir)
	m.snap = snap
	m.rejected = !ok
	if ok {
		m.message = fmt.Sprintf("moved %s", dir)
	} else {
		m.message = fmt.Sprintf("no road %s", dir)
	}
}

// canvasSize fits the canvas to the window, keeping room for the stats box
func (m model) canvasSize() (int, int) {
	if m.width == 0 || m.height == 0 {
		return 60, 20
	}
	return max(m.width-50, 20), max(m.height-10, 8)
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("roadsim"))
	s.WriteString(dimStyle.Render("  run " + m.runID))
	s.WriteString("\n\n")

	cols, rows := m.canvasSize()
	canvas := strings.Join(renderCanvas(m.snap, m.cfg, cols, rows), "\n")
	canvas = strings.ReplaceAll(canvas, string(glyphCar), carStyle.Render(string(glyphCar)))
	canvas = strings.ReplaceAll(canvas, string(glyphTarget), targetStyle.Render(string(glyphTarget)))

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		graphBoxStyle.Render(canvas),
		statsBoxStyle.Render(m.renderStats()),
	))
	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return s.String()
}

func (m model) renderStats() string {
	snap := m.snap

	target := "-"
	if snap.HasTarget {
		target = fmt.Sprintf("%d", snap.Target)
	}
	timer := "stopped"
	if snap.TimerRunning {
		timer = "running"
	}
	status := successStyle.Render(snap.StatusText)
	if snap.Status == simulation.StatusAnomalyDetected {
		status = errorStyle.Render(snap.StatusText)
	}

	lines := []string{
		fmt.Sprintf("Position:     (%.0f, %.0f)", snap.Position.X, snap.Position.Y),
		fmt.Sprintf("Current node: %d", snap.CurrentNode),
		fmt.Sprintf("Target:       %s", target),
		fmt.Sprintf("Phase:        %s", snap.Phase),
		"",
		fmt.Sprintf("Current Cost: %.2f", snap.CurrentCost),
		fmt.Sprintf("Total Cost:   %.2f", snap.TotalCost),
		fmt.Sprintf("Timer:        %s", timer),
		"Status:       " + status,
	}
	if m.message != "" {
		msg := dimStyle.Render(m.message)
		if m.rejected {
			msg = errorStyle.Render(m.message)
		}
		lines = append(lines, "", msg)
	}
	return strings.Join(lines, "\n")
}
