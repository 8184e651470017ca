package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"midi-clock/clock"
	"midi-clock/input"
	"midi-clock/widgets"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	runningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff00"))
	stoppedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff0000"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
)

// Model is the terminal front end: it mirrors the LED matrix and feeds
// keyboard presses to the input controller.
type Model struct {
	Transport *clock.Transport
	Screen    *Screen
	Keys      *Keys
	Ports     []string
	quitting  bool
}

// FrameMsg signals that a new frame is available.
type FrameMsg struct{}

// NewModel builds the terminal model.
func NewModel(t *clock.Transport, screen *Screen, keys *Keys, ports []string) Model {
	return Model{
		Transport: t,
		Screen:    screen,
		Keys:      keys,
		Ports:     ports,
	}
}

// ListenForFrames waits for the display loop to push a frame.
func ListenForFrames(s *Screen) tea.Cmd {
	return func() tea.Msg {
		<-s.updates
		return FrameMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForFrames(m.Screen)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "up", "k":
			m.Keys.Press(input.Up)
		case "down", "j":
			m.Keys.Press(input.Down)
		case "left", "h":
			m.Keys.Press(input.Left)
		case "right", "l":
			m.Keys.Press(input.Right)
		case " ", "enter":
			m.Keys.Press(input.Press)
		}
		return m, nil

	case FrameMsg:
		return m, ListenForFrames(m.Screen)
	}
	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("midi-clock"))
	b.WriteString("\n\n")
	b.WriteString(widgets.RenderMatrix(m.Screen.Frame()))
	b.WriteString("\n\n")

	bpm, running := m.Transport.Snapshot()
	status := stoppedStyle.Render("■ STOPPED")
	if running {
		status = runningStyle.Render("▶ RUNNING")
	}
	b.WriteString(fmt.Sprintf("BPM: %.1f  %s\n\n", bpm, status))

	if len(m.Ports) == 0 {
		b.WriteString(mutedStyle.Render("no MIDI outputs (running silent)"))
	} else {
		b.WriteString(mutedStyle.Render("outputs: " + strings.Join(m.Ports, ", ")))
	}
	b.WriteString("\n\n")

	b.WriteString(widgets.RenderKeyHelp([]widgets.KeySection{
		{
			Title: "Controls",
			Keys: []widgets.KeyBinding{
				{Key: "up/down", Desc: "tempo ±1.0 (hold to repeat)"},
				{Key: "left/right", Desc: "tempo ±0.1"},
				{Key: "space/enter", Desc: "start/stop"},
				{Key: "q", Desc: "quit"},
			},
		},
	}))
	b.WriteString("\n")
	return b.String()
}
