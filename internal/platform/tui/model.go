package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/registry"
)

// Lines reserved under the game screen for the key help.
const (
	shortHelpLines = 1
	fullHelpLines  = 5
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// Model is the Bubble Tea model running one Director.
type Model struct {
	ctx      context.Context
	director *registry.Director
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	input    core.InputFrame
	last     time.Time
	width    int
	height   int
	quitting bool
}

// NewModel creates a model for the director. The screen starts at the size
// in the world's runtime config and follows window resizes.
func NewModel(ctx context.Context, d *registry.Director) Model {
	cfg := d.World().Config
	m := Model{
		ctx:      ctx,
		director: d,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		input:    core.NewInputFrame(),
		width:    cfg.ScreenW,
		height:   cfg.ScreenH,
	}
	m.screen = core.NewScreen(m.width, m.screenHeight())
	return m
}

func (m Model) screenHeight() int {
	lines := shortHelpLines
	if m.help.ShowAll {
		lines = fullHelpLines
	}
	return core.Max(m.height-lines, 1)
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("Chrysopoeia"),
		tickCmd(m.director.World().Config.TickRate),
	)
}

// Update handles messages and advances the game on ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		w := m.director.World()
		w.Config.ScreenW, w.Config.ScreenH = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.screen.Resize(m.width, m.screenHeight())
		return m, nil

	case TickMsg:
		return m.handleTick(time.Time(msg))
	}

	return m, nil
}

// handleKey records the action for the next frame. Quit is handled at once.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) {
		m.help.ShowAll = !m.help.ShowAll
		m.screen.Resize(m.width, m.screenHeight())
		return m, nil
	}

	switch a := m.keys.Action(msg); a {
	case core.ActionQuit:
		return m.quit()
	case core.ActionNone:
	default:
		m.input.Set(a)
	}
	return m, nil
}

// handleTick runs one frame covering the real time since the previous tick.
func (m Model) handleTick(now time.Time) (tea.Model, tea.Cmd) {
	if m.quitting {
		return m, nil
	}

	var dt time.Duration
	if !m.last.IsZero() {
		dt = now.Sub(m.last)
	}
	m.last = now

	w := m.director.World()
	if err := m.director.Frame(m.ctx, dt, m.input); err != nil {
		w.Logger.Error("frame failed", "state", w.State(), "error", err)
	}
	m.input.Clear()

	if w.Quitting() {
		return m.quit()
	}
	return m, tickCmd(w.Config.TickRate)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	if !m.quitting {
		m.director.Close()
		m.quitting = true
	}
	return m, tea.Quit
}

// Quitting reports whether the model has stopped.
func (m Model) Quitting() bool {
	return m.quitting
}

// View renders the active scene followed by the key help.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.director.Render(m.screen)
	return RenderScreen(m.screen) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Run starts the Bubble Tea program for the director on the local terminal.
// The active scene is exited even when the program is killed.
func Run(ctx context.Context, d *registry.Director) error {
	p := tea.NewProgram(
		NewModel(ctx, d),
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if m, ok := final.(Model); !ok || !m.Quitting() {
		d.Close()
	}
	return err
}
