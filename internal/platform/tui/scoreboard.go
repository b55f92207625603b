package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/chrysopoeia/internal/config"
	"github.com/vovakirdan/chrysopoeia/internal/core"
	"github.com/vovakirdan/chrysopoeia/internal/storage"
	"github.com/vovakirdan/chrysopoeia/internal/ui"
)

// Scoreboard layout constants
const (
	minWidthForSidebar = 90  // Minimum width to show song list sidebar
	sidebarWidth       = 24  // Width of song list sidebar
	maxRuns            = 100 // Max runs to load
)

var (
	accent = ui.TerminalColor(core.ColorLight)
	muted  = ui.TerminalColor(core.ColorDark)
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextSong key.Binding
	PrevSong key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextSong, k.PrevSong, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextSong, k.PrevSong},
		{k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w"),
			key.WithHelp("↑/w", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s"),
			key.WithHelp("↓/s", "scroll down"),
		),
		NextSong: key.NewBinding(
			key.WithKeys("tab", "right", "d"),
			key.WithHelp("tab/→", "next song"),
		),
		PrevSong: key.NewBinding(
			key.WithKeys("shift+tab", "left", "a"),
			key.WithHelp("S-tab/←", "prev song"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// ScoreboardModel lists the best combat runs per song.
type ScoreboardModel struct {
	songs       []config.SongEntry
	cursor      int
	store       *storage.Store
	runs        []storage.Run
	stats       *storage.SongStats
	err         error
	table       table.Model
	help        help.Model
	keys        ScoreboardKeyMap
	width       int
	height      int
	quitting    bool
	showSidebar bool
}

// NewScoreboardModel creates a scoreboard over the given songs.
func NewScoreboardModel(store *storage.Store, songs []config.SongEntry, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		songs:       songs,
		store:       store,
		keys:        DefaultScoreboardKeyMap(),
		help:        help.New(),
		width:       width,
		height:      height,
		showSidebar: width >= minWidthForSidebar,
	}
	m.table = m.createTable()
	m.loadRuns()
	return m
}

// Song returns the selected song entry.
func (m ScoreboardModel) Song() (config.SongEntry, bool) {
	if len(m.songs) == 0 {
		return config.SongEntry{}, false
	}
	return m.songs[m.cursor], true
}

// Runs returns the runs shown for the selected song.
func (m ScoreboardModel) Runs() []storage.Run {
	return m.runs
}

func (m *ScoreboardModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "Rank", Width: 5},
		{Title: "Score", Width: 8},
		{Title: "Hits", Width: 6},
		{Title: "Miss", Width: 6},
		{Title: "Streak", Width: 7},
		{Title: "Acc", Width: 6},
		{Title: "Date", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(core.Max(m.height-9, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(ui.TerminalColor(core.ColorBlack)).
		Background(accent).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m *ScoreboardModel) loadRuns() {
	m.runs, m.stats, m.err = nil, nil, nil
	song, ok := m.Song()
	if ok && m.store != nil {
		m.runs, m.err = m.store.TopRuns(song.ID, maxRuns)
		if m.err == nil {
			m.stats, m.err = m.store.SongStats(song.ID)
		}
	}
	m.updateTableRows()
}

func (m *ScoreboardModel) updateTableRows() {
	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			fmt.Sprintf("%d", r.Score),
			fmt.Sprintf("%d", r.Hits),
			fmt.Sprintf("%d", r.Misses),
			fmt.Sprintf("%d", r.BestStreak),
			fmt.Sprintf("%.0f%%", r.Accuracy()*100),
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) move(delta int) {
	if len(m.songs) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.songs)) % len(m.songs)
	m.loadRuns()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextSong):
			m.move(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevSong):
			m.move(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.showSidebar = m.width >= minWidthForSidebar
		m.table = m.createTable()
		m.updateTableRows()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(accent)
	title := "HIGH SCORES"
	if song, ok := m.Song(); ok {
		title = fmt.Sprintf("HIGH SCORES - %s", songTitle(song))
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, titleStyle.Render(title)))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, m.statsLine()))
	b.WriteString("\n\n")

	if m.showSidebar {
		b.WriteString(m.renderWideLayout())
	} else {
		b.WriteString(m.renderNarrowLayout())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))

	return b.String()
}

func (m ScoreboardModel) statsLine() string {
	style := lipgloss.NewStyle().Foreground(muted)
	switch {
	case m.err != nil:
		return style.Render("error: " + m.err.Error())
	case m.stats == nil:
		return ""
	}
	last := "never"
	if !m.stats.LastPlayed.IsZero() {
		last = m.stats.LastPlayed.Format("Jan 02 15:04")
	}
	return style.Render(fmt.Sprintf("plays %d · runs %d · best %d · streak %d · last %s",
		m.stats.Plays, m.stats.Runs, m.stats.BestScore, m.stats.BestStreak, last))
}

func (m ScoreboardModel) renderWideLayout() string {
	sidebarStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Width(sidebarWidth).
		Padding(0, 1)

	var sidebar strings.Builder
	sidebar.WriteString("Songs\n")
	sidebar.WriteString(strings.Repeat("-", sidebarWidth-4))
	sidebar.WriteString("\n")

	for i, s := range m.songs {
		cursor := "  "
		style := lipgloss.NewStyle()
		if i == m.cursor {
			cursor = "> "
			style = style.Bold(true).Foreground(accent)
		}
		sidebar.WriteString(style.Render(cursor + truncate(songTitle(s), sidebarWidth-6)))
		sidebar.WriteString("\n")
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		sidebarStyle.Render(sidebar.String()), "  ", tableStyle.Render(m.renderTableContent()))
}

func (m ScoreboardModel) renderNarrowLayout() string {
	tab := "no songs"
	if song, ok := m.Song(); ok {
		tab = fmt.Sprintf("< %s >", songTitle(song))
	}

	tableStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1)

	return lipgloss.JoinVertical(lipgloss.Center,
		tab, "", tableStyle.Render(m.renderTableContent()))
}

func (m ScoreboardModel) renderTableContent() string {
	if len(m.runs) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(muted).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No runs recorded yet.\nPlay the song to set a high score!")
	}
	return m.table.View()
}

func songTitle(s config.SongEntry) string {
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}

// RunScoreboard runs the scoreboard screen until the user quits.
func RunScoreboard(store *storage.Store, songs []config.SongEntry, width, height int) error {
	p := tea.NewProgram(
		NewScoreboardModel(store, songs, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
