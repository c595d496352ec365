package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-escape/internal/registry"
	"github.com/vovakirdan/tui-escape/internal/storage"
)

const (
	minWidthForStats = 84 // Minimum width to show the stats panel beside the table
	statsPanelWidth  = 26
	maxScores        = 100 // Max runs to load
)

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	boardFrameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	boardTabStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	boardActiveTabStyle = lipgloss.NewStyle().Bold(true).
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57")).
				Padding(0, 1)
	boardDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Scroll   key.Binding
	NextMode key.Binding
	PrevMode key.Binding
	Order    key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Scroll, k.NextMode, k.PrevMode, k.Order, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Scroll:   key.NewBinding(key.WithKeys("up", "k", "down", "j"), key.WithHelp("↑/↓", "scroll")),
		NextMode: key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab", "next mode")),
		PrevMode: key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab", "prev mode")),
		Order:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "latest/top")),
		Back:     key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ScoreboardModel lists the persisted runs of each scored mode.
type ScoreboardModel struct {
	modes     []registry.GameInfo
	current   int
	store     *storage.Store
	runs      []storage.Run
	stats     map[string]*storage.ModeStats
	latest    bool // latest run first instead of best runs
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	var modes []registry.GameInfo
	for _, g := range registry.List() {
		// Sandbox runs are never persisted
		if g.ID != "sandbox" {
			modes = append(modes, g)
		}
	}

	m := ScoreboardModel{
		modes:  modes,
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	if stats, err := store.Stats(); err == nil {
		m.stats = stats
	}
	m.table = m.newTable()
	m.reload()
	return m
}

func (m ScoreboardModel) wide() bool { return m.width >= minWidthForStats }

// newTable sizes the run table to the window.
func (m ScoreboardModel) newTable() table.Model {
	dateW := 14
	avail := m.width - 8
	if m.wide() {
		avail -= statsPanelWidth + 4
	}
	if avail > 56 {
		dateW = min(avail-42, 20)
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 4},
			{Title: "Score", Width: 8},
			{Title: "Level", Width: 6},
			{Title: "Result", Width: 8},
			{Title: "Date", Width: dateW},
		}),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// reload fetches the runs of the current mode and refills the table.
func (m *ScoreboardModel) reload() {
	m.runs = nil
	if len(m.modes) > 0 {
		mode := m.modes[m.current].ID
		var err error
		if m.latest {
			m.runs, err = m.store.Scores(mode)
		} else {
			m.runs, err = m.store.TopScores(mode, maxScores)
		}
		if err != nil {
			m.runs = nil
		}
		m.runs = m.runs[:min(len(m.runs), maxScores)]
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		result := "dead"
		if r.Won {
			result = "escaped"
		}
		rows[i] = table.Row{
			strconv.Itoa(i + 1),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.Level),
			result,
			r.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.NextMode):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.PrevMode):
			m.step(-1)
			return m, nil
		case key.Matches(msg, m.keys.Order):
			m.latest = !m.latest
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table = m.newTable()
		m.reload()
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// step moves to the next or previous mode, wrapping around.
func (m *ScoreboardModel) step(d int) {
	if len(m.modes) == 0 {
		return
	}
	m.current = (m.current + d + len(m.modes)) % len(m.modes)
	m.reload()
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	heading := "HIGH SCORES"
	if m.latest {
		heading = "LATEST RUNS"
	}

	var b strings.Builder
	b.WriteString(centerText(boardTitleStyle.Render(heading), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.renderTabs(), m.width))
	b.WriteString("\n\n")

	body := boardFrameStyle.Render(m.renderRuns())
	if m.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, "  ", boardFrameStyle.Width(statsPanelWidth).Render(m.renderStats()))
	}
	b.WriteString(body)
	b.WriteString("\n")
	if !m.wide() {
		b.WriteString(boardDimStyle.Render(m.renderStats()))
		b.WriteString("\n")
	}
	b.WriteString(boardDimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m ScoreboardModel) renderTabs() string {
	tabs := make([]string, len(m.modes))
	for i, g := range m.modes {
		if i == m.current {
			tabs[i] = boardActiveTabStyle.Render(g.Title)
		} else {
			tabs[i] = boardTabStyle.Render(g.Title)
		}
	}
	line := strings.Join(tabs, " ")
	if lipgloss.Width(line) > m.width-4 && len(m.modes) > 0 {
		return fmt.Sprintf("< %s >", m.modes[m.current].Title)
	}
	return line
}

func (m ScoreboardModel) renderRuns() string {
	if len(m.runs) == 0 {
		return boardDimStyle.Italic(true).Padding(2, 4).
			Render("No runs recorded yet.\nEscape once to set a high score!")
	}
	return m.table.View()
}

// renderStats summarizes every run of the current mode.
func (m ScoreboardModel) renderStats() string {
	if len(m.modes) == 0 {
		return ""
	}
	st := m.stats[m.modes[m.current].ID]
	if st == nil {
		return "No runs yet"
	}
	lines := []string{
		fmt.Sprintf("Runs       %d", st.RunsCount),
		fmt.Sprintf("Escapes    %d", st.Wins),
		fmt.Sprintf("Best       %d", st.HighScore),
		fmt.Sprintf("Best level %d", st.BestLevel),
		fmt.Sprintf("Average    %.1f", st.AvgScore),
	}
	if !st.LastPlayed.IsZero() {
		lines = append(lines, "Last       "+st.LastPlayed.Format("Jan 02 15:04"))
	}
	if m.wide() {
		return strings.Join(lines, "\n")
	}
	return strings.Join(lines, "  ")
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(
		NewScoreboardModel(store, width, height),
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
