package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/drop-duel/internal/storage"
)

// maxHistoryRows is how many rows each tab loads.
const maxHistoryRows = 100

// HistorySource is the read side of the match store.
type HistorySource interface {
	RecentMatches(limit int) ([]storage.MatchResult, error)
	TopScores(limit int) ([]storage.ScoreEntry, error)
}

// historyTab selects what the history table shows.
type historyTab int

const (
	tabRecent historyTab = iota
	tabTopScores
)

func (t historyTab) title() string {
	if t == tabTopScores {
		return "Top Scores"
	}
	return "Recent Matches"
}

// HistoryKeyMap defines the key bindings for the history browser.
type HistoryKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	NextTab key.Binding
	Reload  key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k HistoryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.NextTab, k.Reload, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k HistoryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.NextTab, k.Reload, k.Quit},
	}
}

// DefaultHistoryKeyMap returns default key bindings.
func DefaultHistoryKeyMap() HistoryKeyMap {
	return HistoryKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab", "left", "right", "h", "l"),
			key.WithHelp("tab", "switch view"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// HistoryModel browses stored matches and top scores.
type HistoryModel struct {
	source HistorySource
	tab    historyTab
	rows   []table.Row
	err    error

	table  table.Model
	help   help.Model
	keys   HistoryKeyMap
	width  int
	height int

	quitting bool
}

// NewHistoryModel creates a history browser over source.
func NewHistoryModel(source HistorySource, width, height int) HistoryModel {
	m := HistoryModel{
		source: source,
		keys:   DefaultHistoryKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m *HistoryModel) columns() []table.Column {
	if m.tab == tabTopScores {
		return []table.Column{
			{Title: "Rank", Width: 6},
			{Title: "Player", Width: 16},
			{Title: "Score", Width: 8},
			{Title: "Result", Width: 7},
			{Title: "Date", Width: 14},
		}
	}
	return []table.Column{
		{Title: "Date", Width: 14},
		{Title: "Player 1", Width: 14},
		{Title: "Score", Width: 7},
		{Title: "Player 2", Width: 14},
		{Title: "Score", Width: 7},
		{Title: "Winner", Width: 14},
		{Title: "Time", Width: 7},
	}
}

func (m *HistoryModel) createTable() table.Model {
	height := m.height - 8
	if height < 3 {
		height = 3
	}
	t := table.New(
		table.WithColumns(m.columns()),
		table.WithFocused(true),
		table.WithHeight(height),
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

// load fills the table for the current tab.
func (m *HistoryModel) load() {
	m.err = nil
	m.rows = nil
	if m.source != nil {
		switch m.tab {
		case tabTopScores:
			scores, err := m.source.TopScores(maxHistoryRows)
			m.err = err
			m.rows = scoreRows(scores)
		default:
			matches, err := m.source.RecentMatches(maxHistoryRows)
			m.err = err
			m.rows = matchRows(matches)
		}
	}
	// Columns must change before rows with a different width are set.
	m.table.SetRows(nil)
	m.table.SetColumns(m.columns())
	m.table.SetRows(m.rows)
	m.table.GotoTop()
}

func matchRows(matches []storage.MatchResult) []table.Row {
	rows := make([]table.Row, len(matches))
	for i, mr := range matches {
		winner := mr.WinnerName()
		if winner == "" {
			winner = "-"
		}
		rows[i] = table.Row{
			mr.CreatedAt.Format("Jan 02 15:04"),
			mr.Player1Name,
			fmt.Sprintf("%d", mr.Player1Score),
			mr.Player2Name,
			fmt.Sprintf("%d", mr.Player2Score),
			winner,
			formatDuration(mr.Duration),
		}
	}
	return rows
}

func scoreRows(scores []storage.ScoreEntry) []table.Row {
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		result := "lost"
		if s.Won {
			result = "won"
		}
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			s.PlayerName,
			fmt.Sprintf("%d", s.Score),
			result,
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	return rows
}

func formatDuration(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Init initializes the history model.
func (m HistoryModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.NextTab):
			m.tab = (m.tab + 1) % 2
			m.load()
			return m, nil

		case key.Matches(msg, m.keys.Reload):
			m.load()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.table.SetRows(m.rows)
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the history browser.
func (m HistoryModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("MATCH HISTORY - "+m.tab.title(), m.width)))
	b.WriteString("\n\n")

	var tabs []string
	for _, t := range []historyTab{tabRecent, tabTopScores} {
		if t == m.tab {
			tabs = append(tabs, activeTabStyle.Render(t.title()))
		} else {
			tabs = append(tabs, dimStyle.Render(" "+t.title()+" "))
		}
	}
	b.WriteString(centerText(strings.Join(tabs, " "), m.width))
	b.WriteString("\n\n")

	b.WriteString(panelStyle.Render(m.renderTableContent()))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

var activeTabStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("229")).
	Background(lipgloss.Color("57")).
	Padding(0, 1)

func (m HistoryModel) renderTableContent() string {
	emptyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Italic(true).
		Padding(2, 4)

	switch {
	case m.source == nil:
		return emptyStyle.Render("Match history is disabled.")
	case m.err != nil:
		return emptyStyle.Render("Could not load history: " + m.err.Error())
	case len(m.rows) == 0:
		return emptyStyle.Render("No matches recorded yet.\nFinish a duel to fill this table!")
	}
	return m.table.View()
}

// Tab returns the index of the selected tab.
func (m HistoryModel) Tab() int {
	return int(m.tab)
}

// Rows returns the rows of the selected tab.
func (m HistoryModel) Rows() []table.Row {
	return m.rows
}

// RunHistory runs the history browser.
func RunHistory(source HistorySource, width, height int) error {
	p := tea.NewProgram(
		NewHistoryModel(source, width, height),
		tea.WithAltScreen(),
	)
	_, err := p.Run()
	return err
}
