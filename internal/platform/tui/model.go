package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/drop-duel/internal/games/drop"
	"github.com/vovakirdan/drop-duel/internal/multiplayer"
)

// stateMsg carries a snapshot received from the client.
type stateMsg drop.SessionView

// disconnectedMsg is sent when the client's state channel closes.
type disconnectedMsg struct{}

// sendErrMsg reports a failed send.
type sendErrMsg struct{ err error }

// DuelModel is the Bubble Tea model for one player's view of a duel.
type DuelModel struct {
	client   Client
	playerID drop.PlayerID
	name     string

	view      drop.SessionView
	haveState bool
	cursor    int

	keys   DuelKeyMap
	help   help.Model
	width  int
	height int

	status       string
	statusGen    int
	disconnected bool
	quitting     bool
}

// NewDuelModel creates a duel model. The player joins the session on Init.
func NewDuelModel(client Client, playerID drop.PlayerID, name string, width, height int) DuelModel {
	return DuelModel{
		client:   client,
		playerID: playerID,
		name:     name,
		keys:     DefaultDuelKeyMap(),
		help:     help.New(),
		width:    width,
		height:   height,
	}
}

// Init joins the session and starts listening for snapshots.
func (m DuelModel) Init() tea.Cmd {
	if err := m.client.Send(multiplayer.JoinGame{PlayerName: m.name}); err != nil {
		return tea.Batch(
			func() tea.Msg { return sendErrMsg{err: err} },
			m.waitForState(),
		)
	}
	return m.waitForState()
}

// waitForState returns a command that waits for the next snapshot.
func (m DuelModel) waitForState() tea.Cmd {
	states := m.client.States()
	return func() tea.Msg {
		view, ok := <-states
		if !ok {
			return disconnectedMsg{}
		}
		return stateMsg(view)
	}
}

// send hands msg to the client from Update itself. Commands run on their
// own goroutines, so sending from one would let two key presses race.
func (m DuelModel) send(msg multiplayer.Inbound) (DuelModel, tea.Cmd) {
	if err := m.client.Send(msg); err != nil {
		return m.setStatus(fmt.Sprintf("send failed: %v", err))
	}
	return m, nil
}

// Update handles messages.
func (m DuelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case stateMsg:
		m.view = drop.SessionView(msg)
		m.haveState = true
		m.cursor = clampCursor(m.cursor, m.columns())
		return m, m.waitForState()

	case disconnectedMsg:
		m.disconnected = true
		return m.setStatus("connection closed")

	case sendErrMsg:
		return m.setStatus(fmt.Sprintf("send failed: %v", msg.err))

	case clearStatusMsg:
		if msg.gen == m.statusGen {
			m.status = ""
		}
		return m, nil
	}
	return m, nil
}

func (m DuelModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		_ = m.client.Close()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.disconnected {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Left):
		m.cursor = clampCursor(m.cursor-1, m.columns())
		return m.send(multiplayer.Move{Direction: "left"})

	case key.Matches(msg, m.keys.Right):
		m.cursor = clampCursor(m.cursor+1, m.columns())
		return m.send(multiplayer.Move{Direction: "right"})

	case key.Matches(msg, m.keys.Pick):
		return m.send(multiplayer.PickBall{Column: m.cursor})

	case key.Matches(msg, m.keys.Throw):
		return m.send(multiplayer.ThrowBalls{Column: m.cursor})
	}
	return m, nil
}

func (m DuelModel) setStatus(s string) (DuelModel, tea.Cmd) {
	m.status = s
	m.statusGen++
	return m, clearStatusCmd(m.statusGen, statusTTL)
}

// columns returns the grid width seen in the latest snapshot.
func (m DuelModel) columns() int {
	if p, ok := m.view.Players[m.playerID]; ok && len(p.Field) > 0 {
		return len(p.Field)
	}
	for _, p := range m.view.Players {
		if len(p.Field) > 0 {
			return len(p.Field)
		}
	}
	return drop.DefaultRules().Width
}

func clampCursor(c, width int) int {
	if c < 0 {
		return 0
	}
	if c >= width {
		return width - 1
	}
	return c
}

// Outcome describes how the duel ended for this player.
type Outcome int

const (
	OutcomeNone Outcome = iota // Not finished
	OutcomeWin
	OutcomeLose
)

// Outcome reports the result from this player's point of view.
func (m DuelModel) Outcome() Outcome {
	if m.view.State != drop.StateFinished {
		return OutcomeNone
	}
	me, ok := m.view.Players[m.playerID]
	if !ok {
		return OutcomeNone
	}
	if me.GameOver {
		return OutcomeLose
	}
	return OutcomeWin
}

// View renders the duel.
func (m DuelModel) View() string {
	if m.quitting {
		return ""
	}
	return renderDuel(m)
}

// Cursor returns the selected column.
func (m DuelModel) Cursor() int {
	return m.cursor
}

// IsQuitting returns true if user requested to quit.
func (m DuelModel) IsQuitting() bool {
	return m.quitting
}
