// Package tui provides the Bubble Tea terminal client for duels, the Wish
// SSH server that hosts it, and the match history browser.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// statusTTL is how long a status line stays visible.
const statusTTL = 3 * time.Second

// clearStatusMsg expires the status line set at the given generation.
type clearStatusMsg struct {
	gen int
}

// clearStatusCmd returns a command that fires after d.
func clearStatusCmd(gen int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{gen: gen}
	})
}
