package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/drop-duel/internal/games/drop"
)

// pieceStyles maps piece colors to lipgloss styles.
var pieceStyles = map[drop.Color]lipgloss.Style{
	drop.ColorNone: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
	drop.Red:       lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	drop.Blue:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
	drop.Green:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
	drop.Yellow:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
	drop.Purple:    lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true),
	drop.Garbage:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

// pieceGlyphs gives every color a distinct letter so fields stay readable
// without color support.
var pieceGlyphs = map[drop.Color]string{
	drop.ColorNone: "·",
	drop.Red:       "R",
	drop.Blue:      "B",
	drop.Green:     "G",
	drop.Yellow:    "Y",
	drop.Purple:    "P",
	drop.Garbage:   "x",
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	winStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("10")).Padding(0, 2)
	loseStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")).Padding(0, 2)
)

// minFieldRows is the number of rows always drawn; the wire format does not
// carry the grid height.
const minFieldRows = 12

func renderPiece(c drop.Color) string {
	glyph, ok := pieceGlyphs[c]
	if !ok {
		glyph = "?"
	}
	return pieceStyles[c].Render(glyph)
}

// fieldRows returns how many rows are needed to draw every field.
func fieldRows(view drop.SessionView) int {
	rows := minFieldRows
	for _, p := range view.Players {
		for _, col := range p.Field {
			rows = max(rows, len(col))
		}
	}
	return rows
}

// renderField draws a field with the highest row at the top and row 0 at the
// bottom. A cursor below the columns is drawn when cursor >= 0.
func renderField(field [][]drop.Color, rows, cursor int) string {
	var b strings.Builder
	for row := rows - 1; row >= 0; row-- {
		for c, col := range field {
			if c > 0 {
				b.WriteByte(' ')
			}
			piece := drop.ColorNone
			if row < len(col) {
				piece = col[row]
			}
			b.WriteString(renderPiece(piece))
		}
		b.WriteByte('\n')
	}
	if cursor >= 0 {
		for c := range field {
			if c > 0 {
				b.WriteByte(' ')
			}
			if c == cursor {
				b.WriteString(cursorStyle.Render("^"))
			} else {
				b.WriteByte(' ')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// renderChain draws held pieces in hold order.
func renderChain(chain []drop.Color) string {
	if len(chain) == 0 {
		return dimStyle.Render("(empty)")
	}
	parts := make([]string, len(chain))
	for i, c := range chain {
		parts[i] = renderPiece(c)
	}
	return strings.Join(parts, " ")
}

func renderPanel(title string, p drop.PlayerView, rows, cursor int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Score: %d\n", p.Score))
	b.WriteString("Hand:  " + renderChain(p.CurrentChain) + "\n\n")
	b.WriteString(renderField(p.Field, rows, cursor))
	if p.GameOver {
		b.WriteString("\n" + loseStyle.Render("OVERFLOW"))
	}
	return panelStyle.Render(b.String())
}

func stateLine(view drop.SessionView, joined bool) string {
	switch view.State {
	case drop.StateWaiting:
		if !joined {
			return "Joining..."
		}
		return "Waiting for an opponent..."
	case drop.StatePlaying:
		if !joined {
			return "Session is full."
		}
		return "Playing"
	case drop.StateFinished:
		return "Finished"
	}
	return string(view.State)
}

// renderDuel draws the whole duel screen.
func renderDuel(m DuelModel) string {
	var b strings.Builder

	header := "DROP DUEL"
	if m.name != "" {
		header += " - " + m.name
	}
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n")

	if !m.haveState {
		b.WriteString(dimStyle.Render("Connecting..."))
		b.WriteString("\n")
		return b.String()
	}

	me, joined := m.view.Players[m.playerID]
	b.WriteString(dimStyle.Render(stateLine(m.view, joined)))
	b.WriteString("\n\n")

	rows := fieldRows(m.view)
	var panels []string
	if joined {
		panels = append(panels, renderPanel("You", me, rows, m.cursor))
	}
	for _, id := range opponents(m.view, m.playerID) {
		opp := m.view.Players[id]
		title := opp.Name
		if title == "" {
			title = string(id)
		}
		panels = append(panels, renderPanel(title, opp, rows, -1))
	}
	if len(panels) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, joinWithGap(panels)...))
		b.WriteString("\n")
	}

	switch m.Outcome() {
	case OutcomeWin:
		b.WriteString("\n" + winStyle.Render("YOU WIN") + "\n")
	case OutcomeLose:
		b.WriteString("\n" + loseStyle.Render("YOU LOSE") + "\n")
	}

	if m.status != "" {
		b.WriteString("\n" + dimStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// opponents lists the other members in a stable order.
func opponents(view drop.SessionView, self drop.PlayerID) []drop.PlayerID {
	var ids []drop.PlayerID
	for id := range view.Players {
		if id != self {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func joinWithGap(panels []string) []string {
	out := make([]string, 0, len(panels)*2)
	for i, p := range panels {
		if i > 0 {
			out = append(out, "  ")
		}
		out = append(out, p)
	}
	return out
}

// centerText pads text so it is centered within width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}
