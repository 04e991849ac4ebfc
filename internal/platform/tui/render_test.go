package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/drop-duel/internal/games/drop"
)

func TestRenderField_BottomRowLast(t *testing.T) {
	field := [][]drop.Color{
		{drop.Red, drop.Blue},
		{},
		{drop.Garbage},
	}
	lines := strings.Split(renderField(field, 3, 1), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "· · ·", lines[0])
	assert.Equal(t, "B · ·", lines[1])
	assert.Equal(t, "R · x", lines[2])
	assert.Equal(t, "  ^  ", lines[3])
}

func TestRenderField_NoCursor(t *testing.T) {
	field := [][]drop.Color{{drop.Green}, {drop.Yellow}}
	out := renderField(field, 2, -1)
	assert.Equal(t, "· ·\nG Y", out)
}

func TestFieldRows(t *testing.T) {
	view := playingView("alice", "bob", 2)
	assert.Equal(t, minFieldRows, fieldRows(view))

	tall := make([]drop.Color, minFieldRows+2)
	p := view.Players["bob"]
	p.Field = [][]drop.Color{tall}
	view.Players["bob"] = p
	assert.Equal(t, minFieldRows+2, fieldRows(view))
}

func TestRenderChain(t *testing.T) {
	assert.Equal(t, "R R", renderChain([]drop.Color{drop.Red, drop.Red}))
	assert.Contains(t, renderChain(nil), "empty")
}

func TestRenderDuel(t *testing.T) {
	m := NewDuelModel(newFakeClient(), "alice", "Alice", 80, 24)
	assert.Contains(t, m.View(), "Connecting")

	view := playingView("alice", "bob", 4)
	view.State = drop.StateFinished
	me := view.Players["alice"]
	me.GameOver = true
	view.Players["alice"] = me
	m, _ = update(t, m, stateMsg(view))

	out := m.View()
	assert.Contains(t, out, "You")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "YOU LOSE")
}

func TestCenterText(t *testing.T) {
	assert.Equal(t, "  ab", centerText("ab", 6))
	assert.Equal(t, "abcdef", centerText("abcdef", 4))
}
