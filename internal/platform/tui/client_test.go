package tui

import (
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/drop-duel/internal/games/drop"
	"github.com/vovakirdan/drop-duel/internal/multiplayer"
)

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		server  string
		want    string
		wantErr bool
	}{
		{"http://localhost:8000", "ws://localhost:8000/ws/room/p1", false},
		{"https://duel.example.com", "wss://duel.example.com/ws/room/p1", false},
		{"ws://localhost:8000/", "ws://localhost:8000/ws/room/p1", false},
		{"wss://host/base", "wss://host/base/ws/room/p1", false},
		{"ftp://host", "", true},
		{"http://", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.server, func(t *testing.T) {
			got, err := WebsocketURL(tt.server, "room", "p1")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWebsocketURL_EscapesIDs(t *testing.T) {
	got, err := WebsocketURL("http://host", "my room", "a/b")
	require.NoError(t, err)
	assert.Equal(t, "ws://host/ws/my%20room/a%2Fb", got)
}

func recvState(t *testing.T, c Client) drop.SessionView {
	t.Helper()
	select {
	case v, ok := <-c.States():
		require.True(t, ok, "state channel closed")
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for state")
		return drop.SessionView{}
	}
}

func TestLocalClient_Duel(t *testing.T) {
	coord := multiplayer.NewCoordinator(
		multiplayer.NewRegistry(drop.DefaultRules(), 1),
		multiplayer.NewHub(),
		log.New(io.Discard),
	)

	alice := NewLocalClient(coord, "duel", "alice")
	defer alice.Close()
	assert.Equal(t, drop.StateWaiting, recvState(t, alice).State)

	require.NoError(t, alice.Send(multiplayer.JoinGame{PlayerName: "Alice"}))
	assert.Len(t, recvState(t, alice).Players, 1)

	bob := NewLocalClient(coord, "duel", "bob")
	recvState(t, bob)
	require.NoError(t, bob.Send(multiplayer.JoinGame{PlayerName: "Bob"}))

	view := recvState(t, alice)
	assert.Equal(t, drop.StatePlaying, view.State)
	assert.Equal(t, "Bob", view.Players["bob"].Name)

	require.NoError(t, bob.Close())
	require.NoError(t, bob.Close())
	assert.Error(t, bob.Send(multiplayer.PickBall{Column: 0}))

	view = recvState(t, alice)
	assert.NotContains(t, view.Players, drop.PlayerID("bob"))
}

func TestLocalClient_CloseEndsStates(t *testing.T) {
	coord := multiplayer.NewCoordinator(
		multiplayer.NewRegistry(drop.DefaultRules(), 1),
		multiplayer.NewHub(),
		log.New(io.Discard),
	)
	c := NewLocalClient(coord, "solo", "alice")
	require.NoError(t, c.Close())

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-c.States():
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("state channel not closed")
		}
	}
}
