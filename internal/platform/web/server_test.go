package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/drop-duel/internal/config"
	"github.com/vovakirdan/drop-duel/internal/games/drop"
	"github.com/vovakirdan/drop-duel/internal/multiplayer"
	"github.com/vovakirdan/drop-duel/internal/storage"
)

type fakeHistory struct {
	matches []storage.MatchResult
	err     error
}

func (f *fakeHistory) RecentMatches(limit int) ([]storage.MatchResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit > 0 && limit < len(f.matches) {
		return f.matches[:limit], nil
	}
	return f.matches, nil
}

func (f *fakeHistory) TopScores(int) ([]storage.ScoreEntry, error) {
	return nil, f.err
}

func (f *fakeHistory) StatsForPlayer(name string) (*storage.PlayerStats, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &storage.PlayerStats{Name: name, Matches: len(f.matches)}, nil
}

func newTestServer(t *testing.T, history MatchHistory) (*httptest.Server, *multiplayer.Coordinator) {
	t.Helper()
	logger := log.New(io.Discard)
	coord := multiplayer.NewCoordinator(
		multiplayer.NewRegistry(drop.DefaultRules(), 1),
		multiplayer.NewHub(),
		logger,
	)
	srv := New(config.Default().Server, coord, history, logger)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts, coord
}

func dial(t *testing.T, ts *httptest.Server, session, player string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/" + session + "/" + player
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readState(t *testing.T, conn *websocket.Conn) drop.SessionView {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	out, err := multiplayer.DecodeOutbound(data)
	require.NoError(t, err)
	return out.Data
}

func send(t *testing.T, conn *websocket.Conn, msg multiplayer.Inbound) {
	t.Helper()
	data, err := multiplayer.Encode(msg)
	require.NoError(t, err)
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, data))
}

func getJSON(t *testing.T, url string, v any) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "application/json; charset=utf-8", resp.Header.Get("Content-Type"))
	if v != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
	}
	return resp.StatusCode
}

func TestWebsocketEscapedIDs(t *testing.T) {
	ts, coord := newTestServer(t, nil)

	conn := dial(t, ts, "my%20room", "a%2Fb")
	readState(t, conn)

	_, ok := coord.Registry().Get("my room")
	assert.True(t, ok, "escaped session id is decoded")
	_, ok = coord.Hub().Get("a/b")
	assert.True(t, ok, "escaped player id is decoded")
}

func TestWebsocketDuel(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	alice := dial(t, ts, "duel", "alice")
	initial := readState(t, alice)
	assert.Equal(t, drop.StateWaiting, initial.State)
	assert.Empty(t, initial.Players)

	send(t, alice, multiplayer.JoinGame{PlayerName: "Alice"})
	view := readState(t, alice)
	require.Contains(t, view.Players, drop.PlayerID("alice"))

	bob := dial(t, ts, "duel", "bob")
	_ = readState(t, bob)
	send(t, bob, multiplayer.JoinGame{PlayerName: "Bob"})

	for _, conn := range []*websocket.Conn{alice, bob} {
		view := readState(t, conn)
		assert.Equal(t, drop.StatePlaying, view.State)
		assert.Len(t, view.Players, 2)
	}

	// Malformed and move messages produce no reply; the pick that follows does.
	require.NoError(t, alice.WriteMessage(websocket.TextMessage, []byte("{not json")))
	send(t, alice, multiplayer.Move{Direction: "left"})
	send(t, alice, multiplayer.PickBall{Column: 0})

	view = readState(t, alice)
	assert.Len(t, view.Players["alice"].CurrentChain, 1)
	view = readState(t, bob)
	assert.Len(t, view.Players["alice"].CurrentChain, 1)
}

func TestWebsocketDisconnectNotifiesOpponent(t *testing.T) {
	ts, coord := newTestServer(t, nil)

	alice := dial(t, ts, "duel", "alice")
	_ = readState(t, alice)
	send(t, alice, multiplayer.JoinGame{PlayerName: "Alice"})
	_ = readState(t, alice)

	bob := dial(t, ts, "duel", "bob")
	_ = readState(t, bob)
	send(t, bob, multiplayer.JoinGame{PlayerName: "Bob"})
	_, _ = readState(t, alice), readState(t, bob)

	require.NoError(t, alice.Close())

	view := readState(t, bob)
	assert.NotContains(t, view.Players, drop.PlayerID("alice"))
	assert.Eventually(t, func() bool { return coord.Hub().Count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestHealth(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	conn := dial(t, ts, "s1", "p1")
	_ = readState(t, conn)

	var body struct {
		OK          bool `json:"ok"`
		Sessions    int  `json:"sessions"`
		Connections int  `json:"connections"`
	}
	status := getJSON(t, ts.URL+"/health", &body)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, body.OK)
	assert.Equal(t, 1, body.Sessions)
	assert.Equal(t, 1, body.Connections)
}

func TestSessionEndpoint(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	status := getJSON(t, ts.URL+"/api/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, status)

	conn := dial(t, ts, "s1", "p1")
	_ = readState(t, conn)
	send(t, conn, multiplayer.JoinGame{})
	_ = readState(t, conn)

	var view drop.SessionView
	status = getJSON(t, ts.URL+"/api/sessions/s1", &view)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, drop.StateWaiting, view.State)
	assert.Equal(t, multiplayer.DefaultPlayerName, view.Players["p1"].Name)
}

func TestMatchesEndpoint(t *testing.T) {
	t.Run("without storage", func(t *testing.T) {
		ts, _ := newTestServer(t, nil)
		for _, path := range []string{"/api/matches", "/api/scores", "/api/players/ann"} {
			status := getJSON(t, ts.URL+path, nil)
			assert.Equal(t, http.StatusServiceUnavailable, status, path)
		}
	})

	t.Run("with storage", func(t *testing.T) {
		history := &fakeHistory{matches: []storage.MatchResult{
			{MatchID: "m2", Player1Name: "ann"},
			{MatchID: "m1", Player1Name: "ben"},
		}}
		ts, _ := newTestServer(t, history)

		var matches []storage.MatchResult
		status := getJSON(t, ts.URL+"/api/matches?limit=1", &matches)
		assert.Equal(t, http.StatusOK, status)
		require.Len(t, matches, 1)
		assert.Equal(t, "m2", matches[0].MatchID)

		status = getJSON(t, ts.URL+"/api/matches?limit=abc", nil)
		assert.Equal(t, http.StatusBadRequest, status)

		var scores []storage.ScoreEntry
		status = getJSON(t, ts.URL+"/api/scores", &scores)
		assert.Equal(t, http.StatusOK, status)
		assert.NotNil(t, scores, "empty results encode as []")

		var stats storage.PlayerStats
		status = getJSON(t, ts.URL+"/api/players/ann", &stats)
		assert.Equal(t, http.StatusOK, status)
		assert.Equal(t, "ann", stats.Name)
	})

	t.Run("storage failure", func(t *testing.T) {
		ts, _ := newTestServer(t, &fakeHistory{err: errors.New("disk gone")})
		status := getJSON(t, ts.URL+"/api/matches", nil)
		assert.Equal(t, http.StatusInternalServerError, status)
	})
}

func TestOriginChecker(t *testing.T) {
	allowAll := originChecker(nil)
	restricted := originChecker([]string{"https://duel.example.com"})

	req := httptest.NewRequest(http.MethodGet, "/ws/s/p", nil)
	assert.True(t, allowAll(req))
	assert.True(t, restricted(req), "requests without Origin are allowed")

	req.Header.Set("Origin", "https://evil.example.com")
	assert.True(t, allowAll(req))
	assert.False(t, restricted(req))

	req.Header.Set("Origin", "https://duel.example.com")
	assert.True(t, restricted(req))
}
