package multiplayer

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/drop-duel/internal/games/drop"
)

// Coordinator routes connections and their messages to sessions.
// Every session mutation and the broadcast that follows it happen under the
// owning room's lock, so members observe snapshots in mutation order.
type Coordinator struct {
	registry    *Registry
	hub         *Hub
	logger      *log.Logger
	resultSaver MatchResultSaver // Optional, can be nil
	now         func() time.Time
}

// NewCoordinator creates a coordinator over the given registry and hub.
// A nil logger falls back to a stderr logger.
func NewCoordinator(registry *Registry, hub *Hub, logger *log.Logger) *Coordinator {
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "dropduel",
		})
	}
	return &Coordinator{
		registry: registry,
		hub:      hub,
		logger:   logger,
		now:      time.Now,
	}
}

// SetResultSaver sets the optional match result saver.
func (c *Coordinator) SetResultSaver(saver MatchResultSaver) {
	c.resultSaver = saver
}

// Registry returns the session registry.
func (c *Coordinator) Registry() *Registry {
	return c.registry
}

// Hub returns the connection hub.
func (c *Coordinator) Hub() *Hub {
	return c.hub
}

// Conn is one player's attachment to a session.
type Conn struct {
	c         *Coordinator
	room      *Room
	sessionID SessionID
	playerID  PlayerID
	sink      Sink
}

// Connect registers sink for playerID and sends it the current snapshot of
// the session, creating the session on first reference. The player is not a
// member until it sends join_game.
func (c *Coordinator) Connect(sessionID SessionID, playerID PlayerID, sink Sink) *Conn {
	room := c.registry.GetOrCreate(sessionID)
	c.hub.Register(playerID, sink)

	conn := &Conn{
		c:         c,
		room:      room,
		sessionID: sessionID,
		playerID:  playerID,
		sink:      sink,
	}

	room.mu.Lock()
	room.conns[playerID] = conn
	sink.Send(GameState(room.game.Snapshot()))
	room.mu.Unlock()

	c.logger.Info("player connected", "session", sessionID, "player", playerID)
	return conn
}

// SessionID returns the session this connection is attached to.
func (conn *Conn) SessionID() SessionID {
	return conn.sessionID
}

// PlayerID returns the connected player's id.
func (conn *Conn) PlayerID() PlayerID {
	return conn.playerID
}

// Handle applies one inbound message to the session.
func (conn *Conn) Handle(msg Inbound) {
	room := conn.room
	room.mu.Lock()
	defer room.mu.Unlock()

	game := room.game
	switch m := msg.(type) {
	case JoinGame:
		if !game.AddPlayer(conn.playerID, m.PlayerName) {
			conn.c.logger.Debug("join rejected", "session", conn.sessionID, "player", conn.playerID)
			break
		}
		conn.c.logger.Info("player joined", "session", conn.sessionID, "player", conn.playerID, "name", m.PlayerName)
		if game.State() == drop.StatePlaying && game.PlayerCount() == drop.MaxPlayers {
			room.startedAt = conn.c.now()
			conn.c.logger.Info("match started", "session", conn.sessionID)
		}

	case Move:
		return

	case PickBall:
		if !game.Pick(conn.playerID, m.Column) {
			conn.c.logger.Debug("pick rejected", "session", conn.sessionID, "player", conn.playerID, "column", m.Column)
		}

	case ThrowBalls:
		result, ok := game.Throw(conn.playerID, m.Column)
		if !ok {
			conn.c.logger.Debug("throw rejected", "session", conn.sessionID, "player", conn.playerID, "column", m.Column)
			break
		}
		if result.Cleared > 0 {
			conn.c.logger.Debug("cleared", "session", conn.sessionID, "player", conn.playerID,
				"pieces", result.Cleared, "steps", result.Steps, "garbage", result.Garbage)
		}
		game.CheckGameOver(conn.playerID)
		if opp, ok := game.Opponent(conn.playerID); ok {
			game.CheckGameOver(opp.ID)
		}
		if game.State() == drop.StateFinished {
			conn.c.finish(room)
		}

	default:
		conn.c.logger.Debug("ignoring message", "session", conn.sessionID, "player", conn.playerID, "msg", msg)
		return
	}

	conn.c.broadcast(room)
}

// Close detaches the connection. The player leaves the session only if this
// is still the player's latest connection to that session; a stale
// connection closing after a reconnect to the same session changes nothing.
// A newer connection to a different session does not keep the player seated.
func (conn *Conn) Close() {
	room := conn.room
	room.mu.Lock()
	defer room.mu.Unlock()

	conn.c.hub.Unregister(conn.playerID, conn.sink)
	if room.conns[conn.playerID] != conn {
		return
	}
	delete(room.conns, conn.playerID)

	if room.game.RemovePlayer(conn.playerID) {
		conn.c.broadcast(room)
	}
	conn.c.logger.Info("player disconnected", "session", conn.sessionID, "player", conn.playerID)
}

// broadcast sends the room's snapshot to every member. Must hold room.mu.
func (c *Coordinator) broadcast(room *Room) {
	c.hub.BroadcastTo(room.game.Members(), GameState(room.game.Snapshot()))
}

// finish records the outcome of a finished session once. Must hold room.mu.
func (c *Coordinator) finish(room *Room) {
	if room.resultSaved {
		return
	}
	outcome, ok := room.game.Outcome()
	if !ok {
		return
	}
	room.resultSaved = true

	c.logger.Info("match finished", "session", room.id, "winner", outcome.Winner)
	if c.resultSaver == nil {
		return
	}

	result := MatchResultData{
		MatchID:   uuid.NewString(),
		SessionID: string(room.id),
		WinnerID:  string(outcome.Winner),
		EndReason: EndReasonOverflow,
	}
	if !room.startedAt.IsZero() {
		result.DurationSecs = int(c.now().Sub(room.startedAt).Seconds())
	}
	if len(outcome.Players) > 0 {
		p := outcome.Players[0]
		result.Player1ID, result.Player1Name, result.Player1Score = string(p.ID), p.Name, p.Score
	}
	if len(outcome.Players) > 1 {
		p := outcome.Players[1]
		result.Player2ID, result.Player2Name, result.Player2Score = string(p.ID), p.Name, p.Score
	}

	saver := c.resultSaver
	logger := c.logger
	// Best effort save, don't block on error
	go func() {
		if err := saver.SaveMatchResult(result); err != nil {
			logger.Warn("could not save match result", "session", result.SessionID, "error", err)
		}
	}()
}
