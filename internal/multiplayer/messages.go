package multiplayer

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/drop-duel/internal/games/drop"
)

// Inbound message type discriminators.
const (
	TypeJoinGame   = "join_game"
	TypeMove       = "move"
	TypePickBall   = "pick_ball"
	TypeThrowBalls = "throw_balls"
	TypeGameState  = "game_state"
)

// DefaultPlayerName is used when join_game carries no name.
const DefaultPlayerName = "Player"

// Inbound represents a message received from a client.
type Inbound interface {
	inbound()
}

// JoinGame asks for the sender to be added to the session.
type JoinGame struct {
	PlayerName string
}

func (JoinGame) inbound() {}

// Move reports a cursor move. It never changes server state.
type Move struct {
	Direction string
}

func (Move) inbound() {}

// PickBall picks the top piece of a column into the held chain.
type PickBall struct {
	Column int
}

func (PickBall) inbound() {}

// ThrowBalls throws the held chain onto a column.
type ThrowBalls struct {
	Column int
}

func (ThrowBalls) inbound() {}

// Unknown is any message with an unrecognised type. It is ignored.
type Unknown struct {
	Type string
}

func (Unknown) inbound() {}

// envelope is the JSON shape shared by every inbound message.
type envelope struct {
	Type       string `json:"type"`
	PlayerName string `json:"player_name,omitempty"`
	Direction  string `json:"direction,omitempty"`
	Column     *int   `json:"column,omitempty"`
}

// column returns the column field, or -1 when it was omitted.
func (e envelope) column() int {
	if e.Column == nil {
		return -1
	}
	return *e.Column
}

// Decode parses a client message.
func Decode(data []byte) (Inbound, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}

	switch env.Type {
	case TypeJoinGame:
		name := env.PlayerName
		if name == "" {
			name = DefaultPlayerName
		}
		return JoinGame{PlayerName: name}, nil
	case TypeMove:
		return Move{Direction: env.Direction}, nil
	case TypePickBall:
		return PickBall{Column: env.column()}, nil
	case TypeThrowBalls:
		return ThrowBalls{Column: env.column()}, nil
	default:
		return Unknown{Type: env.Type}, nil
	}
}

// Encode serialises a client message. Used by terminal clients.
func Encode(msg Inbound) ([]byte, error) {
	var env envelope
	switch m := msg.(type) {
	case JoinGame:
		env = envelope{Type: TypeJoinGame, PlayerName: m.PlayerName}
	case Move:
		env = envelope{Type: TypeMove, Direction: m.Direction}
	case PickBall:
		col := m.Column
		env = envelope{Type: TypePickBall, Column: &col}
	case ThrowBalls:
		col := m.Column
		env = envelope{Type: TypeThrowBalls, Column: &col}
	case Unknown:
		env = envelope{Type: m.Type}
	default:
		return nil, fmt.Errorf("encode message: unsupported type %T", msg)
	}
	return json.Marshal(env)
}

// Outbound is a message sent to clients. The server only sends game_state.
type Outbound struct {
	Type string           `json:"type"`
	Data drop.SessionView `json:"data"`
}

// GameState wraps a snapshot in a game_state message.
func GameState(view drop.SessionView) Outbound {
	return Outbound{Type: TypeGameState, Data: view}
}

// DecodeOutbound parses a server message.
func DecodeOutbound(data []byte) (Outbound, error) {
	var out Outbound
	if err := json.Unmarshal(data, &out); err != nil {
		return Outbound{}, fmt.Errorf("decode state: %w", err)
	}
	if out.Type != TypeGameState {
		return Outbound{}, fmt.Errorf("decode state: unexpected type %q", out.Type)
	}
	return out, nil
}
