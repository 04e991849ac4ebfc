// Package multiplayer connects players to duel sessions. It owns the
// process-wide session registry, the connection hub used to fan out state
// snapshots, and the transport-neutral coordinator that applies inbound
// messages to the right session under that session's lock.
package multiplayer

import "github.com/vovakirdan/drop-duel/internal/games/drop"

// PlayerID is an alias to drop.PlayerID for convenience.
type PlayerID = drop.PlayerID

// SessionID identifies a duel session. Sessions are created on first reference.
type SessionID string

// MatchResultSaver persists the outcome of a finished session.
// This allows the coordinator to save results without depending on the storage package.
type MatchResultSaver interface {
	SaveMatchResult(result MatchResultData) error
}

// MatchResultData contains match result data for persistence.
type MatchResultData struct {
	MatchID      string
	SessionID    string
	Player1ID    string
	Player1Name  string
	Player1Score int
	Player2ID    string
	Player2Name  string
	Player2Score int
	WinnerID     string // Empty if nobody survived
	EndReason    string
	DurationSecs int
}

// EndReasonOverflow is recorded when a player's column overflowed.
const EndReasonOverflow = "overflow"
