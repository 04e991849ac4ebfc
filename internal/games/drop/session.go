package drop

import "math/rand"

// PlayerID is an opaque per-connection player identifier.
type PlayerID string

// MaxPlayers is the capacity of a session.
const MaxPlayers = 2

// State is the lifecycle state of a session.
type State string

const (
	StateWaiting  State = "waiting"  // Fewer than two players have joined
	StatePlaying  State = "playing"  // Both grids are live
	StateFinished State = "finished" // A player overflowed; terminal
)

// Player is one participant of a session.
type Player struct {
	ID       PlayerID
	Name     string
	Score    int
	Grid     *Grid
	Chain    Chain
	GameOver bool
}

// ThrowResult describes the effect of a successful throw.
type ThrowResult struct {
	Placed  int   // Pieces that landed in the target column
	Cleared int   // Pieces removed by the cascade
	Steps   []int // Pieces removed per cascade iteration
	Garbage int   // Garbage pieces sent to the opponent
}

// Session is a single match between up to two players.
// It is not safe for concurrent use.
type Session struct {
	id      string
	rules   Rules
	rng     *rand.Rand
	state   State
	players map[PlayerID]*Player
	order   []PlayerID // join order
}

// NewSession creates an empty session in the waiting state.
func NewSession(id string, rules Rules, rng *rand.Rand) *Session {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &Session{
		id:      id,
		rules:   rules,
		rng:     rng,
		state:   StateWaiting,
		players: make(map[PlayerID]*Player, MaxPlayers),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Rules returns the rules this session plays by.
func (s *Session) Rules() Rules {
	return s.rules
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// PlayerCount returns the number of joined players.
func (s *Session) PlayerCount() int {
	return len(s.players)
}

// HasPlayer reports whether id is a current member.
func (s *Session) HasPlayer(id PlayerID) bool {
	_, ok := s.players[id]
	return ok
}

// Player returns the member with the given id.
func (s *Session) Player(id PlayerID) (*Player, bool) {
	p, ok := s.players[id]
	return p, ok
}

// Members returns the current player ids in join order.
func (s *Session) Members() []PlayerID {
	out := make([]PlayerID, len(s.order))
	copy(out, s.order)
	return out
}

// Opponent returns the other member of the session, if any.
func (s *Session) Opponent(id PlayerID) (*Player, bool) {
	for _, pid := range s.order {
		if pid != id {
			return s.players[pid], true
		}
	}
	return nil, false
}

// AddPlayer inserts a player with an empty grid. The second player starts the
// match: both grids are filled and the session moves to playing. Fails when
// the session is full or the id is already a member.
func (s *Session) AddPlayer(id PlayerID, name string) bool {
	if len(s.players) >= MaxPlayers {
		return false
	}
	if _, exists := s.players[id]; exists {
		return false
	}

	s.players[id] = &Player{
		ID:   id,
		Name: name,
		Grid: NewGrid(s.rules.Width, s.rules.Height),
	}
	s.order = append(s.order, id)

	if len(s.players) == MaxPlayers && s.state != StateFinished {
		s.state = StatePlaying
		s.initialize()
	}
	return true
}

// RemovePlayer drops a member. The lifecycle state is left as is so the slot
// can be filled again.
func (s *Session) RemovePlayer(id PlayerID) bool {
	if _, ok := s.players[id]; !ok {
		return false
	}
	delete(s.players, id)
	for i, pid := range s.order {
		if pid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

// initialize fills every player's grid for a fresh match.
func (s *Session) initialize() {
	for _, pid := range s.order {
		p := s.players[pid]
		p.Grid.Fill(s.rng, s.rules.MinFill, s.rules.MaxFill)
		p.Chain.ReleaseAll()
	}
}

// actor returns the player if it may act right now.
func (s *Session) actor(id PlayerID) (*Player, bool) {
	if s.state != StatePlaying {
		return nil, false
	}
	p, ok := s.players[id]
	if !ok || p.GameOver {
		return nil, false
	}
	return p, true
}

// Pick moves the top piece of a column into the player's chain.
func (s *Session) Pick(id PlayerID, col int) bool {
	p, ok := s.actor(id)
	if !ok {
		return false
	}
	piece, ok := p.Grid.PickTop(col)
	if !ok {
		return false
	}
	p.Chain.Hold(piece)
	return true
}

// Throw releases the player's chain into a column, resolves the cascade,
// awards points and sends garbage to the opponent. Fails without side
// effects when the chain is empty or the column is invalid or full.
func (s *Session) Throw(id PlayerID, col int) (ThrowResult, bool) {
	p, ok := s.actor(id)
	if !ok || p.Chain.Empty() {
		return ThrowResult{}, false
	}
	if !p.Grid.ValidColumn(col) || p.Grid.Full(col) {
		return ThrowResult{}, false
	}

	var result ThrowResult
	result.Placed = p.Grid.Push(col, p.Chain.ReleaseAll()...)

	resolved := Resolve(p.Grid, s.rules.GarbageMatches)
	result.Cleared = resolved.Cleared
	result.Steps = resolved.Steps
	p.Score += resolved.Cleared * s.rules.PointsPerPiece

	if amount := s.rules.GarbageFor(resolved.Cleared); amount > 0 {
		if opp, ok := s.Opponent(id); ok && !opp.GameOver {
			s.sendGarbage(opp, amount)
			result.Garbage = amount
		}
	}
	return result, true
}

// sendGarbage drops single garbage pieces into random columns of the target
// grid. A piece aimed at a full column is discarded.
func (s *Session) sendGarbage(target *Player, amount int) {
	for range amount {
		col := s.rng.Intn(target.Grid.Width())
		target.Grid.Push(col, Garbage)
	}
}

// CheckGameOver flags the player as lost when any of their columns
// overflows, and finishes the session. The flag is never cleared.
func (s *Session) CheckGameOver(id PlayerID) bool {
	p, ok := s.players[id]
	if !ok {
		return false
	}
	if !p.Grid.IsOverflowing() {
		return false
	}
	p.GameOver = true
	if s.state == StatePlaying {
		s.state = StateFinished
	}
	return true
}

// Outcome describes a finished session.
type Outcome struct {
	Winner  PlayerID // Empty when no member survived
	Players []PlayerResult
}

// PlayerResult is a member's final standing.
type PlayerResult struct {
	ID       PlayerID
	Name     string
	Score    int
	GameOver bool
}

// Outcome reports the winner and final scores. ok is false until finished.
func (s *Session) Outcome() (Outcome, bool) {
	if s.state != StateFinished {
		return Outcome{}, false
	}
	var out Outcome
	for _, pid := range s.order {
		p := s.players[pid]
		out.Players = append(out.Players, PlayerResult{
			ID:       p.ID,
			Name:     p.Name,
			Score:    p.Score,
			GameOver: p.GameOver,
		})
		if !p.GameOver && out.Winner == "" {
			out.Winner = p.ID
		}
	}
	return out, true
}
