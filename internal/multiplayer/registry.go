package multiplayer

import (
	"math/rand"
	"sync"
	"time"

	"github.com/vovakirdan/drop-duel/internal/games/drop"
)

// Room owns one session and the lock that serialises access to it.
type Room struct {
	mu          sync.Mutex
	id          SessionID
	game        *drop.Session
	conns       map[PlayerID]*Conn // Latest connection per player in this session
	startedAt   time.Time // When the session last entered playing
	resultSaved bool
}

// ID returns the session id.
func (r *Room) ID() SessionID {
	return r.id
}

// Snapshot returns the current state view.
func (r *Room) Snapshot() drop.SessionView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}

// Registry maps session ids to rooms, creating them lazily.
// Thread-safe for concurrent access.
type Registry struct {
	rules drop.Rules
	seed  int64

	mu      sync.RWMutex
	rooms   map[SessionID]*Room
	created int64
}

// NewRegistry creates an empty registry.
// A non-zero seed makes every session's initial fill reproducible.
func NewRegistry(rules drop.Rules, seed int64) *Registry {
	return &Registry{
		rules: rules,
		seed:  seed,
		rooms: make(map[SessionID]*Room),
	}
}

// Rules returns the rules new sessions are created with.
func (r *Registry) Rules() drop.Rules {
	return r.rules
}

// GetOrCreate returns the room for id, creating a waiting session on first reference.
func (r *Registry) GetOrCreate(id SessionID) *Room {
	r.mu.RLock()
	room, ok := r.rooms[id]
	r.mu.RUnlock()
	if ok {
		return room
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[id]; ok {
		return room
	}

	r.created++
	seed := time.Now().UnixNano() + r.created
	if r.seed != 0 {
		seed = r.seed + r.created - 1
	}
	room = &Room{
		id:    id,
		game:  drop.NewSession(string(id), r.rules, rand.New(rand.NewSource(seed))), //nolint:gosec // game randomness
		conns: make(map[PlayerID]*Conn),
	}
	r.rooms[id] = room
	return room
}

// Get retrieves an existing room.
func (r *Registry) Get(id SessionID) (*Room, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	return room, ok
}

// Count returns the number of sessions ever referenced.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}
