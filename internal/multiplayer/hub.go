package multiplayer

import "sync"

// Hub maps player ids to their outbound sinks.
// Thread-safe for concurrent access.
type Hub struct {
	mu    sync.RWMutex
	sinks map[PlayerID]Sink
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{
		sinks: make(map[PlayerID]Sink),
	}
}

// Register associates a sink with a player, replacing any previous one.
func (h *Hub) Register(id PlayerID, sink Sink) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sinks[id] = sink
}

// Unregister removes the player's sink if it is still the given one.
// Returns false when the player has since registered a different sink.
func (h *Hub) Unregister(id PlayerID, sink Sink) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	current, ok := h.sinks[id]
	if !ok || current != sink {
		return false
	}
	delete(h.sinks, id)
	return true
}

// Get retrieves a player's sink.
func (h *Hub) Get(id PlayerID) (Sink, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sinks[id]
	return s, ok
}

// Count returns the number of registered sinks.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sinks)
}

// BroadcastTo sends msg to every registered sink whose player is in members.
// Returns the number of sinks reached.
func (h *Hub) BroadcastTo(members []PlayerID, msg Outbound) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := 0
	for _, id := range members {
		if sink, ok := h.sinks[id]; ok {
			sink.Send(msg)
			sent++
		}
	}
	return sent
}
