package drop

// SessionView is the read-only projection of a session sent to clients.
type SessionView struct {
	State   State                   `json:"state"`
	Players map[PlayerID]PlayerView `json:"players"`
}

// PlayerView is one player's public state.
type PlayerView struct {
	Name         string    `json:"name"`
	Score        int       `json:"score"`
	Field        [][]Color `json:"field"`
	CurrentChain []Color   `json:"current_chain"`
	GameOver     bool      `json:"game_over"`
}

// Snapshot copies the session state. The result shares no memory with s.
func (s *Session) Snapshot() SessionView {
	view := SessionView{
		State:   s.state,
		Players: make(map[PlayerID]PlayerView, len(s.players)),
	}
	for id, p := range s.players {
		view.Players[id] = PlayerView{
			Name:         p.Name,
			Score:        p.Score,
			Field:        p.Grid.Columns(),
			CurrentChain: p.Chain.Pieces(),
			GameOver:     p.GameOver,
		}
	}
	return view
}

// Opponent returns the first member of the view other than self.
func (v SessionView) Opponent(self PlayerID) (PlayerID, PlayerView, bool) {
	for id, p := range v.Players {
		if id != self {
			return id, p, true
		}
	}
	return "", PlayerView{}, false
}
