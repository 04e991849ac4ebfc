package drop

// Rules holds the tunable constants of a duel.
type Rules struct {
	Width          int  // Columns per grid
	Height         int  // Column length that counts as overflow
	MinFill        int  // Minimum pieces per column at match start
	MaxFill        int  // Maximum pieces per column at match start
	PointsPerPiece int  // Score awarded for each cleared piece
	GarbageDivisor int  // Cleared pieces per garbage piece sent
	GarbageMatches bool // Whether garbage pieces can form runs
}

// DefaultRules returns the standard 8x12 duel rules.
func DefaultRules() Rules {
	return Rules{
		Width:          8,
		Height:         12,
		MinFill:        6,
		MaxFill:        8,
		PointsPerPiece: 10,
		GarbageDivisor: 3,
		GarbageMatches: true,
	}
}

// GarbageFor returns how many garbage pieces a throw clearing n pieces sends.
func (r Rules) GarbageFor(cleared int) int {
	if r.GarbageDivisor <= 0 || cleared < r.GarbageDivisor {
		return 0
	}
	return cleared / r.GarbageDivisor
}
