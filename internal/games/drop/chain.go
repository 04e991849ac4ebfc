package drop

// Chain is the stack of pieces a player has picked but not yet thrown.
type Chain struct {
	pieces []Color
}

// Hold pushes a picked piece onto the chain.
func (c *Chain) Hold(piece Color) {
	c.pieces = append(c.pieces, piece)
}

// ReleaseAll empties the chain and returns its pieces last-held first, which
// is the order they land in the destination column.
func (c *Chain) ReleaseAll() []Color {
	out := make([]Color, len(c.pieces))
	for i, p := range c.pieces {
		out[len(c.pieces)-1-i] = p
	}
	c.pieces = c.pieces[:0]
	return out
}

// Len returns the number of held pieces.
func (c *Chain) Len() int {
	return len(c.pieces)
}

// Empty reports whether nothing is held.
func (c *Chain) Empty() bool {
	return len(c.pieces) == 0
}

// Pieces returns a copy of the held pieces in hold order.
func (c *Chain) Pieces() []Color {
	out := make([]Color, len(c.pieces))
	copy(out, c.pieces)
	return out
}
