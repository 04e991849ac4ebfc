package drop

import "math/rand"

// Grid is one player's playfield: a fixed number of columns, each a stack of
// pieces. Index 0 of a column is the piece nearest the floor; the last
// element is the top of the column. No column ever holds more than Height
// pieces.
type Grid struct {
	width  int
	height int
	cols   [][]Color
}

// NewGrid creates an empty grid with the given dimensions.
func NewGrid(width, height int) *Grid {
	cols := make([][]Color, width)
	for i := range cols {
		cols[i] = make([]Color, 0, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cols:   cols,
	}
}

// NewGridFromColumns builds a grid with preset contents, bottom to top.
// Extra columns are ignored and columns taller than height are truncated.
func NewGridFromColumns(width, height int, columns [][]Color) *Grid {
	g := NewGrid(width, height)
	for c := 0; c < width && c < len(columns); c++ {
		g.Push(c, columns[c]...)
	}
	return g
}

// Width returns the number of columns.
func (g *Grid) Width() int {
	return g.width
}

// Height returns the maximum column length.
func (g *Grid) Height() int {
	return g.height
}

// ValidColumn reports whether col indexes a column of this grid.
func (g *Grid) ValidColumn(col int) bool {
	return col >= 0 && col < g.width
}

// Len returns the number of pieces in a column, or 0 for an invalid index.
func (g *Grid) Len(col int) int {
	if !g.ValidColumn(col) {
		return 0
	}
	return len(g.cols[col])
}

// At returns the piece at (col, row) and whether one exists.
func (g *Grid) At(col, row int) (Color, bool) {
	if !g.ValidColumn(col) || row < 0 || row >= len(g.cols[col]) {
		return ColorNone, false
	}
	return g.cols[col][row], true
}

// Full reports whether a column has reached the height limit.
func (g *Grid) Full(col int) bool {
	return g.Len(col) >= g.height
}

// Count returns the total number of pieces on the grid.
func (g *Grid) Count() int {
	n := 0
	for _, col := range g.cols {
		n += len(col)
	}
	return n
}

// Fill replaces every column with a uniformly random count in
// [minFill, maxFill] of uniformly random playable colors.
func (g *Grid) Fill(rng *rand.Rand, minFill, maxFill int) {
	if maxFill < minFill {
		maxFill = minFill
	}
	for c := range g.cols {
		g.cols[c] = g.cols[c][:0]
		n := minFill + rng.Intn(maxFill-minFill+1)
		for i := 0; i < n && len(g.cols[c]) < g.height; i++ {
			g.cols[c] = append(g.cols[c], Palette[rng.Intn(len(Palette))])
		}
	}
}

// PickTop removes and returns the topmost piece of a column.
// Returns false without side effects for an invalid or empty column.
func (g *Grid) PickTop(col int) (Color, bool) {
	if !g.ValidColumn(col) || len(g.cols[col]) == 0 {
		return ColorNone, false
	}
	last := len(g.cols[col]) - 1
	piece := g.cols[col][last]
	g.cols[col] = g.cols[col][:last]
	return piece, true
}

// Push appends pieces to the top of a column in the given order. Pieces that
// would exceed the height limit are dropped. Returns how many were placed.
func (g *Grid) Push(col int, pieces ...Color) int {
	if !g.ValidColumn(col) {
		return 0
	}
	placed := 0
	for _, p := range pieces {
		if len(g.cols[col]) >= g.height {
			break
		}
		g.cols[col] = append(g.cols[col], p)
		placed++
	}
	return placed
}

// IsOverflowing reports whether any column has reached the height limit.
func (g *Grid) IsOverflowing() bool {
	for c := range g.cols {
		if len(g.cols[c]) >= g.height {
			return true
		}
	}
	return false
}

// removeAt deletes the piece at (col, row); pieces above settle down by one.
func (g *Grid) removeAt(col, row int) bool {
	if !g.ValidColumn(col) || row < 0 || row >= len(g.cols[col]) {
		return false
	}
	g.cols[col] = append(g.cols[col][:row], g.cols[col][row+1:]...)
	return true
}

// Columns returns a deep copy of the grid contents, one slice per column.
// Empty columns are returned as empty, non-nil slices.
func (g *Grid) Columns() [][]Color {
	out := make([][]Color, g.width)
	for c, col := range g.cols {
		out[c] = make([]Color, len(col))
		copy(out[c], col)
	}
	return out
}

// Clear empties every column.
func (g *Grid) Clear() {
	for c := range g.cols {
		g.cols[c] = g.cols[c][:0]
	}
}
