package drop

import "slices"

// runLength is the minimum number of aligned same-colored pieces that clear.
const runLength = 3

// cell addresses one piece on a grid.
type cell struct {
	col int
	row int
}

// ResolveResult summarizes a cascade.
type ResolveResult struct {
	Cleared int   // Total pieces removed across all iterations
	Steps   []int // Pieces removed by each cascade iteration, in order
}

// Resolve repeatedly clears horizontal and vertical runs of three or more
// same-colored pieces until none remain. Pieces above a cleared cell settle
// down, which can form new runs for the next iteration. When garbageMatches
// is false, garbage pieces never form a run.
func Resolve(g *Grid, garbageMatches bool) ResolveResult {
	var result ResolveResult
	for {
		marked := findRuns(g, garbageMatches)
		if len(marked) == 0 {
			return result
		}
		removed := removeCells(g, marked)
		result.Cleared += removed
		result.Steps = append(result.Steps, removed)
	}
}

// findRuns returns the deduplicated set of cells belonging to any run.
func findRuns(g *Grid, garbageMatches bool) map[cell]struct{} {
	marked := make(map[cell]struct{})

	matches := func(a, b, c Color) bool {
		if a != b || b != c {
			return false
		}
		return garbageMatches || a != Garbage
	}

	// Horizontal: three adjacent columns each holding a piece at the same row.
	for row := 0; row < g.height; row++ {
		for col := 0; col+runLength-1 < g.width; col++ {
			a, okA := g.At(col, row)
			b, okB := g.At(col+1, row)
			c, okC := g.At(col+2, row)
			if !okA || !okB || !okC || !matches(a, b, c) {
				continue
			}
			for i := range runLength {
				marked[cell{col: col + i, row: row}] = struct{}{}
			}
		}
	}

	// Vertical: three consecutive pieces in one column.
	for col := 0; col < g.width; col++ {
		column := g.cols[col]
		for row := 0; row+runLength-1 < len(column); row++ {
			if !matches(column[row], column[row+1], column[row+2]) {
				continue
			}
			for i := range runLength {
				marked[cell{col: col, row: row + i}] = struct{}{}
			}
		}
	}

	return marked
}

// removeCells deletes marked cells, highest row first within each column so
// earlier removals never shift a mark that is still pending.
func removeCells(g *Grid, marked map[cell]struct{}) int {
	cells := make([]cell, 0, len(marked))
	for c := range marked {
		cells = append(cells, c)
	}
	slices.SortFunc(cells, func(a, b cell) int {
		if a.col != b.col {
			return a.col - b.col
		}
		return b.row - a.row
	})

	removed := 0
	for _, c := range cells {
		if g.removeAt(c.col, c.row) {
			removed++
		}
	}
	return removed
}
