// Package drop implements the rules of a two-player Magical Drop style duel:
// column grids, the held chain, cascading match resolution, garbage transfer
// and the per-match lifecycle. It contains pure logic with no I/O; callers are
// responsible for serializing access to a Session.
package drop

import "fmt"

// Color is a piece color. The zero value is not a valid piece.
type Color uint8

// Piece colors. Garbage is injected into an opponent's grid as a penalty and
// is never produced by Fill.
const (
	ColorNone Color = iota
	Red
	Blue
	Green
	Yellow
	Purple
	Garbage
)

// Palette is the set of playable colors, in wire order.
var Palette = []Color{Red, Blue, Green, Yellow, Purple}

var colorNames = map[Color]string{
	Red:     "red",
	Blue:    "blue",
	Green:   "green",
	Yellow:  "yellow",
	Purple:  "purple",
	Garbage: "gray",
}

// String returns the wire name of the color.
func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return "none"
}

// Playable reports whether c is one of the five matchable palette colors.
func (c Color) Playable() bool {
	return c >= Red && c <= Purple
}

// MarshalText implements encoding.TextMarshaler so colors travel as names.
func (c Color) MarshalText() ([]byte, error) {
	if _, ok := colorNames[c]; !ok {
		return nil, fmt.Errorf("drop: cannot marshal color %d", c)
	}
	return []byte(colorNames[c]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseColor converts a wire name back to a Color.
func ParseColor(name string) (Color, error) {
	for c, n := range colorNames {
		if n == name {
			return c, nil
		}
	}
	return ColorNone, fmt.Errorf("drop: unknown color %q", name)
}
