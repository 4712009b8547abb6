// Package coords tracks absolute/line/column positions within parser input
// and the spans derived from them.
package coords

import "fmt"

// Coord represents a single location within the parser input. Absolute is
// a 0-based scalar offset; Line is 1-based; Column is 1-based for the most
// recently read scalar on the line, and 0 before any scalar on that line
// has been read.
type Coord struct {
	Absolute int
	Line     int
	Column   int
}

// Start is the coordinate a fresh parse begins at.
func Start() Coord {
	return Coord{Absolute: 0, Line: 1, Column: 0}
}

// Advance moves the coordinate on by one scalar. If newline is true, Line
// is bumped and Column resets to 1; otherwise Column is bumped.
func (c *Coord) Advance(newline bool) {
	c.Absolute++
	if newline {
		c.Line++
		c.Column = 1
	} else {
		c.Column++
	}
}

// AdvanceN bulk-advances by n scalars, none of which are newlines.
func (c *Coord) AdvanceN(n int) {
	c.Absolute += n
	c.Column += n
}

// Less orders coordinates by Absolute.
func (c Coord) Less(other Coord) bool {
	return c.Absolute < other.Absolute
}

func (c Coord) String() string {
	return fmt.Sprintf("(line: %d, column: %d, absolute: %d)", c.Line, c.Column, c.Absolute)
}

// Span is a linear interval within the parser input, delimited by a pair
// of Coords with Start <= End.
type Span struct {
	Start Coord
	End   Coord
}

// NewSpan builds a Span, clamping End to be no earlier than Start.
func NewSpan(start, end Coord) Span {
	if end.Absolute < start.Absolute {
		end = start
	}
	return Span{Start: start, End: end}
}

// Point builds a zero-width Span at a single coordinate.
func Point(c Coord) Span {
	return Span{Start: c, End: c}
}

// Len returns the length of the span, with a floor of 1 for zero-width
// spans.
func (s Span) Len() int {
	n := s.End.Absolute - s.Start.Absolute
	if n < 1 {
		return 1
	}
	return n
}

func (s Span) String() string {
	return fmt.Sprintf("start: %s, end: %s, length: %d", s.Start, s.End, s.Len())
}
