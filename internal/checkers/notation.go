package checkers

import (
	"fmt"
	"strconv"
	"strings"
)

// SquareNumber returns the 1-based number of a dark square in reading
// order (8×8: 1..32, Black starts on 1..12). 0 for light/off-board squares.
func SquareNumber(size int, sq Square) int {
	if sq.Row < 0 || sq.Row >= size || sq.Col < 0 || sq.Col >= size || !isDark(sq.Row, sq.Col) {
		return 0
	}
	return sq.Row*(size/2) + sq.Col/2 + 1
}

// SquareFromNumber is the inverse of SquareNumber.
func SquareFromNumber(size, n int) (Square, bool) {
	perRow := size / 2
	if perRow == 0 || n < 1 || n > size*perRow {
		return Square{}, false
	}
	r := (n - 1) / perRow
	k := (n - 1) % perRow
	c := 2 * k
	if r%2 == 0 {
		c++
	}
	return Square{Row: r, Col: c}, true
}

// Notation renders m as "11-15" or "15x22x29" for a board of the given size.
func (m Move) Notation(size int) string {
	if len(m.Path) == 0 {
		return "-"
	}
	sep := "-"
	if m.IsCapture() {
		sep = "x"
	}
	parts := make([]string, len(m.Path))
	for i, sq := range m.Path {
		parts[i] = strconv.Itoa(SquareNumber(size, sq))
	}
	return strings.Join(parts, sep)
}

func (m Move) String() string { return m.Notation(DefaultSize) }

// ParseNotation parses "11-15" / "15x22x29" into a move path. Captured
// squares are left empty; Position.ParseMove resolves them.
func ParseNotation(size int, s string) (Move, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return Move{}, fmt.Errorf("%w: empty", ErrInvalidNotation)
	}
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == '-' || r == 'x' || r == ':' })
	if len(fields) < 2 {
		return Move{}, fmt.Errorf("%w: %q needs at least two squares", ErrInvalidNotation, s)
	}
	var m Move
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return Move{}, fmt.Errorf("%w: %q: %v", ErrInvalidNotation, s, err)
		}
		sq, ok := SquareFromNumber(size, n)
		if !ok {
			return Move{}, fmt.Errorf("%w: square %d out of range", ErrInvalidNotation, n)
		}
		m.Path = append(m.Path, sq)
	}
	return m, nil
}

// ParseMove parses notation and returns the matching legal move, with
// captured squares and promotion filled in.
func (p *Position) ParseMove(s string) (Move, error) {
	req, err := ParseNotation(p.Board.Size, s)
	if err != nil {
		return Move{}, err
	}
	return p.Resolve(req)
}
