package checkers

import "fmt"

const (
	DefaultSize = 8
	MinSize     = 6
	MaxSize     = 12
	MaxCells    = MaxSize * MaxSize
)

func indexOf(row, col int) int { return row*MaxSize + col }

func (b *Board) onBoard(row, col int) bool {
	return row >= 0 && row < b.Size && col >= 0 && col < b.Size
}

func isDark(row, col int) bool { return (row+col)%2 == 1 }

// At returns the piece on sq, or Empty when sq is off the board.
func (b *Board) At(sq Square) Piece {
	if !b.onBoard(sq.Row, sq.Col) {
		return Empty
	}
	return b.Squares[indexOf(sq.Row, sq.Col)]
}

func (b *Board) set(sq Square, pc Piece) {
	b.Squares[indexOf(sq.Row, sq.Col)] = pc
}

// 黑方向下走（行号增大），红方向上走
func forwardDir(c Color) int {
	switch c {
	case Black:
		return +1
	case Red:
		return -1
	default:
		return 0
	}
}

// backRank is the row where a man of color c is crowned.
func (b *Board) backRank(c Color) int {
	if c == Black {
		return b.Size - 1
	}
	return 0
}

func validSize(n int) bool {
	return n >= MinSize && n <= MaxSize && n%2 == 0
}

// NewInitialPosition returns the standard 8×8 start with Black to move.
func NewInitialPosition() *Position {
	pos, _ := NewInitialPositionSize(DefaultSize)
	return pos
}

// NewInitialPositionSize lays out men on the first and last Size/2-1 rows.
func NewInitialPositionSize(size int) (*Position, error) {
	if !validSize(size) {
		return nil, fmt.Errorf("%w: unsupported board size %d", ErrInvalidPosition, size)
	}
	b := Board{Size: size}
	rows := size/2 - 1
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			if !isDark(r, c) {
				continue
			}
			switch {
			case r < rows:
				b.Squares[indexOf(r, c)] = BlackMan
			case r >= size-rows:
				b.Squares[indexOf(r, c)] = RedMan
			}
		}
	}
	pos := &Position{
		Board:      b,
		SideToMove: Black, // 黑先
	}
	pos.Hash = pos.CalculateHash()
	return pos, nil
}

// StartCount is the number of pieces each side starts with on a size×size board.
func StartCount(size int) int { return (size/2 - 1) * (size / 2) }

// NewPosition builds a position from explicit placements. It checks the
// structural invariants (board size, dark squares, no more pieces per side
// than the start, no uncrowned man on its crowning row) but not reachability.
func NewPosition(size int, side Color, pieces map[Square]Piece) (*Position, error) {
	if !validSize(size) {
		return nil, fmt.Errorf("%w: unsupported board size %d", ErrInvalidPosition, size)
	}
	if side != Black && side != Red {
		return nil, fmt.Errorf("%w: side to move %v", ErrInvalidPosition, side)
	}
	b := Board{Size: size}
	for sq, pc := range pieces {
		if pc == Empty {
			continue
		}
		if !b.onBoard(sq.Row, sq.Col) || !isDark(sq.Row, sq.Col) {
			return nil, fmt.Errorf("%w: piece on light or off-board square %v", ErrInvalidPosition, sq)
		}
		if pc.Rank() != RankMan && pc.Rank() != RankKing {
			return nil, fmt.Errorf("%w: bad piece %d", ErrInvalidPosition, pc)
		}
		if pc.Rank() == RankMan && sq.Row == b.backRank(pc.Color()) {
			return nil, fmt.Errorf("%w: uncrowned %v man on its crowning row at %v", ErrInvalidPosition, pc.Color(), sq)
		}
		b.set(sq, pc)
	}
	pos := &Position{Board: b, SideToMove: side}
	limit := StartCount(size)
	for _, c := range []Color{Black, Red} {
		if n := pos.PieceCount(c); n > limit {
			return nil, fmt.Errorf("%w: %v has %d pieces, start count is %d", ErrInvalidPosition, c, n, limit)
		}
	}
	pos.Hash = pos.CalculateHash()
	return pos, nil
}

// Counts reports men and kings per color.
type Counts struct {
	BlackMen, BlackKings int
	RedMen, RedKings     int
}

func (p *Position) Counts() Counts {
	var c Counts
	for r := 0; r < p.Board.Size; r++ {
		for col := 0; col < p.Board.Size; col++ {
			switch p.Board.Squares[indexOf(r, col)] {
			case BlackMan:
				c.BlackMen++
			case BlackKing:
				c.BlackKings++
			case RedMan:
				c.RedMen++
			case RedKing:
				c.RedKings++
			}
		}
	}
	return c
}

func (p *Position) PieceCount(c Color) int {
	n := p.Counts()
	switch c {
	case Black:
		return n.BlackMen + n.BlackKings
	case Red:
		return n.RedMen + n.RedKings
	default:
		return 0
	}
}

// Pieces lists the occupied squares of color c in reading order.
func (p *Position) Pieces(c Color) []Square {
	var out []Square
	for r := 0; r < p.Board.Size; r++ {
		for col := 0; col < p.Board.Size; col++ {
			pc := p.Board.Squares[indexOf(r, col)]
			if pc != Empty && pc.Color() == c {
				out = append(out, Square{Row: r, Col: col})
			}
		}
	}
	return out
}

// IsTerminal reports whether the side to move has lost: no pieces or no
// legal move.
func (p *Position) IsTerminal() bool {
	return len(p.LegalMoves()) == 0
}

// Winner returns the winning color of a terminal position, NoColor otherwise.
func (p *Position) Winner() Color {
	if !p.IsTerminal() {
		return NoColor
	}
	return p.SideToMove.Opponent()
}
