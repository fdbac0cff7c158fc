package checkers

type Color int8

const (
	NoColor Color = -1
	Black   Color = 0
	Red     Color = 1
)

func (c Color) String() string {
	switch c {
	case Black:
		return "black"
	case Red:
		return "red"
	default:
		return "none"
	}
}

// Opponent returns the other side; NoColor stays NoColor.
func (c Color) Opponent() Color {
	switch c {
	case Black:
		return Red
	case Red:
		return Black
	default:
		return NoColor
	}
}

type Rank int8

const (
	RankNone Rank = iota
	RankMan
	RankKing
)

// Piece: 0 = empty, >0 black, <0 red, abs = Rank.
type Piece int8

const (
	Empty     Piece = 0
	BlackMan  Piece = 1
	BlackKing Piece = 2
	RedMan    Piece = -1
	RedKing   Piece = -2
)

func makePiece(c Color, r Rank) Piece {
	if r == RankNone || c == NoColor {
		return Empty
	}
	if c == Black {
		return Piece(r)
	}
	return -Piece(r)
}

func (p Piece) Rank() Rank {
	if p < 0 {
		return Rank(-p)
	}
	return Rank(p)
}

func (p Piece) Color() Color {
	if p == 0 {
		return NoColor
	}
	if p > 0 {
		return Black
	}
	return Red
}

func (p Piece) IsKing() bool { return p.Rank() == RankKing }

// Square is a (row, col) pair; row 0 is Black's home side.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type Board struct {
	Size    int
	Squares [MaxCells]Piece
}

// Move is one turn: a simple step (len(Path) == 2, no captures) or a
// capture chain with one captured square per jump.
type Move struct {
	Path     []Square `json:"path"`
	Captured []Square `json:"captured,omitempty"`
	Promotes bool     `json:"promotes,omitempty"`
}

// Position = board + side to move. Values are treated as immutable:
// every move produces a new Position.
type Position struct {
	Board      Board
	SideToMove Color
	Hash       uint64
}
