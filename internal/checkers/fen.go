package checkers

import (
	"fmt"
	"strconv"
	"strings"
)

var pieceChars = map[Piece]byte{
	BlackMan:  'b',
	BlackKing: 'B',
	RedMan:    'r',
	RedKing:   'R',
}

// Encode 简单的 FEN-like 格式：每行用 “/” 分隔，连续空格用数字压缩，
// 空格后 b/r 表示轮到谁走。
func (p *Position) Encode() string {
	var sb strings.Builder
	b := &p.Board
	for r := 0; r < b.Size; r++ {
		if r > 0 {
			sb.WriteByte('/')
		}
		empty := 0
		for c := 0; c < b.Size; c++ {
			pc := b.Squares[indexOf(r, c)]
			if pc == Empty {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteByte(pieceChars[pc])
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
	}
	sb.WriteByte(' ')
	if p.SideToMove == Red {
		sb.WriteByte('r')
	} else {
		sb.WriteByte('b')
	}
	return sb.String()
}

func (p *Position) String() string { return p.Encode() }

// DecodePosition parses the Encode format. The number of rows gives the
// board size.
func DecodePosition(s string) (*Position, error) {
	parts := strings.Fields(s)
	if len(parts) != 2 {
		return nil, fmt.Errorf("%w: want \"<rows> <side>\"", ErrInvalidPosition)
	}
	rows := strings.Split(parts[0], "/")
	size := len(rows)
	if !validSize(size) {
		return nil, fmt.Errorf("%w: %d rows", ErrInvalidPosition, size)
	}

	var side Color
	switch parts[1] {
	case "b", "B":
		side = Black
	case "r", "R":
		side = Red
	default:
		return nil, fmt.Errorf("%w: side %q", ErrInvalidPosition, parts[1])
	}

	pieces := make(map[Square]Piece)
	for r, row := range rows {
		c := 0
		for i := 0; i < len(row); i++ {
			ch := row[i]
			if ch >= '0' && ch <= '9' {
				j := i
				for j < len(row) && row[j] >= '0' && row[j] <= '9' {
					j++
				}
				n, _ := strconv.Atoi(row[i:j])
				c += n
				i = j - 1
				continue
			}
			if ch == '.' {
				c++
				continue
			}
			pc, ok := charToPiece(ch)
			if !ok {
				return nil, fmt.Errorf("%w: unknown piece %q", ErrInvalidPosition, ch)
			}
			if c >= size {
				return nil, fmt.Errorf("%w: row %d too long", ErrInvalidPosition, r)
			}
			pieces[Square{Row: r, Col: c}] = pc
			c++
		}
		if c != size {
			return nil, fmt.Errorf("%w: row %d has %d columns", ErrInvalidPosition, r, c)
		}
	}
	return NewPosition(size, side, pieces)
}

func charToPiece(ch byte) (Piece, bool) {
	for pc, c := range pieceChars {
		if c == ch {
			return pc, true
		}
	}
	return Empty, false
}

// Grid renders the board one row per line, for logs and the CLI.
func (p *Position) Grid() string {
	var sb strings.Builder
	b := &p.Board
	for r := 0; r < b.Size; r++ {
		for c := 0; c < b.Size; c++ {
			pc := b.Squares[indexOf(r, c)]
			if pc == Empty {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(pieceChars[pc])
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
