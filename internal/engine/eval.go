package engine

import (
	"fmt"
	"strings"

	"checkers/internal/checkers"
)

const (
	// WinScore 远大于任何启发式分值：搜索永远优先真实的胜负。
	WinScore = 1_000_000

	// 一个足够大的值，当成正负无穷
	scoreInf = 1_000_000_000
)

// Evaluator scores a non-terminal position from Black's point of view:
// positive favours Black, negative favours Red. Implementations must stay
// far below WinScore in magnitude.
type Evaluator interface {
	Evaluate(pos *checkers.Position) int
}

type EvaluatorFunc func(pos *checkers.Position) int

func (f EvaluatorFunc) Evaluate(pos *checkers.Position) int { return f(pos) }

// Evaluate applies the terminal override and then ev: a side to move with
// no legal move has lost, and a side with no pieces left has lost even when
// it is not on move.
func Evaluate(pos *checkers.Position, ev Evaluator) int {
	if pos.IsTerminal() {
		return terminalScore(pos.SideToMove)
	}
	if v, ok := opponentWipedOut(pos); ok {
		return v
	}
	return ev.Evaluate(pos)
}

// 对方已无子：不等它走到就判胜
func opponentWipedOut(pos *checkers.Position) (int, bool) {
	opp := pos.SideToMove.Opponent()
	if pos.PieceCount(opp) == 0 {
		return terminalScore(opp), true
	}
	return 0, false
}

// terminalScore: side 无棋可走，判负
func terminalScore(side checkers.Color) int {
	if side == checkers.Black {
		return -WinScore
	}
	return WinScore
}

// ======= 子力 =======

// Material is the base formula: (BM-RM)*Man + (BK-RK)*King.
type Material struct {
	Man  int
	King int
}

// DefaultMaterial weights a king as three men.
var DefaultMaterial = Material{Man: 100, King: 300}

// Name identifies the weights, so cached analysis is never shared between
// different material settings.
func (m Material) Name() string { return fmt.Sprintf("material:%d:%d", m.Man, m.King) }

func (m Material) Evaluate(pos *checkers.Position) int {
	c := pos.Counts()
	return (c.BlackMen-c.RedMen)*m.Man + (c.BlackKings-c.RedKings)*m.King
}

// ======= 子力 + 位置 =======

// Positional adds small per-piece bonuses on top of Material: men are
// rewarded for advancing, any piece for standing in the centre columns and
// men for guarding their own back rank.
type Positional struct {
	Material
	Advance  int
	Center   int
	BackRank int
}

var DefaultPositional = Positional{
	Material: DefaultMaterial,
	Advance:  3,
	Center:   4,
	BackRank: 5,
}

func (p Positional) Name() string {
	return fmt.Sprintf("positional:%d:%d:%d:%d:%d", p.Man, p.King, p.Advance, p.Center, p.BackRank)
}

func (p Positional) Evaluate(pos *checkers.Position) int {
	score := p.Material.Evaluate(pos)
	size := pos.Board.Size
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			pc := pos.Board.At(checkers.Square{Row: r, Col: c})
			if pc == checkers.Empty {
				continue
			}
			b := p.pieceBonus(pc, size, r, c)
			if pc.Color() == checkers.Black {
				score += b
			} else {
				score -= b
			}
		}
	}
	return score
}

func (p Positional) pieceBonus(pc checkers.Piece, size, row, col int) int {
	b := 0
	mid := size / 2
	if col >= mid-2 && col <= mid+1 {
		b += p.Center
	}
	if pc.IsKing() {
		return b
	}
	advance := rankFromSide(pc.Color(), size, row)
	b += advance * p.Advance
	if advance == 0 {
		b += p.BackRank
	}
	return b
}

// 自家方向上的“前进距离”，0 表示还在底线
func rankFromSide(c checkers.Color, size, row int) int {
	if c == checkers.Black {
		return row
	}
	return size - 1 - row
}

// evaluatorName keys cached analysis by evaluator. Evaluators without a
// Name method get "", which keeps them out of the book: two anonymous
// functions cannot be told apart.
func evaluatorName(ev Evaluator) string {
	if n, ok := ev.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}

// ParseEvaluator maps a flag value to an evaluator.
func ParseEvaluator(name string) (Evaluator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "material":
		return DefaultMaterial, nil
	case "positional":
		return DefaultPositional, nil
	default:
		return nil, fmt.Errorf("unknown evaluator %q", name)
	}
}
