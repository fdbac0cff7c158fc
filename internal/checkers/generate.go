package checkers

import (
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

var (
	kingDirs     = [][2]int{{-1, -1}, {-1, +1}, {+1, -1}, {+1, +1}}
	blackManDirs = [][2]int{{+1, -1}, {+1, +1}}
	redManDirs   = [][2]int{{-1, -1}, {-1, +1}}
)

// 王四个斜向，兵只能向前
func pieceDirs(pc Piece) [][2]int {
	if pc.IsKing() {
		return kingDirs
	}
	if pc.Color() == Black {
		return blackManDirs
	}
	return redManDirs
}

// LegalMoves returns every legal move for the side to move. Captures are
// mandatory: if any jump exists only maximal capture chains are returned.
// An empty result means the side to move has lost.
func (p *Position) LegalMoves() []Move {
	side := p.SideToMove
	if side != Black && side != Red {
		return nil
	}

	var jumps []Move
	p.forEachPiece(side, func(sq Square, pc Piece) {
		genJumpChains(&p.Board, sq, pc, &jumps)
	})
	if len(jumps) > 0 {
		return dedupeMoves(jumps)
	}

	var steps []Move
	p.forEachPiece(side, func(sq Square, pc Piece) {
		genSteps(&p.Board, sq, pc, &steps)
	})
	return steps
}

// HasCapture reports whether the side to move has at least one jump.
func (p *Position) HasCapture() bool {
	found := false
	p.forEachPiece(p.SideToMove, func(sq Square, pc Piece) {
		if !found && canJump(&p.Board, sq, pc) {
			found = true
		}
	})
	return found
}

func (p *Position) forEachPiece(side Color, fn func(sq Square, pc Piece)) {
	b := &p.Board
	for r := 0; r < b.Size; r++ {
		for c := 0; c < b.Size; c++ {
			pc := b.Squares[indexOf(r, c)]
			if pc == Empty || pc.Color() != side {
				continue
			}
			fn(Square{Row: r, Col: c}, pc)
		}
	}
}

func genSteps(b *Board, from Square, pc Piece, moves *[]Move) {
	for _, d := range pieceDirs(pc) {
		to := Square{Row: from.Row + d[0], Col: from.Col + d[1]}
		if !b.onBoard(to.Row, to.Col) || b.At(to) != Empty {
			continue
		}
		*moves = append(*moves, Move{
			Path:     []Square{from, to},
			Promotes: promotes(b, pc, to),
		})
	}
}

// canJump: pc standing on sq has at least one capturing jump on b.
func canJump(b *Board, sq Square, pc Piece) bool {
	for _, d := range pieceDirs(pc) {
		if jumpable(b, sq, pc, d) {
			return true
		}
	}
	return false
}

func jumpable(b *Board, from Square, pc Piece, d [2]int) bool {
	over := Square{Row: from.Row + d[0], Col: from.Col + d[1]}
	land := Square{Row: from.Row + 2*d[0], Col: from.Col + 2*d[1]}
	if !b.onBoard(land.Row, land.Col) {
		return false
	}
	victim := b.At(over)
	if victim == Empty || victim.Color() == pc.Color() {
		return false
	}
	return b.At(land) == Empty
}

func genJumpChains(b *Board, from Square, pc Piece, moves *[]Move) {
	if !canJump(b, from, pc) {
		return
	}
	// 起点先把子拿起来，连跳可以回到原位
	work := *b
	work.set(from, Empty)
	extendChain(&work, pc, []Square{from}, nil, moves)
}

// extendChain 深度优先枚举所有极大连跳。被吃的子立即移除，不会被跳两次；
// 跳子在整条链上保持原来的兵/王身份，升变只在终点判断。
func extendChain(b *Board, pc Piece, path, captured []Square, moves *[]Move) {
	cur := path[len(path)-1]
	extended := false
	for _, d := range pieceDirs(pc) {
		if !jumpable(b, cur, pc, d) {
			continue
		}
		over := Square{Row: cur.Row + d[0], Col: cur.Col + d[1]}
		land := Square{Row: cur.Row + 2*d[0], Col: cur.Col + 2*d[1]}

		next := *b
		next.set(over, Empty)
		extendChain(&next, pc,
			append(slices.Clip(slices.Clone(path)), land),
			append(slices.Clip(slices.Clone(captured)), over),
			moves)
		extended = true
	}
	if !extended && len(path) > 1 {
		last := path[len(path)-1]
		*moves = append(*moves, Move{
			Path:     path,
			Captured: captured,
			Promotes: promotes(b, pc, last),
		})
	}
}

func promotes(b *Board, pc Piece, to Square) bool {
	return pc.Rank() == RankMan && to.Row == b.backRank(pc.Color())
}

func dedupeMoves(moves []Move) []Move {
	seen := make(map[string]struct{}, len(moves))
	out := moves[:0]
	for _, m := range moves {
		k := moveKey(m)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, m)
	}
	return out
}

func moveKey(m Move) string {
	var sb strings.Builder
	for _, sq := range m.Path {
		sb.WriteString(strconv.Itoa(indexOf(sq.Row, sq.Col)))
		sb.WriteByte(',')
	}
	sb.WriteByte('|')
	for _, sq := range m.Captured {
		sb.WriteString(strconv.Itoa(indexOf(sq.Row, sq.Col)))
		sb.WriteByte(',')
	}
	return sb.String()
}
