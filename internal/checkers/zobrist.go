package checkers

import "sync"

var (
	zobristOnce sync.Once

	zobristPieces [2][3][MaxCells]uint64 // [color][rank][cell]，rank 0 不用
	zobristSizes  [MaxSize + 1]uint64
	zobristSide   uint64
)

func initZobrist() {
	zobristOnce.Do(func() {
		seed := uint64(0x9E3779B97F4A7C15)
		next := func() uint64 {
			seed += 0x9E3779B97F4A7C15
			z := seed
			z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
			z = (z ^ (z >> 27)) * 0x94D049BB133111EB
			return z ^ (z >> 31)
		}

		for c := 0; c < 2; c++ {
			for r := int(RankMan); r <= int(RankKing); r++ {
				for i := 0; i < MaxCells; i++ {
					zobristPieces[c][r][i] = next()
				}
			}
		}
		for n := range zobristSizes {
			zobristSizes[n] = next()
		}
		zobristSide = next()
	})
}

func pieceHashKey(pc Piece, sq Square) uint64 {
	if pc == Empty || sq.Row < 0 || sq.Row >= MaxSize || sq.Col < 0 || sq.Col >= MaxSize {
		return 0
	}
	initZobrist()

	var c int
	switch pc.Color() {
	case Black:
		c = 0
	case Red:
		c = 1
	default:
		return 0
	}
	r := int(pc.Rank())
	if r < int(RankMan) || r > int(RankKing) {
		return 0
	}
	return zobristPieces[c][r][indexOf(sq.Row, sq.Col)]
}

// CalculateHash 全量计算当前局面的 Zobrist 哈希。
func (p *Position) CalculateHash() uint64 {
	initZobrist()

	var h uint64
	b := &p.Board
	for r := 0; r < b.Size; r++ {
		for c := 0; c < b.Size; c++ {
			pc := b.Squares[indexOf(r, c)]
			if pc == Empty {
				continue
			}
			h ^= pieceHashKey(pc, Square{Row: r, Col: c})
		}
	}
	if b.Size >= 0 && b.Size <= MaxSize {
		h ^= zobristSizes[b.Size]
	}
	if p.SideToMove == Red {
		h ^= zobristSide
	}
	return h
}
