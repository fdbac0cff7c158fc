package checkers

import "golang.org/x/exp/slices"

func (m Move) From() Square {
	if len(m.Path) == 0 {
		return Square{Row: -1, Col: -1}
	}
	return m.Path[0]
}

func (m Move) To() Square {
	if len(m.Path) == 0 {
		return Square{Row: -1, Col: -1}
	}
	return m.Path[len(m.Path)-1]
}

func (m Move) IsCapture() bool { return len(m.Captured) > 0 }

func (m Move) IsZero() bool { return len(m.Path) == 0 }

// Equal compares path, captured squares and promotion flag.
func (m Move) Equal(o Move) bool {
	return m.Promotes == o.Promotes &&
		slices.Equal(m.Path, o.Path) &&
		slices.Equal(m.Captured, o.Captured)
}

// matches is the looser comparison used for moves coming from a player:
// the path must match, captured squares only when the caller supplied them.
func (m Move) matches(req Move) bool {
	if !slices.Equal(m.Path, req.Path) {
		return false
	}
	return len(req.Captured) == 0 || slices.Equal(m.Captured, req.Captured)
}

// Resolve returns the legal move matching m: same path, and the same
// captured squares when m lists them. The result carries the full capture
// list and promotion flag. Use it for player input (notation, JSON paths)
// before ApplyMove.
func (p *Position) Resolve(m Move) (Move, error) {
	legal := p.LegalMoves()
	for i := range legal {
		if legal[i].matches(m) {
			return legal[i], nil
		}
	}
	return Move{}, &IllegalMoveError{Move: m, Reason: p.illegalReason(m, legal)}
}

// ApplyMove plays m and returns the successor position. m must equal one of
// p.LegalMoves() exactly (path, captured squares and promotion flag);
// anything else fails with *IllegalMoveError.
func (p *Position) ApplyMove(m Move) (*Position, error) {
	legal := p.LegalMoves()
	for i := range legal {
		if legal[i].Equal(m) {
			return p.Successor(legal[i]), nil
		}
	}
	return nil, &IllegalMoveError{Move: m, Reason: p.illegalReason(m, legal)}
}

func (p *Position) illegalReason(m Move, legal []Move) string {
	if len(legal) == 0 {
		return "side to move has no legal moves"
	}
	if len(m.Path) < 2 {
		return "path needs a start and at least one landing square"
	}
	pc := p.Board.At(m.From())
	if pc == Empty || pc.Color() != p.SideToMove {
		return "no " + p.SideToMove.String() + " piece on the start square"
	}
	if legal[0].IsCapture() && len(m.Path) == 2 && !isJumpStep(m.Path[0], m.Path[1]) {
		return "a capture is available and must be taken"
	}
	for _, lm := range legal {
		if len(lm.Path) > len(m.Path) && slices.Equal(lm.Path[:len(m.Path)], m.Path) {
			return "capture chain must be continued"
		}
	}
	for _, lm := range legal {
		if slices.Equal(lm.Path, m.Path) {
			return "captured squares or promotion flag do not match the move"
		}
	}
	return "not a legal move in this position"
}

func isJumpStep(a, b Square) bool {
	dr, dc := b.Row-a.Row, b.Col-a.Col
	return (dr == 2 || dr == -2) && (dc == 2 || dc == -2)
}

// Successor applies a move taken from p.LegalMoves() without validating it.
// The search uses this to avoid regenerating the legal set at every node.
func (p *Position) Successor(m Move) *Position {
	np := *p
	from, to := m.From(), m.To()
	pc := np.Board.At(from)

	h := p.Hash
	if h == 0 {
		h = p.CalculateHash()
	}
	h ^= pieceHashKey(pc, from)
	np.Board.set(from, Empty)

	for _, sq := range m.Captured {
		h ^= pieceHashKey(np.Board.At(sq), sq)
		np.Board.set(sq, Empty)
	}

	if m.Promotes {
		pc = makePiece(pc.Color(), RankKing)
	}
	np.Board.set(to, pc)
	h ^= pieceHashKey(pc, to)

	np.SideToMove = p.SideToMove.Opponent()
	h ^= zobristSide
	np.Hash = h
	return &np
}
