package engine

import "checkers/internal/checkers"

// Minimax is the unpruned reference search: same recursion, same terminal
// rule and evaluator as the engine, no cut-offs. It returns the value of pos
// and the number of nodes visited.
func Minimax(pos *checkers.Position, depth int, ev Evaluator) (int, int64) {
	var nodes int64
	score := minimax(pos, depth, ev, &nodes)
	return score, nodes
}

func minimax(pos *checkers.Position, depth int, ev Evaluator, nodes *int64) int {
	*nodes++

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return terminalScore(pos.SideToMove)
	}
	if depth <= 0 {
		if v, ok := opponentWipedOut(pos); ok {
			return v
		}
		return ev.Evaluate(pos)
	}

	maximize := pos.SideToMove == checkers.Black
	best := scoreInf
	if maximize {
		best = -scoreInf
	}
	for _, mv := range moves {
		score := minimax(pos.Successor(mv), depth-1, ev, nodes)
		if maximize {
			best = max(best, score)
		} else {
			best = min(best, score)
		}
	}
	return best
}
