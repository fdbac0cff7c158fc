package engine

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"checkers/internal/checkers"
)

// 搜索配置
type SearchConfig struct {
	MaxDepth  int           // 最大搜索深度（ply），至少 1
	TimeLimit time.Duration // 搜索时间上限（0 表示不限制）
	Workers   int           // >1 时根节点并行
}

// 搜索结果
type SearchResult struct {
	BestMove checkers.Move
	Score    int // 正：黑方好，负：红方好
	Depth    int // 完成的深度；唯一着法时为 0
	Nodes    int64
	TimeUsed time.Duration
	Aborted  bool // 超时/取消，结果来自较浅的搜索
	FromBook bool
}

// BestMove returns the move chosen by a full-width alpha-beta search of
// maxDepth plies.
func (e *Engine) BestMove(pos *checkers.Position, maxDepth int) (checkers.Move, error) {
	res, err := e.Search(context.Background(), pos, SearchConfig{MaxDepth: maxDepth})
	if err != nil {
		return checkers.Move{}, err
	}
	return res.BestMove, nil
}

// Search picks a move for the side to move: Black maximises, Red minimises.
//
// Without a deadline the tree is searched once at cfg.MaxDepth. With a
// TimeLimit or a cancellable ctx the engine deepens iteratively and, when
// stopped, returns the best move of the deepest finished iteration (or the
// best found so far during the first one). Abort never produces an error.
func (e *Engine) Search(ctx context.Context, pos *checkers.Position, cfg SearchConfig) (SearchResult, error) {
	if cfg.MaxDepth < 1 {
		return SearchResult{}, &InvalidDepthError{Depth: cfg.MaxDepth}
	}
	start := time.Now()
	atomic.StoreInt64(&e.nodes, 0)

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return SearchResult{}, ErrNoMoves
	}

	// 唯一着法：不用搜
	if len(moves) == 1 {
		return SearchResult{
			BestMove: moves[0],
			Score:    Evaluate(pos.Successor(moves[0]), e.ev),
			TimeUsed: time.Since(start),
		}, nil
	}

	if ent, ok := e.probeBook(pos, cfg.MaxDepth, moves); ok {
		return SearchResult{
			BestMove: ent.Move,
			Score:    ent.Score,
			Depth:    ent.Depth,
			TimeUsed: time.Since(start),
			FromBook: true,
		}, nil
	}

	if cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.TimeLimit)
		defer cancel()
	}

	first := cfg.MaxDepth
	if ctx.Done() != nil {
		first = 1
	}

	var res SearchResult
	for depth := first; depth <= cfg.MaxDepth; depth++ {
		if depth > first && ctx.Err() != nil {
			res.Aborted = true
			break
		}
		score, move, complete := e.alphaBetaRoot(ctx, pos, moves, depth, cfg.Workers)
		if !complete {
			if res.BestMove.IsZero() {
				res.BestMove, res.Score, res.Depth = move, score, depth
			}
			res.Aborted = true
			break
		}
		res.BestMove, res.Score, res.Depth = move, score, depth
	}

	res.Nodes = atomic.LoadInt64(&e.nodes)
	res.TimeUsed = time.Since(start)
	e.storeBook(pos, res)
	return res, nil
}

// AlphaBetaValue returns the full-window alpha-beta value of pos searched to
// depth plies and the number of nodes visited.
func (e *Engine) AlphaBetaValue(pos *checkers.Position, depth int) (int, int64) {
	atomic.StoreInt64(&e.nodes, 0)
	score := e.alphaBeta(context.Background(), pos, depth, -scoreInf, scoreInf)
	return score, atomic.LoadInt64(&e.nodes)
}

// 根节点：根据 SideToMove 决定是 max 还是 min。并列时保留先出现的着法。
// complete=false 表示中途被取消，返回的是目前为止最好的着法。
func (e *Engine) alphaBetaRoot(ctx context.Context, pos *checkers.Position, moves []checkers.Move, depth, workers int) (int, checkers.Move, bool) {
	if workers > 1 {
		return e.alphaBetaRootParallel(ctx, pos, moves, depth, workers)
	}
	atomic.AddInt64(&e.nodes, 1)

	maximize := pos.SideToMove == checkers.Black
	alpha, beta := -scoreInf, scoreInf
	bestScore := scoreInf
	if maximize {
		bestScore = -scoreInf
	}
	var bestMove checkers.Move

	for i, mv := range moves {
		if i > 0 && ctx.Err() != nil {
			return bestScore, bestMove, false
		}
		score := e.alphaBeta(ctx, pos.Successor(mv), depth-1, alpha, beta)
		if maximize {
			if score > bestScore {
				bestScore, bestMove = score, mv
			}
			alpha = max(alpha, bestScore)
		} else {
			if score < bestScore {
				bestScore, bestMove = score, mv
			}
			beta = min(beta, bestScore)
		}
	}
	return bestScore, bestMove, ctx.Err() == nil
}

// 根节点并行：每个子节点用完整窗口搜索得到精确值，再按生成顺序挑选，
// 所以结果与串行版本一致。
func (e *Engine) alphaBetaRootParallel(ctx context.Context, pos *checkers.Position, moves []checkers.Move, depth, workers int) (int, checkers.Move, bool) {
	atomic.AddInt64(&e.nodes, 1)

	scores := make([]int, len(moves))
	done := make([]bool, len(moves))

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range moves {
		i := i
		g.Go(func() error {
			if i > 0 && ctx.Err() != nil {
				return nil
			}
			scores[i] = e.alphaBeta(ctx, pos.Successor(moves[i]), depth-1, -scoreInf, scoreInf)
			done[i] = true
			return nil
		})
	}
	_ = g.Wait()

	maximize := pos.SideToMove == checkers.Black
	bestScore := scoreInf
	if maximize {
		bestScore = -scoreInf
	}
	var bestMove checkers.Move
	complete := ctx.Err() == nil
	for i := range moves {
		if !done[i] {
			complete = false
			continue
		}
		if (maximize && scores[i] > bestScore) || (!maximize && scores[i] < bestScore) {
			bestScore, bestMove = scores[i], moves[i]
		}
	}
	return bestScore, bestMove, complete
}

// 内部递归：标准 alpha-beta。终局在任何深度都先判断，不按深度折扣。
func (e *Engine) alphaBeta(ctx context.Context, pos *checkers.Position, depth, alpha, beta int) int {
	atomic.AddInt64(&e.nodes, 1)

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return terminalScore(pos.SideToMove)
	}
	if depth <= 0 {
		if v, ok := opponentWipedOut(pos); ok {
			return v
		}
		return e.eval(pos)
	}

	if pos.SideToMove == checkers.Black {
		best := -scoreInf
		for i := range moves {
			if i > 0 && ctx.Err() != nil {
				break
			}
			score := e.alphaBeta(ctx, pos.Successor(moves[i]), depth-1, alpha, beta)
			if score > best {
				best = score
			}
			if best > alpha {
				alpha = best
			}
			if alpha >= beta {
				break
			}
		}
		return best
	}

	best := scoreInf
	for i := range moves {
		if i > 0 && ctx.Err() != nil {
			break
		}
		score := e.alphaBeta(ctx, pos.Successor(moves[i]), depth-1, alpha, beta)
		if score < best {
			best = score
		}
		if best < beta {
			beta = best
		}
		if alpha >= beta {
			break
		}
	}
	return best
}
