package mcts

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"checkers/internal/checkers"
	"checkers/internal/engine"
)

// Searcher is a PUCT tree search whose leaves are scored by a static
// evaluator instead of random rollouts. Priors are uniform.
type Searcher struct {
	ev     engine.Evaluator
	params SearchParams
}

func NewSearcher(ev engine.Evaluator, params SearchParams) *Searcher {
	if ev == nil {
		ev = engine.DefaultMaterial
	}
	if params.EvalScale <= 0 {
		params.EvalScale = DefaultParams().EvalScale
	}
	return &Searcher{ev: ev, params: params}
}

// Search runs up to Simulations playouts, stopping early on MaxTime or ctx.
// The reported Score is on the engine scale (positive favours Black).
func (s *Searcher) Search(ctx context.Context, pos *checkers.Position) (engine.SearchResult, error) {
	start := time.Now()
	moves := pos.LegalMoves()
	if len(moves) == 0 {
		return engine.SearchResult{}, engine.ErrNoMoves
	}
	if len(moves) == 1 {
		return engine.SearchResult{
			BestMove: moves[0],
			Score:    engine.Evaluate(pos.Successor(moves[0]), s.ev),
			TimeUsed: time.Since(start),
		}, nil
	}

	if s.params.MaxTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.params.MaxTime)
		defer cancel()
	}

	root := NewNode(checkers.Move{}, nil, pos.SideToMove)
	s.expandNode(root, pos)

	sims := int64(max(s.params.Simulations, 1))
	var claimed int64
	var g errgroup.Group
	for t := 0; t < max(s.params.NumThreads, 1); t++ {
		g.Go(func() error {
			for atomic.AddInt64(&claimed, 1) <= sims {
				if ctx.Err() != nil {
					return nil
				}
				s.playout(root, pos)
			}
			return nil
		})
	}
	_ = g.Wait()

	best := bestChild(root)
	pv := principalVariation(root)
	return engine.SearchResult{
		BestMove: best.Move,
		Score:    s.utilityToScore(best.GetUtilityForSelection(checkers.Black)),
		Depth:    len(pv),
		Nodes:    root.visits(),
		TimeUsed: time.Since(start),
		Aborted:  root.visits() < sims,
	}, nil
}

// 访问次数最多者；并列时取先生成的着法
func bestChild(n *Node) *Node {
	var best *Node
	for _, c := range n.Children {
		if best == nil || c.visits() > best.visits() {
			best = c
		}
	}
	return best
}

func principalVariation(root *Node) []checkers.Move {
	var pv []checkers.Move
	for n := root; atomic.LoadInt32(&n.State) == StateExpanded && len(n.Children) > 0; {
		n = bestChild(n)
		if n.visits() == 0 {
			break
		}
		pv = append(pv, n.Move)
	}
	return pv
}

func (s *Searcher) playout(root *Node, pos *checkers.Position) {
	node := root
	cur := pos
	path := []*Node{node}

	// Selection
	for atomic.LoadInt32(&node.State) == StateExpanded && !node.IsTerminal {
		next := s.selectChildPUCT(node)
		if next == nil {
			break
		}
		atomic.AddInt32(&next.VirtualLosses, 1)
		node = next
		path = append(path, node)
		cur = cur.Successor(next.Move)
	}

	// Expansion & Evaluation
	s.expandNode(node, cur)
	utility := s.leafUtility(cur)

	// Backpropagation
	for i := len(path) - 1; i >= 0; i-- {
		n := path[i]
		n.RecordPlayout(utility, 1.0)
		if i > 0 {
			atomic.AddInt32(&n.VirtualLosses, -1)
		}
	}
}

func (s *Searcher) selectChildPUCT(node *Node) *Node {
	node.mu.Lock()
	totalWeight := node.Stats.WeightSum
	parentUtility := node.Stats.UtilityAvg
	node.mu.Unlock()
	if node.NextPla == checkers.Red {
		parentUtility = -parentUtility
	}

	cpuct := s.params.GetCpuct(totalWeight)
	fpuValue := parentUtility - s.params.FpuReductionMax

	var best *Node
	maxSelectionValue := -1e20
	for _, child := range node.Children {
		childWeight := float64(child.visits())
		vLoss := float64(atomic.LoadInt32(&child.VirtualLosses))

		var childUtility float64
		switch {
		case childWeight > 0:
			childUtility = child.GetUtilityForSelection(node.NextPla)
			if vLoss > 0 {
				// 正在被别的线程探索：按最差价值拉低
				f := vLoss / (vLoss + childWeight)
				childUtility = childUtility*(1-f) - f
			}
		case vLoss > 0:
			childUtility = -1
		default:
			childUtility = fpuValue
		}
		childWeight += vLoss

		exploreValue := cpuct * float64(child.Prior) * math.Sqrt(totalWeight+1.0) / (1.0 + childWeight)
		if v := childUtility + exploreValue; v > maxSelectionValue {
			maxSelectionValue = v
			best = child
		}
	}
	return best
}

// Unevaluated -> Evaluating -> Expanded. Children 在 State 原子写入之前建好，
// 之后只读。
func (s *Searcher) expandNode(node *Node, pos *checkers.Position) {
	if !atomic.CompareAndSwapInt32(&node.State, StateUnevaluated, StateEvaluating) {
		return
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		node.IsTerminal = true
		node.Winner = pos.SideToMove.Opponent()
		atomic.StoreInt32(&node.State, StateExpanded)
		return
	}

	prior := 1.0 / float32(len(moves))
	next := pos.SideToMove.Opponent()
	children := make([]*Node, len(moves))
	for i, mv := range moves {
		children[i] = NewNode(mv, node, next)
		children[i].Prior = prior
	}
	node.Children = children
	atomic.StoreInt32(&node.State, StateExpanded)
}

// Black 视角的 utility；终局是 ±1
func (s *Searcher) leafUtility(pos *checkers.Position) float64 {
	return math.Tanh(float64(engine.Evaluate(pos, s.ev)) / s.params.EvalScale)
}

func (s *Searcher) utilityToScore(u float64) int {
	const edge = 0.999
	switch {
	case u >= edge:
		return engine.WinScore
	case u <= -edge:
		return -engine.WinScore
	}
	return int(math.Round(math.Atanh(u) * s.params.EvalScale))
}
