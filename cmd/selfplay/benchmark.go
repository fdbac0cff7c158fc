package main

import (
	"fmt"
	"math/rand"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"checkers/internal/checkers"
	"checkers/internal/engine"
)

// samplePositions plays random openings so the benchmark is not dominated
// by the start position.
func samplePositions(n int, seed int64) []*checkers.Position {
	rng := rand.New(rand.NewSource(seed))
	out := make([]*checkers.Position, 0, n)
	for len(out) < n {
		pos := checkers.NewInitialPosition()
		plies := 4 + rng.Intn(20)
		for i := 0; i < plies; i++ {
			moves := pos.LegalMoves()
			if len(moves) == 0 {
				break
			}
			pos = pos.Successor(moves[rng.Intn(len(moves))])
		}
		if !pos.IsTerminal() {
			out = append(out, pos)
		}
	}
	return out
}

// runBenchmark checks alpha-beta against plain minimax on sampled positions
// and reports how many nodes pruning saves at each depth.
func runBenchmark(positions, maxDepth, workers int) error {
	sample := samplePositions(positions, 1)
	ev := engine.DefaultMaterial

	fmt.Printf("%-6s %14s %14s %8s\n", "depth", "minimax", "alphabeta", "ratio")
	for depth := 1; depth <= maxDepth; depth++ {
		var mmNodes, abNodes int64
		var g errgroup.Group
		g.SetLimit(max(workers, 1))
		for i, pos := range sample {
			i, pos := i, pos
			g.Go(func() error {
				e := engine.NewEngine()
				e.SetEvaluator(ev)
				want, mm := engine.Minimax(pos, depth, ev)
				got, ab := e.AlphaBetaValue(pos, depth)
				if got != want {
					return fmt.Errorf("position %d (%s) depth %d: alpha-beta %d, minimax %d", i, pos.Encode(), depth, got, want)
				}
				atomic.AddInt64(&mmNodes, mm)
				atomic.AddInt64(&abNodes, ab)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
		fmt.Printf("%-6d %14d %14d %7.2fx\n", depth, mmNodes, abNodes, float64(mmNodes)/float64(max(abNodes, 1)))
	}
	return nil
}
