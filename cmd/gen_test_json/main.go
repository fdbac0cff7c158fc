package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"

	"checkers/internal/checkers"
	"checkers/internal/engine"
)

// 一条用例：局面 + 全部合法着法，可选附带引擎给出的最佳着法
type TestCase struct {
	Position   string   `json:"position"`
	ToMove     string   `json:"to_move"`
	LegalMoves []string `json:"legal_moves"`
	Capture    bool     `json:"capture"`
	BestMove   string   `json:"best_move,omitempty"`
	Score      int      `json:"score,omitempty"`
	Depth      int      `json:"depth,omitempty"`
}

func main() {
	numGames := flag.Int("games", 10, "random games to sample")
	size := flag.Int("size", checkers.DefaultSize, "board size")
	depth := flag.Int("depth", 0, "also record the engine's best move at this depth (0 = skip)")
	seed := flag.Int64("seed", 1, "random seed")
	out := flag.String("out", "move_gen_test_data.json", "output file")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))
	e := engine.NewEngine()
	var testCases []TestCase

	for g := 0; g < *numGames; g++ {
		pos, err := checkers.NewInitialPositionSize(*size)
		if err != nil {
			log.Fatal(err)
		}
		maxPlies := 300 // 防死循环
		for ply := 0; ply < maxPlies; ply++ {
			legal := pos.LegalMoves()
			if len(legal) == 0 {
				break
			}

			tc := TestCase{
				Position: pos.Encode(),
				ToMove:   pos.SideToMove.String(),
				Capture:  legal[0].IsCapture(),
			}
			for _, mv := range legal {
				tc.LegalMoves = append(tc.LegalMoves, mv.Notation(pos.Board.Size))
			}
			if *depth > 0 {
				best, err := e.BestMove(pos, *depth)
				if err != nil {
					log.Fatal(err)
				}
				score, _ := e.AlphaBetaValue(pos, *depth)
				tc.BestMove, tc.Score, tc.Depth = best.Notation(pos.Board.Size), score, *depth
			}
			testCases = append(testCases, tc)

			// 随机选一步
			pos = pos.Successor(legal[rng.Intn(len(legal))])
		}
	}

	data, err := json.MarshalIndent(testCases, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*out, data, 0644); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Generated %d test cases from %d random games to %s\n", len(testCases), *numGames, *out)
}
