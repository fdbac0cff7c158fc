package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"checkers/internal/book"
	"checkers/internal/checkers"
	"checkers/internal/engine"
	"checkers/internal/mcts"
)

type PlayerConfig struct {
	Name string
	Kind string // "ab" 或 "mcts"
	Eval engine.Evaluator
	Cfg  engine.SearchConfig
	Sims int
}

// player 是一方的搜索器，每局新建
type player interface {
	Search(ctx context.Context, pos *checkers.Position) (engine.SearchResult, error)
}

type abPlayer struct {
	e   *engine.Engine
	cfg engine.SearchConfig
}

func (p abPlayer) Search(ctx context.Context, pos *checkers.Position) (engine.SearchResult, error) {
	return p.e.Search(ctx, pos, p.cfg)
}

func (pc PlayerConfig) newPlayer(bk *book.Book) player {
	if pc.Kind == "mcts" {
		params := mcts.DefaultParams()
		params.Simulations = pc.Sims
		params.MaxTime = pc.Cfg.TimeLimit
		params.NumThreads = 1
		return mcts.NewSearcher(pc.Eval, params)
	}
	e := engine.NewEngine()
	e.SetEvaluator(pc.Eval)
	if bk != nil {
		e.UseBook(bk)
	}
	return abPlayer{e: e, cfg: pc.Cfg}
}

type gameResult struct {
	Winner checkers.Color // NoColor = 和棋（步数上限）
	Plies  int
	Nodes  int64
}

func main() {
	totalGames := flag.Int("games", 10, "number of games to play")
	depthA := flag.Int("depth-a", 5, "search depth of player A")
	depthB := flag.Int("depth-b", 3, "search depth of player B")
	evalA := flag.String("eval-a", "material", "evaluation of player A")
	evalB := flag.String("eval-b", "positional", "evaluation of player B")
	kindA := flag.String("kind-a", "ab", "search of player A: ab | mcts")
	kindB := flag.String("kind-b", "ab", "search of player B: ab | mcts")
	sims := flag.Int("sims", 4000, "MCTS playouts per move")
	timeMs := flag.Int("time", 0, "per-move time limit in ms (0 = none)")
	size := flag.Int("size", checkers.DefaultSize, "board size")
	maxPlies := flag.Int("maxplies", 300, "plies before a game is called a draw")
	parallel := flag.Int("parallel", 4, "games played at once")
	bookDir := flag.String("book", "", "badger directory shared by all games")
	bench := flag.Bool("bench", false, "compare alpha-beta against plain minimax instead of playing")
	benchDepth := flag.Int("bench-depth", 4, "deepest ply for -bench")
	benchPositions := flag.Int("bench-positions", 32, "sampled positions for -bench")
	flag.Parse()

	if *bench {
		if err := runBenchmark(*benchPositions, *benchDepth, *parallel); err != nil {
			log.Fatal(err)
		}
		return
	}

	mk := func(kind, evalName string, depth int) PlayerConfig {
		ev, err := engine.ParseEvaluator(evalName)
		if err != nil {
			log.Fatal(err)
		}
		pc := PlayerConfig{
			Name: fmt.Sprintf("Alpha-Beta %s (depth %d)", evalName, depth),
			Kind: kind,
			Eval: ev,
			Cfg: engine.SearchConfig{
				MaxDepth:  depth,
				TimeLimit: time.Duration(*timeMs) * time.Millisecond,
			},
			Sims: *sims,
		}
		switch kind {
		case "ab":
		case "mcts":
			pc.Name = fmt.Sprintf("MCTS %s (%d sims)", evalName, *sims)
		default:
			log.Fatalf("unknown player kind %q", kind)
		}
		return pc
	}
	playerA, playerB := mk(*kindA, *evalA, *depthA), mk(*kindB, *evalB, *depthB)

	var bk *book.Book
	if *bookDir != "" {
		var err error
		if bk, err = book.Open(*bookDir); err != nil {
			log.Fatalf("open book: %v", err)
		}
		defer bk.Close()
	}

	results := make([]gameResult, *totalGames)
	var g errgroup.Group
	g.SetLimit(max(*parallel, 1))
	for i := 0; i < *totalGames; i++ {
		i := i
		// 轮流执黑
		black, red := playerA, playerB
		if i%2 == 1 {
			black, red = playerB, playerA
		}
		g.Go(func() error {
			res, err := playGame(*size, *maxPlies, black, red, bk)
			if err != nil {
				return fmt.Errorf("game %d: %w", i+1, err)
			}
			results[i] = res
			log.Printf("game %d: black [%s] vs red [%s] -> %s after %d plies", i+1, black.Name, red.Name, describe(res.Winner), res.Plies)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}

	aWins, bWins, draws := 0, 0, 0
	var nodes int64
	for i, r := range results {
		nodes += r.Nodes
		aBlack := i%2 == 0
		switch {
		case r.Winner == checkers.NoColor:
			draws++
		case (r.Winner == checkers.Black) == aBlack:
			aWins++
		default:
			bWins++
		}
	}

	fmt.Printf("\n=== Final Score ===\n")
	fmt.Printf("A %s: %d\n", playerA.Name, aWins)
	fmt.Printf("B %s: %d\n", playerB.Name, bWins)
	fmt.Printf("Draws: %d\n", draws)
	fmt.Printf("Nodes searched: %d\n", nodes)
}

func describe(c checkers.Color) string {
	if c == checkers.NoColor {
		return "draw"
	}
	return c.String() + " wins"
}

// 每局每方新建搜索器：节点计数和估值缓存互不干扰
func playGame(size, maxPlies int, black, red PlayerConfig, bk *book.Book) (gameResult, error) {
	pos, err := checkers.NewInitialPositionSize(size)
	if err != nil {
		return gameResult{}, err
	}
	players := map[checkers.Color]player{
		checkers.Black: black.newPlayer(bk),
		checkers.Red:   red.newPlayer(bk),
	}

	var res gameResult
	for res.Plies = 0; res.Plies < maxPlies; res.Plies++ {
		if pos.IsTerminal() {
			res.Winner = pos.Winner()
			return res, nil
		}
		sr, err := players[pos.SideToMove].Search(context.Background(), pos)
		if err != nil {
			return res, err
		}
		res.Nodes += sr.Nodes
		if pos, err = pos.ApplyMove(sr.BestMove); err != nil {
			return res, err
		}
	}
	res.Winner = checkers.NoColor
	return res, nil
}
