package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"checkers/internal/checkers"
)

func sq(r, c int) checkers.Square { return checkers.Square{Row: r, Col: c} }

func mustPosition(t *testing.T, side checkers.Color, pieces map[checkers.Square]checkers.Piece) *checkers.Position {
	t.Helper()
	pos, err := checkers.NewPosition(checkers.DefaultSize, side, pieces)
	require.NoError(t, err)
	return pos
}

// samplePositions plays seeded random games and keeps every fifth
// non-terminal position.
func samplePositions(t *testing.T, n int) []*checkers.Position {
	t.Helper()
	rng := rand.New(rand.NewSource(42))
	out := []*checkers.Position{checkers.NewInitialPosition()}
	for len(out) < n {
		pos := checkers.NewInitialPosition()
		for ply := 0; ply < 80 && len(out) < n; ply++ {
			moves := pos.LegalMoves()
			if len(moves) == 0 {
				break
			}
			if ply%5 == 4 {
				out = append(out, pos)
			}
			pos = pos.Successor(moves[rng.Intn(len(moves))])
		}
	}
	return out
}

func TestSearchErrors(t *testing.T) {
	e := NewEngine()

	t.Run("InvalidDepth", func(t *testing.T) {
		for _, d := range []int{0, -3} {
			_, err := e.BestMove(checkers.NewInitialPosition(), d)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDepth))
			var ide *InvalidDepthError
			require.ErrorAs(t, err, &ide)
			assert.Equal(t, d, ide.Depth)
		}
	})

	t.Run("NoMoves", func(t *testing.T) {
		pos := mustPosition(t, checkers.Black, map[checkers.Square]checkers.Piece{
			sq(5, 0): checkers.RedMan,
		})
		_, err := e.BestMove(pos, 3)
		assert.ErrorIs(t, err, ErrNoMoves)
	})
}

func TestOpeningMoveAtDepthOne(t *testing.T) {
	pos := checkers.NewInitialPosition()
	mv, err := NewEngine().BestMove(pos, 1)
	require.NoError(t, err)
	assert.False(t, mv.IsCapture())
	assert.Equal(t, 1, mv.To().Row-mv.From().Row)

	_, err = pos.ApplyMove(mv)
	assert.NoError(t, err)
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	positions := samplePositions(t, 24)
	for _, ev := range []Evaluator{DefaultMaterial, DefaultPositional} {
		e := NewEngine()
		e.SetEvaluator(ev)
		for i, pos := range positions {
			for depth := 1; depth <= 4; depth++ {
				want, fullNodes := Minimax(pos, depth, ev)
				got, nodes := e.AlphaBetaValue(pos, depth)
				require.Equal(t, want, got, "position %d (%s) depth %d evaluator %s", i, pos.Encode(), depth, evaluatorName(ev))
				require.LessOrEqual(t, nodes, fullNodes)
			}
		}
	}
}

func TestPruningVisitsFewerNodes(t *testing.T) {
	pos := checkers.NewInitialPosition()
	_, full := Minimax(pos, 5, DefaultMaterial)
	_, pruned := NewEngine().AlphaBetaValue(pos, 5)
	assert.Less(t, pruned, full)
}

func TestSearchScoreIsMinimaxValue(t *testing.T) {
	e := NewEngine()
	for _, pos := range samplePositions(t, 12) {
		if len(pos.LegalMoves()) < 2 {
			continue
		}
		res, err := e.Search(context.Background(), pos, SearchConfig{MaxDepth: 3})
		require.NoError(t, err)
		want, _ := Minimax(pos, 3, DefaultMaterial)
		assert.Equal(t, want, res.Score, pos.Encode())
		assert.Equal(t, 3, res.Depth)
		assert.False(t, res.Aborted)

		// the chosen move really achieves that value
		child := pos.Successor(res.BestMove)
		got, _ := Minimax(child, 2, DefaultMaterial)
		assert.Equal(t, want, got)
	}
}

func TestDeterminism(t *testing.T) {
	for _, pos := range samplePositions(t, 8) {
		if pos.IsTerminal() {
			continue
		}
		a, err := NewEngine().BestMove(pos, 4)
		require.NoError(t, err)
		e := NewEngine()
		for i := 0; i < 3; i++ {
			b, err := e.BestMove(pos, 4)
			require.NoError(t, err)
			require.True(t, a.Equal(b), "run %d: %s vs %s", i, spew.Sdump(a), spew.Sdump(b))
		}
	}
}

func TestParallelRootMatchesSequential(t *testing.T) {
	for _, pos := range samplePositions(t, 10) {
		if len(pos.LegalMoves()) < 2 {
			continue
		}
		seq, err := NewEngine().Search(context.Background(), pos, SearchConfig{MaxDepth: 4})
		require.NoError(t, err)
		par, err := NewEngine().Search(context.Background(), pos, SearchConfig{MaxDepth: 4, Workers: 4})
		require.NoError(t, err)
		assert.Equal(t, seq.Score, par.Score, pos.Encode())
		assert.True(t, seq.BestMove.Equal(par.BestMove), pos.Encode())
	}
}

func TestForcedSingleMoveSkipsSearch(t *testing.T) {
	pos := mustPosition(t, checkers.Black, map[checkers.Square]checkers.Piece{
		sq(2, 1): checkers.BlackMan,
		sq(0, 5): checkers.BlackMan,
		sq(3, 2): checkers.RedMan,
		sq(7, 0): checkers.RedMan,
	})
	res, err := NewEngine().Search(context.Background(), pos, SearchConfig{MaxDepth: 6})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Nodes)
	assert.Equal(t, 0, res.Depth)
	assert.Equal(t, []checkers.Square{sq(2, 1), sq(4, 3)}, res.BestMove.Path)
}

func TestPrefersWinningCapture(t *testing.T) {
	// (2,3) takes one man and comes first in generation order;
	// (2,5) takes both and ends the game.
	pos := mustPosition(t, checkers.Black, map[checkers.Square]checkers.Piece{
		sq(2, 3): checkers.BlackMan,
		sq(2, 5): checkers.BlackMan,
		sq(3, 4): checkers.RedMan,
		sq(5, 2): checkers.RedMan,
	})
	require.Len(t, pos.LegalMoves(), 2)

	res, err := NewEngine().Search(context.Background(), pos, SearchConfig{MaxDepth: 1})
	require.NoError(t, err)
	assert.Equal(t, WinScore, res.Score)
	assert.Equal(t, []checkers.Square{sq(2, 5), sq(4, 3), sq(6, 1)}, res.BestMove.Path)
}

func TestRedMinimises(t *testing.T) {
	pos := mustPosition(t, checkers.Red, map[checkers.Square]checkers.Piece{
		sq(5, 4): checkers.RedMan,
		sq(5, 2): checkers.RedMan,
		sq(4, 3): checkers.BlackMan,
	})
	// both red men can take the only black man: either wins
	res, err := NewEngine().Search(context.Background(), pos, SearchConfig{MaxDepth: 2})
	require.NoError(t, err)
	assert.Equal(t, -WinScore, res.Score)
	assert.Equal(t, sq(5, 2), res.BestMove.From(), "ties keep the first move generated")
}

func TestAbortReturnsLegalMove(t *testing.T) {
	pos := checkers.NewInitialPosition()

	t.Run("CancelledContext", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		res, err := NewEngine().Search(ctx, pos, SearchConfig{MaxDepth: 10})
		require.NoError(t, err)
		assert.True(t, res.Aborted)
		require.False(t, res.BestMove.IsZero())
		_, err = pos.ApplyMove(res.BestMove)
		assert.NoError(t, err)
	})

	t.Run("TimeLimit", func(t *testing.T) {
		res, err := NewEngine().Search(context.Background(), pos, SearchConfig{
			MaxDepth:  30,
			TimeLimit: 50 * time.Millisecond,
		})
		require.NoError(t, err)
		assert.True(t, res.Aborted)
		assert.GreaterOrEqual(t, res.Depth, 1)
		_, err = pos.ApplyMove(res.BestMove)
		assert.NoError(t, err)
	})

	t.Run("GenerousLimitMatchesFixedDepth", func(t *testing.T) {
		want, err := NewEngine().Search(context.Background(), pos, SearchConfig{MaxDepth: 4})
		require.NoError(t, err)
		got, err := NewEngine().Search(context.Background(), pos, SearchConfig{MaxDepth: 4, TimeLimit: time.Minute})
		require.NoError(t, err)
		assert.False(t, got.Aborted)
		assert.Equal(t, want.Score, got.Score)
		assert.True(t, want.BestMove.Equal(got.BestMove))
	})
}

type memBook struct {
	m      map[string]Entry
	stores int
}

func bookKey(hash uint64, depth int, evaluator string) string {
	return fmt.Sprintf("%016x/%d/%s", hash, depth, evaluator)
}

func (b *memBook) Lookup(hash uint64, depth int, evaluator string) (Entry, bool) {
	ent, ok := b.m[bookKey(hash, depth, evaluator)]
	return ent, ok
}

func (b *memBook) Store(hash uint64, depth int, evaluator string, ent Entry) error {
	b.stores++
	b.m[bookKey(hash, depth, evaluator)] = ent
	return nil
}

func TestBookHitsAndIgnoresIllegalEntries(t *testing.T) {
	pos := checkers.NewInitialPosition()
	book := &memBook{m: map[string]Entry{}}
	e := NewEngine()
	e.UseBook(book)

	first, err := e.Search(context.Background(), pos, SearchConfig{MaxDepth: 3})
	require.NoError(t, err)
	assert.False(t, first.FromBook)
	assert.Equal(t, 1, book.stores)

	second, err := e.Search(context.Background(), pos, SearchConfig{MaxDepth: 3})
	require.NoError(t, err)
	assert.True(t, second.FromBook)
	assert.True(t, first.BestMove.Equal(second.BestMove))
	assert.Equal(t, 1, book.stores)

	// a corrupted entry is treated as a miss
	book.m[bookKey(pos.Hash, 3, evaluatorName(DefaultMaterial))] = Entry{Move: checkers.Move{Path: []checkers.Square{sq(5, 0), sq(4, 1)}}, Depth: 3}
	third, err := e.Search(context.Background(), pos, SearchConfig{MaxDepth: 3})
	require.NoError(t, err)
	assert.False(t, third.FromBook)
	assert.True(t, first.BestMove.Equal(third.BestMove))
}

func TestBookSeparatesEvaluators(t *testing.T) {
	pos := checkers.NewInitialPosition()
	book := &memBook{m: map[string]Entry{}}
	e := NewEngine()
	e.UseBook(book)

	first, err := e.Search(context.Background(), pos, SearchConfig{MaxDepth: 2})
	require.NoError(t, err)
	require.False(t, first.FromBook)

	// same kind of evaluator, different weights
	e.SetEvaluator(Material{Man: 1, King: 3})
	light, err := e.Search(context.Background(), pos, SearchConfig{MaxDepth: 2})
	require.NoError(t, err)
	assert.False(t, light.FromBook)
	assert.Equal(t, 2, book.stores)

	// anonymous evaluators are searched every time and never stored
	e.SetEvaluator(EvaluatorFunc(func(*checkers.Position) int { return 0 }))
	zero, err := e.Search(context.Background(), pos, SearchConfig{MaxDepth: 2})
	require.NoError(t, err)
	assert.False(t, zero.FromBook)
	assert.Equal(t, 0, zero.Score)

	e.SetEvaluator(EvaluatorFunc(func(*checkers.Position) int { return 7 }))
	seven, err := e.Search(context.Background(), pos, SearchConfig{MaxDepth: 2})
	require.NoError(t, err)
	assert.False(t, seven.FromBook)
	assert.Equal(t, 7, seven.Score)
	assert.Equal(t, 2, book.stores)

	// switching back finds the original entry
	e.SetEvaluator(DefaultMaterial)
	again, err := e.Search(context.Background(), pos, SearchConfig{MaxDepth: 2})
	require.NoError(t, err)
	assert.True(t, again.FromBook)
	assert.Equal(t, first.Score, again.Score)
}
