package checkers

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sq(r, c int) Square { return Square{Row: r, Col: c} }

func mustPosition(t *testing.T, side Color, pieces map[Square]Piece) *Position {
	t.Helper()
	pos, err := NewPosition(DefaultSize, side, pieces)
	require.NoError(t, err)
	return pos
}

func TestInitialPosition(t *testing.T) {
	pos := NewInitialPosition()
	c := pos.Counts()
	assert.Equal(t, Counts{BlackMen: 12, RedMen: 12}, c)
	assert.Equal(t, Black, pos.SideToMove)

	moves := pos.LegalMoves()
	require.Len(t, moves, 7)
	for _, m := range moves {
		assert.False(t, m.IsCapture(), "no captures from the start: %s", m)
		assert.Len(t, m.Path, 2)
		assert.Equal(t, 1, m.To().Row-m.From().Row, "black advances down the board")
	}
}

func TestInitialPositionSizes(t *testing.T) {
	for _, tc := range []struct {
		size, men int
	}{
		{6, 6},
		{8, 12},
		{10, 20},
		{12, 30},
	} {
		pos, err := NewInitialPositionSize(tc.size)
		require.NoError(t, err)
		assert.Equal(t, tc.men, pos.PieceCount(Black), "size %d", tc.size)
		assert.Equal(t, tc.men, pos.PieceCount(Red), "size %d", tc.size)
	}

	_, err := NewInitialPositionSize(7)
	assert.ErrorIs(t, err, ErrInvalidPosition)
}

func TestForcedCapture(t *testing.T) {
	t.Run("BlackMustJump", func(t *testing.T) {
		pos := mustPosition(t, Black, map[Square]Piece{
			sq(2, 1): BlackMan,
			sq(0, 5): BlackMan,
			sq(3, 2): RedMan,
			sq(7, 0): RedMan,
		})
		moves := pos.LegalMoves()
		require.Len(t, moves, 1, spew.Sdump(moves))
		assert.Equal(t, []Square{sq(2, 1), sq(4, 3)}, moves[0].Path)
		assert.Equal(t, []Square{sq(3, 2)}, moves[0].Captured)
		assert.True(t, pos.HasCapture())
	})

	t.Run("RedSinglePieceWithJump", func(t *testing.T) {
		pos := mustPosition(t, Red, map[Square]Piece{
			sq(5, 4): RedMan,
			sq(7, 0): RedMan,
			sq(4, 3): BlackMan,
			sq(0, 1): BlackMan,
		})
		moves := pos.LegalMoves()
		require.Len(t, moves, 1, spew.Sdump(moves))
		assert.Equal(t, []Square{sq(5, 4), sq(3, 2)}, moves[0].Path)
		assert.Equal(t, []Square{sq(4, 3)}, moves[0].Captured)
	})

	t.Run("SimpleStepRejected", func(t *testing.T) {
		pos := mustPosition(t, Black, map[Square]Piece{
			sq(2, 1): BlackMan,
			sq(0, 5): BlackMan,
			sq(3, 2): RedMan,
		})
		_, err := pos.ApplyMove(Move{Path: []Square{sq(0, 5), sq(1, 4)}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrIllegalMove))
		var ime *IllegalMoveError
		require.ErrorAs(t, err, &ime)
		assert.Contains(t, ime.Reason, "capture")
	})
}

func TestCaptureChains(t *testing.T) {
	t.Run("DoubleJumpIsOneMove", func(t *testing.T) {
		pos := mustPosition(t, Black, map[Square]Piece{
			sq(0, 1): BlackMan,
			sq(1, 2): RedMan,
			sq(3, 4): RedMan,
		})
		moves := pos.LegalMoves()
		require.Len(t, moves, 1, spew.Sdump(moves))
		assert.Equal(t, []Square{sq(0, 1), sq(2, 3), sq(4, 5)}, moves[0].Path)
		assert.Equal(t, []Square{sq(1, 2), sq(3, 4)}, moves[0].Captured)

		next, err := pos.ApplyMove(moves[0])
		require.NoError(t, err)
		assert.Equal(t, 0, next.PieceCount(Red))
		assert.Equal(t, BlackMan, next.Board.At(sq(4, 5)))
	})

	t.Run("BranchingChainsAreAllMaximal", func(t *testing.T) {
		pos := mustPosition(t, Black, map[Square]Piece{
			sq(0, 1): BlackMan,
			sq(1, 2): RedMan,
			sq(3, 2): RedMan,
			sq(3, 4): RedMan,
		})
		moves := pos.LegalMoves()
		require.Len(t, moves, 2, spew.Sdump(moves))
		for _, m := range moves {
			assert.Len(t, m.Path, 3)
			assert.Len(t, m.Captured, 2)
		}

		// stopping after the first jump is not allowed
		_, err := pos.ApplyMove(Move{Path: []Square{sq(0, 1), sq(2, 3)}})
		var ime *IllegalMoveError
		require.ErrorAs(t, err, &ime)
		assert.Contains(t, ime.Reason, "continued")
	})

	t.Run("KingJumpsBackwards", func(t *testing.T) {
		pos := mustPosition(t, Black, map[Square]Piece{
			sq(4, 3): BlackKing,
			sq(3, 2): RedMan,
		})
		moves := pos.LegalMoves()
		require.Len(t, moves, 1)
		assert.Equal(t, []Square{sq(4, 3), sq(2, 1)}, moves[0].Path)
		assert.False(t, moves[0].Promotes)
	})

	t.Run("KingCircleReturnsToStart", func(t *testing.T) {
		pos := mustPosition(t, Black, map[Square]Piece{
			sq(2, 3): BlackKing,
			sq(3, 4): RedMan,
			sq(5, 4): RedMan,
			sq(5, 2): RedMan,
			sq(3, 2): RedMan,
		})
		moves := pos.LegalMoves()
		require.NotEmpty(t, moves)
		longest := 0
		for _, m := range moves {
			longest = max(longest, len(m.Captured))
		}
		assert.Equal(t, 4, longest, spew.Sdump(moves))
	})
}

func TestPromotion(t *testing.T) {
	t.Run("StepToBackRank", func(t *testing.T) {
		pos := mustPosition(t, Black, map[Square]Piece{
			sq(6, 1): BlackMan,
			sq(1, 6): RedMan,
		})
		moves := pos.LegalMoves()
		require.Len(t, moves, 2)
		for _, m := range moves {
			assert.True(t, m.Promotes)
			next, err := pos.ApplyMove(m)
			require.NoError(t, err)
			assert.Equal(t, BlackKing, next.Board.At(m.To()))
		}
	})

	t.Run("ChainEndsOnCrowning", func(t *testing.T) {
		// After crowning on (7,4) a king could jump (6,5) back up the board,
		// but the move ends when the man lands on the back rank.
		pos := mustPosition(t, Black, map[Square]Piece{
			sq(5, 2): BlackMan,
			sq(6, 3): RedMan,
			sq(6, 5): RedMan,
		})
		moves := pos.LegalMoves()
		require.Len(t, moves, 1, spew.Sdump(moves))
		assert.Equal(t, []Square{sq(5, 2), sq(7, 4)}, moves[0].Path)
		assert.True(t, moves[0].Promotes)

		next, err := pos.ApplyMove(moves[0])
		require.NoError(t, err)
		assert.Equal(t, BlackKing, next.Board.At(sq(7, 4)))
		assert.Equal(t, RedMan, next.Board.At(sq(6, 5)))
	})

	t.Run("KingDoesNotPromoteAgain", func(t *testing.T) {
		pos := mustPosition(t, Red, map[Square]Piece{
			sq(1, 2): RedKing,
			sq(6, 1): BlackMan,
		})
		for _, m := range pos.LegalMoves() {
			assert.False(t, m.Promotes)
		}
	})
}

func TestTerminal(t *testing.T) {
	t.Run("NoBlackPieces", func(t *testing.T) {
		pos := mustPosition(t, Black, map[Square]Piece{
			sq(5, 0): RedMan,
		})
		assert.Empty(t, pos.LegalMoves())
		assert.True(t, pos.IsTerminal())
		assert.Equal(t, Red, pos.Winner())
	})

	t.Run("Blocked", func(t *testing.T) {
		// black man on (6,1) blocked by red men it cannot jump
		pos := mustPosition(t, Black, map[Square]Piece{
			sq(6, 1): BlackMan,
			sq(7, 0): RedMan,
			sq(7, 2): RedMan,
		})
		assert.Empty(t, pos.LegalMoves())
		assert.Equal(t, Red, pos.Winner())
	})

	t.Run("Ongoing", func(t *testing.T) {
		assert.Equal(t, NoColor, NewInitialPosition().Winner())
	})
}

// Random games; checks the generator invariants at every ply.
func TestRandomPlayoutInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for game := 0; game < 40; game++ {
		pos := NewInitialPosition()
		for ply := 0; ply < 200; ply++ {
			moves := pos.LegalMoves()
			if len(moves) == 0 {
				break
			}

			anyCapture := false
			for _, m := range moves {
				anyCapture = anyCapture || m.IsCapture()
			}
			for _, m := range moves {
				if anyCapture {
					require.True(t, m.IsCapture(), "forced capture violated:\n%s%s", pos.Grid(), m)
				}
				if m.IsCapture() {
					require.Len(t, m.Captured, len(m.Path)-1)
				} else {
					require.Len(t, m.Path, 2)
				}

				mover := pos.Board.At(m.From())
				next := pos.Successor(m)

				if m.IsCapture() {
					require.False(t, canJump(&next.Board, m.To(), mover),
						"chain %s stops early:\n%s", m, pos.Grid())
				}

				opp := pos.SideToMove.Opponent()
				require.Equal(t, pos.PieceCount(pos.SideToMove), next.PieceCount(pos.SideToMove))
				require.Equal(t, pos.PieceCount(opp)-len(m.Captured), next.PieceCount(opp))

				if m.Promotes {
					require.Equal(t, RankMan, mover.Rank())
					require.Equal(t, RankKing, next.Board.At(m.To()).Rank())
				} else {
					require.Equal(t, mover, next.Board.At(m.To()))
				}

				require.Equal(t, next.CalculateHash(), next.Hash, "incremental hash drifted")
			}
			pos = pos.Successor(moves[rng.Intn(len(moves))])
		}
	}
}

func TestApplyMoveDoesNotMutate(t *testing.T) {
	pos := NewInitialPosition()
	snapshot := *pos
	moves := pos.LegalMoves()
	_, err := pos.ApplyMove(moves[0])
	require.NoError(t, err)
	assert.Equal(t, snapshot, *pos)
}

func TestApplyMoveRejectsWrongSide(t *testing.T) {
	pos := NewInitialPosition()
	_, err := pos.ApplyMove(Move{Path: []Square{sq(5, 0), sq(4, 1)}})
	var ime *IllegalMoveError
	require.ErrorAs(t, err, &ime)
	assert.Contains(t, ime.Reason, "no black piece")
}

func TestApplyMoveIsExact(t *testing.T) {
	pos := mustPosition(t, Black, map[Square]Piece{
		sq(5, 2): BlackMan,
		sq(6, 3): RedMan,
		sq(1, 6): RedMan,
	})
	moves := pos.LegalMoves()
	require.Len(t, moves, 1, spew.Sdump(moves))
	full := moves[0]
	require.True(t, full.Promotes)

	var ime *IllegalMoveError
	for name, m := range map[string]Move{
		"NoCaptured":   {Path: full.Path, Promotes: true},
		"NoPromotion":  {Path: full.Path, Captured: full.Captured},
		"WrongCapture": {Path: full.Path, Captured: []Square{sq(1, 6)}, Promotes: true},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := pos.ApplyMove(m)
			require.ErrorAs(t, err, &ime)
			assert.Contains(t, ime.Reason, "do not match")
		})
	}

	// player input goes through Resolve, which fills the rest in
	lm, err := pos.Resolve(Move{Path: full.Path})
	require.NoError(t, err)
	assert.True(t, lm.Equal(full))
	next, err := pos.ApplyMove(lm)
	require.NoError(t, err)
	assert.Equal(t, BlackKing, next.Board.At(sq(7, 4)))

	_, err = pos.Resolve(Move{Path: full.Path, Captured: []Square{sq(1, 6)}})
	assert.ErrorIs(t, err, ErrIllegalMove)
}
