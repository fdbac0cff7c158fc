package game

import (
	"time"

	"checkers/internal/checkers"
	"checkers/internal/engine"
)

type Status string

const (
	StatusOngoing  Status = "ongoing"
	StatusBlackWon Status = "black_won"
	StatusRedWon   Status = "red_won"
)

func statusOf(pos *checkers.Position) Status {
	switch pos.Winner() {
	case checkers.Black:
		return StatusBlackWon
	case checkers.Red:
		return StatusRedWon
	default:
		return StatusOngoing
	}
}

// Options for a new game. Human == NoColor lets either side be played by
// hand or by the engine.
type Options struct {
	Size   int
	Human  checkers.Color
	Search engine.SearchConfig
}

type GameState struct {
	ID        string
	Pos       *checkers.Position
	History   []checkers.Move
	Human     checkers.Color
	Search    engine.SearchConfig
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot is a copy of a game handed to callers and subscribers.
type Snapshot struct {
	ID         string
	Pos        *checkers.Position
	LegalMoves []checkers.Move
	History    []checkers.Move
	Human      checkers.Color
	Status     Status
	UpdatedAt  time.Time
}

func (g *GameState) snapshot() Snapshot {
	s := Snapshot{
		ID:        g.ID,
		Pos:       g.Pos,
		History:   append([]checkers.Move(nil), g.History...),
		Human:     g.Human,
		Status:    g.Status,
		UpdatedAt: g.UpdatedAt,
	}
	if g.Status == StatusOngoing {
		s.LegalMoves = g.Pos.LegalMoves()
	}
	return s
}

