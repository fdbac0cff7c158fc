package httpserver

import (
	"fmt"
	"strings"

	"checkers/internal/checkers"
	"checkers/internal/server/game"
)

// 前端用的招法结构：notation 和 path 二选一
type MoveDTO struct {
	Notation string            `json:"notation,omitempty"`
	Path     []checkers.Square `json:"path,omitempty"`
	Captured []checkers.Square `json:"captured,omitempty"`
	Promotes bool              `json:"promotes,omitempty"`
}

// NewGame 请求
type NewGameRequest struct {
	Human      string `json:"human"`      // "black" / "red" / "none"，默认 black
	Difficulty string `json:"difficulty"` // easy / medium / hard
	MaxDepth   int    `json:"max_depth"`  // >0 时覆盖 difficulty
	TimeMs     int64  `json:"time_ms"`
	Workers    int    `json:"workers"`
	Size       int    `json:"size"`
}

// Play 请求
type PlayRequest struct {
	Move MoveDTO `json:"move"`
}

type GameResponse struct {
	GameID     string    `json:"game_id"`
	Position   string    `json:"position"`
	Size       int       `json:"size"`
	ToMove     string    `json:"to_move"`
	Human      string    `json:"human"`
	LegalMoves []MoveDTO `json:"legal_moves"`
	History    []MoveDTO `json:"history"`
	Status     string    `json:"status"`
}

type SearchDTO struct {
	BestMove MoveDTO `json:"best_move"`
	Score    int     `json:"score"`
	Depth    int     `json:"depth"`
	Nodes    int64   `json:"nodes"`
	TimeMs   int64   `json:"time_ms"`
	Aborted  bool    `json:"aborted,omitempty"`
	FromBook bool    `json:"from_book,omitempty"`
}

type AiMoveResponse struct {
	Game   GameResponse `json:"game"`
	Search SearchDTO    `json:"search"`
}

// Analyze 请求：只思考不落子
type AnalyzeRequest struct {
	Position string `json:"position"`
	MaxDepth int    `json:"max_depth"`
	TimeMs   int64  `json:"time_ms"`
	Workers  int    `json:"workers"`
}

type AnalyzeResponse struct {
	Position string    `json:"position"`
	ToMove   string    `json:"to_move"`
	Search   SearchDTO `json:"search"`
}

func parseColor(s string) (checkers.Color, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "black", "b":
		return checkers.Black, nil
	case "red", "r":
		return checkers.Red, nil
	case "none", "both":
		return checkers.NoColor, nil
	default:
		return checkers.NoColor, fmt.Errorf("unknown color %q", s)
	}
}

func moveToDTO(size int, m checkers.Move) MoveDTO {
	return MoveDTO{
		Notation: m.Notation(size),
		Path:     m.Path,
		Captured: m.Captured,
		Promotes: m.Promotes,
	}
}

func movesToDTO(size int, ms []checkers.Move) []MoveDTO {
	out := make([]MoveDTO, len(ms))
	for i, m := range ms {
		out[i] = moveToDTO(size, m)
	}
	return out
}

// dtoToMove 只填 path/captured，合法性由 Position.Resolve 判定
func dtoToMove(size int, d MoveDTO) (checkers.Move, error) {
	if d.Notation != "" {
		return checkers.ParseNotation(size, d.Notation)
	}
	if len(d.Path) == 0 {
		return checkers.Move{}, fmt.Errorf("%w: move needs notation or path", checkers.ErrInvalidNotation)
	}
	return checkers.Move{Path: d.Path, Captured: d.Captured}, nil
}

func snapshotToResponse(s game.Snapshot) GameResponse {
	size := s.Pos.Board.Size
	return GameResponse{
		GameID:     s.ID,
		Position:   s.Pos.Encode(),
		Size:       size,
		ToMove:     s.Pos.SideToMove.String(),
		Human:      s.Human.String(),
		LegalMoves: movesToDTO(size, s.LegalMoves),
		History:    movesToDTO(size, s.History),
		Status:     string(s.Status),
	}
}
