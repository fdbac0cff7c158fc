package httpserver

import (
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"checkers/internal/checkers"
	"checkers/internal/engine"
	"checkers/internal/server/game"
)

type Handler struct {
	games *game.Manager
	// 请求里没给搜索参数时用它
	defaults engine.SearchConfig
}

func NewHandler(m *game.Manager, defaults engine.SearchConfig) *Handler {
	if defaults.MaxDepth == 0 {
		defaults = engine.DifficultySettings[engine.Medium]
	}
	return &Handler{games: m, defaults: defaults}
}

func (h *Handler) Manager() *game.Manager { return h.games }

// statusFor 把领域错误映射成 HTTP 状态码
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, checkers.ErrIllegalMove),
		errors.Is(err, checkers.ErrInvalidNotation),
		errors.Is(err, checkers.ErrInvalidPosition),
		errors.Is(err, engine.ErrInvalidDepth):
		return fiber.StatusBadRequest
	case errors.Is(err, engine.ErrNoMoves),
		errors.Is(err, game.ErrGameOver),
		errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrPositionMoved):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	code := statusFor(err)
	if code == fiber.StatusInternalServerError {
		log.Printf("request %s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

func (h *Handler) searchConfig(maxDepth int, timeMs int64, workers int) engine.SearchConfig {
	cfg := h.defaults
	if maxDepth != 0 {
		cfg = engine.SearchConfig{MaxDepth: maxDepth, Workers: h.defaults.Workers}
	}
	if timeMs > 0 {
		cfg.TimeLimit = time.Duration(timeMs) * time.Millisecond
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	return cfg
}

func searchToDTO(size int, res engine.SearchResult) SearchDTO {
	return SearchDTO{
		BestMove: moveToDTO(size, res.BestMove),
		Score:    res.Score,
		Depth:    res.Depth,
		Nodes:    res.Nodes,
		TimeMs:   res.TimeUsed.Milliseconds(),
		Aborted:  res.Aborted,
		FromBook: res.FromBook,
	}
}

// CreateGame: POST /api/games
// 人类执红时黑方先走，由 AI 直接走第一步。
func (h *Handler) CreateGame(c *fiber.Ctx) error {
	var req NewGameRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "bad json")
		}
	}
	human, err := parseColor(req.Human)
	if err != nil {
		return badRequest(c, err.Error())
	}

	cfg := h.searchConfig(req.MaxDepth, req.TimeMs, req.Workers)
	if req.MaxDepth == 0 && req.Difficulty != "" {
		d, err := engine.ParseDifficulty(req.Difficulty)
		if err != nil {
			return badRequest(c, err.Error())
		}
		cfg = engine.DifficultySettings[d]
		cfg.Workers = max(req.Workers, h.defaults.Workers)
	}

	snap, err := h.games.NewGame(game.Options{Size: req.Size, Human: human, Search: cfg})
	if err != nil {
		return fail(c, err)
	}
	if human == checkers.Red {
		snap, _, err = h.games.AIMove(c.UserContext(), snap.ID)
		if err != nil {
			return fail(c, err)
		}
	}
	return c.Status(fiber.StatusCreated).JSON(snapshotToResponse(snap))
}

// GetGame: GET /api/games/:id
func (h *Handler) GetGame(c *fiber.Ctx) error {
	snap, err := h.games.Get(c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(snapshotToResponse(snap))
}

// DeleteGame: DELETE /api/games/:id
func (h *Handler) DeleteGame(c *fiber.Ctx) error {
	if err := h.games.Delete(c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PlayMove: POST /api/games/:id/moves
func (h *Handler) PlayMove(c *fiber.Ctx) error {
	id := c.Params("id")
	var req PlayRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "bad json")
	}
	cur, err := h.games.Get(id)
	if err != nil {
		return fail(c, err)
	}
	mv, err := dtoToMove(cur.Pos.Board.Size, req.Move)
	if err != nil {
		return fail(c, err)
	}
	snap, err := h.games.Play(id, mv)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(snapshotToResponse(snap))
}

// AIMove: POST /api/games/:id/ai
func (h *Handler) AIMove(c *fiber.Ctx) error {
	snap, res, err := h.games.AIMove(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(AiMoveResponse{
		Game:   snapshotToResponse(snap),
		Search: searchToDTO(snap.Pos.Board.Size, res),
	})
}

// Analyze: POST /api/analyze
func (h *Handler) Analyze(c *fiber.Ctx) error {
	var req AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "bad json")
	}
	if req.Position == "" {
		return badRequest(c, "missing position")
	}
	pos, err := checkers.DecodePosition(req.Position)
	if err != nil {
		return fail(c, err)
	}

	res, err := h.games.Analyze(c.UserContext(), pos, h.searchConfig(req.MaxDepth, req.TimeMs, req.Workers))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(AnalyzeResponse{
		Position: pos.Encode(),
		ToMove:   pos.SideToMove.String(),
		Search:   searchToDTO(pos.Board.Size, res),
	})
}
