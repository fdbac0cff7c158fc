package httpserver

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/websocket/v2"

	"checkers/internal/engine"
	"checkers/internal/server/game"
)

type Config struct {
	AllowOrigins string              // CORS，空表示 "*"
	WebDir       string              // 静态页面目录，空则不挂载
	MobileWebDir string
	Quiet        bool                // 不打请求日志（测试用）
	Search       engine.SearchConfig // 默认搜索参数，零值 = Medium
}

// NewApp wires the REST routes, the websocket stream and optional static
// assets around a game manager.
func NewApp(m *game.Manager, cfg Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "checkers",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	if !cfg.Quiet {
		app.Use(logger.New())
	}
	origins := cfg.AllowOrigins
	if origins == "" {
		origins = "*"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	h := NewHandler(m, cfg.Search)

	app.Get("/ws/games/:id", h.wsUpgrade(), websocket.New(h.Stream))

	api := app.Group("/api")
	api.Post("/analyze", h.Analyze)

	games := api.Group("/games")
	games.Post("/", h.CreateGame)
	games.Get("/:id", h.GetGame)
	games.Delete("/:id", h.DeleteGame)
	games.Post("/:id/moves", h.PlayMove)
	games.Post("/:id/ai", h.AIMove)

	RegisterStaticRoutes(app, cfg.WebDir, cfg.MobileWebDir)
	return app
}
