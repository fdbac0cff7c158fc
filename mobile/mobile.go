package mobile

import (
	"log"

	"checkers/internal/book"
	"checkers/internal/engine"
	"checkers/internal/server/game"
	httpserver "checkers/internal/server/http"
)

// StartServer starts the local game server for the app shell.
// webDir: physical path to the extracted web assets
// bookDir: writable directory for the analysis book ("" = none)
// port: port to listen on, e.g. "2888"
func StartServer(webDir string, bookDir string, port string) {
	e := engine.NewEngine()
	if bookDir != "" {
		b, err := book.Open(bookDir)
		if err != nil {
			log.Printf("Failed to open book: %v", err)
		} else {
			e.UseBook(b)
		}
	}

	app := httpserver.NewApp(game.NewManager(e), httpserver.Config{
		WebDir:       webDir,
		MobileWebDir: webDir,
		Quiet:        true,
	})

	// Run in background so it doesn't block the UI thread
	go func() {
		if err := app.Listen("127.0.0.1:" + port); err != nil {
			log.Printf("Server Error: %v", err)
		}
	}()
}
