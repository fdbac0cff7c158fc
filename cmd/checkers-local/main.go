package main

import (
	"flag"
	"log"
	"os/exec"
	"runtime"
	"time"

	"checkers/internal/book"
	"checkers/internal/engine"
	"checkers/internal/server/game"
	httpserver "checkers/internal/server/http"
)

func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default: // linux / bsd
		cmd = exec.Command("xdg-open", url)
	}

	_ = cmd.Start() // 无图形界面的环境会失败，忽略
}

func main() {
	addr := flag.String("addr", ":2888", "listen address")
	webDir := flag.String("web", "", "directory with index.html / js (optional)")
	mobileDir := flag.String("web-mobile", "", "directory with mobile assets (defaults to -web)")
	evalName := flag.String("eval", "material", "evaluation function: material | positional")
	difficulty := flag.String("difficulty", "medium", "default AI strength: easy | medium | hard")
	depth := flag.Int("depth", 0, "default search depth, overrides -difficulty when > 0")
	timeMs := flag.Int("time", 0, "default per-move time limit in ms, overrides the preset when > 0")
	workers := flag.Int("workers", 1, "goroutines for the root search")
	bookDir := flag.String("book", "", "badger directory for the analysis book (empty = none)")
	origins := flag.String("cors", "*", "allowed CORS origins")
	open := flag.Bool("open", false, "open the default browser")
	flag.Parse()

	ev, err := engine.ParseEvaluator(*evalName)
	if err != nil {
		log.Fatalf("eval: %v", err)
	}
	e := engine.NewEngine()
	e.SetEvaluator(ev)

	d, err := engine.ParseDifficulty(*difficulty)
	if err != nil {
		log.Fatalf("difficulty: %v", err)
	}
	search := engine.DifficultySettings[d]
	if *depth > 0 {
		search = engine.SearchConfig{MaxDepth: *depth}
	}
	if *timeMs > 0 {
		search.TimeLimit = time.Duration(*timeMs) * time.Millisecond
	}
	search.Workers = *workers

	if *bookDir != "" {
		b, err := book.Open(*bookDir)
		if err != nil {
			log.Fatalf("open book %s: %v", *bookDir, err)
		}
		defer b.Close()
		e.UseBook(b)
		log.Printf("analysis book at %s", *bookDir)
	}

	app := httpserver.NewApp(game.NewManager(e), httpserver.Config{
		AllowOrigins: *origins,
		WebDir:       *webDir,
		MobileWebDir: *mobileDir,
		Search:       search,
	})

	log.Printf("listening on %s (eval=%s depth=%d time=%v workers=%d)", *addr, *evalName, search.MaxDepth, search.TimeLimit, search.Workers)

	if *open && *webDir != "" {
		// 延迟 100ms 打开浏览器，等服务器起来
		go func() {
			time.Sleep(100 * time.Millisecond)
			openBrowser("http://127.0.0.1" + *addr)
		}()
	}

	if err := app.Listen(*addr); err != nil {
		log.Printf("server: %v", err)
	}
}
