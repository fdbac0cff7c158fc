package httpserver

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

const viewCookieName = "checkers_view"

// RegisterStaticRoutes mounts:
// - /web/*        -> desktop assets
// - /web_mobile/* -> mobile assets
// - /             -> redirect by ?view=, cookie, then User-Agent
func RegisterStaticRoutes(app *fiber.App, desktopDir string, mobileDir string) {
	if app == nil || desktopDir == "" {
		return
	}
	if mobileDir == "" {
		mobileDir = desktopDir
	}

	app.Static("/web", desktopDir)
	app.Static("/web_mobile", mobileDir)

	app.Get("/", func(c *fiber.Ctx) error {
		target := "/web/"
		if pickView(c) == "mobile" {
			target = "/web_mobile/"
		}
		c.Set(fiber.HeaderVary, "User-Agent, Cookie")
		return c.Redirect(target, fiber.StatusFound)
	})
}

func pickView(c *fiber.Ctx) string {
	if v, ok := normalizeView(c.Query("view")); ok {
		rememberView(c, v)
		return v
	}
	if v, ok := normalizeView(c.Cookies(viewCookieName)); ok {
		return v
	}
	if isMobileUA(c.Get(fiber.HeaderUserAgent)) {
		return "mobile"
	}
	return "web"
}

func rememberView(c *fiber.Ctx, view string) {
	c.Cookie(&fiber.Cookie{
		Name:     viewCookieName,
		Value:    view,
		Path:     "/",
		Expires:  time.Now().Add(30 * 24 * time.Hour),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func normalizeView(v string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "web", "desktop", "pc":
		return "web", true
	case "mobile", "m", "phone", "web_mobile":
		return "mobile", true
	default:
		return "", false
	}
}

func isMobileUA(ua string) bool {
	s := strings.ToLower(ua)
	if s == "" {
		return false
	}
	needles := []string{
		"android",
		"iphone",
		"ipad",
		"mobile",
		"windows phone",
	}
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
