// Package bootstrap builds the app for the serverless entry point in api/,
// which cannot import internal packages directly.
package bootstrap

import (
	"net/http"

	"sharebloom-backend/internal/config"
	"sharebloom-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// New loads configuration and creates the Fiber app.
func New() (*fiber.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	config.SetupLogger(cfg)
	app, _, _, err := router.CreateApp(cfg)
	return app, err
}

// HTTPHandler adapts app to net/http. Rewritten requests arrive with the
// original path in URL, so RequestURI is rebuilt from it.
func HTTPHandler(app *fiber.App) http.HandlerFunc {
	h := adaptor.FiberApp(app)
	return func(w http.ResponseWriter, r *http.Request) {
		r.RequestURI = r.URL.String()
		h(w, r)
	}
}
