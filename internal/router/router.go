package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mentorat/leads-api/internal/config"
	"github.com/mentorat/leads-api/internal/handler"
	"github.com/mentorat/leads-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	LeadHandler *handler.LeadHandler
	RateLimit   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/v1/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	if deps.LeadHandler != nil {
		if deps.RateLimit != nil {
			deps.LeadHandler.Register(api, deps.RateLimit)
		} else {
			deps.LeadHandler.Register(api)
		}
	}
}
