package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/travelinfo/api/http/handlers"
)

// Routes bundles handlers and middleware mounted under /api.
type Routes struct {
	Auth      *handlers.AuthHandler
	Countries *handlers.CountryHandler
	Health    *handlers.HealthHandler

	// RequireAuth guards the profile route.
	RequireAuth fiber.Handler
	// AuthLimiter throttles credential endpoints. Optional.
	AuthLimiter fiber.Handler
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, r Routes) {
	api := app.Group("/api")

	// Health and readiness endpoints for probes/monitoring
	api.Get("/health", r.Health.Health)
	api.Get("/ready", r.Health.Ready)

	a := api.Group("/auth")
	if r.AuthLimiter != nil {
		a.Post("/register", r.AuthLimiter, r.Auth.Register)
		a.Post("/login", r.AuthLimiter, r.Auth.Login)
	} else {
		a.Post("/register", r.Auth.Register)
		a.Post("/login", r.Auth.Login)
	}
	a.Get("/me", r.RequireAuth, r.Auth.Me)

	cg := api.Group("/countries")
	cg.Get("/", r.Countries.All)
	cg.Get("/all", r.Countries.All)
	cg.Get("/name/:name", r.Countries.ByName)
	cg.Get("/region/:region", r.Countries.ByRegion)
	cg.Get("/alpha/:code", r.Countries.ByCode)
	cg.Get("/code/:code", r.Countries.ByCode)
	cg.Get("/regioncode/:code", r.Countries.ByRegionCode)
}
