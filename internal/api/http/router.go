package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/opsdeck/ticketing-service/internal/api/http/handlers"
	"github.com/opsdeck/ticketing-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Locations      *handlers.LocationsHandler
	Tickets        *handlers.TicketsHandler
	Reports        *handlers.ReportsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Role requirements are declared here, per
// operation, and evaluated by the guard before any service call runs.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	users := api.Group("/users")
	users.Post("/register", cfg.Users.Register)
	users.Post("/login", cfg.Users.Login)
	users.Get("/", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.List)
	users.Put("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.Update)
	users.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.Delete)

	locations := api.Group("/locations", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	locations.Post("/", cfg.Locations.Create)
	locations.Get("/", cfg.Locations.List)
	locations.Post("/import", cfg.Locations.Import)
	locations.Put("/:id", cfg.Locations.Update)
	locations.Delete("/:id", cfg.Locations.Delete)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Post("/", auth.RequireAdmin(), cfg.Tickets.Create)
	tickets.Get("/", auth.RequireAdmin(), cfg.Tickets.ListAll)
	tickets.Get("/mine", auth.RequireAuthenticated(), cfg.Tickets.ListMine)
	tickets.Put("/:id/assign", auth.RequireAdmin(), cfg.Tickets.Assign)
	tickets.Put("/:id/resolve", auth.RequireAuthenticated(), cfg.Tickets.Resolve)
	tickets.Put("/:id/escalate", auth.RequireAuthenticated(), cfg.Tickets.Escalate)
	tickets.Delete("/:id", auth.RequireAdmin(), cfg.Tickets.Delete)

	reports := api.Group("/reports", cfg.AuthMiddleware.Handle)
	reports.Get("/sidebar", auth.RequireAuthenticated(), cfg.Reports.Sidebar)
	reports.Get("/user-stats", auth.RequireAuthenticated(), cfg.Reports.UserStats)
	reports.Get("/admin-summary", auth.RequireAdmin(), cfg.Reports.AdminSummary)
	reports.Get("/admin-kpis", auth.RequireAdmin(), cfg.Reports.AdminKPIs)
}
