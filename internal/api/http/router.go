package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/pardismasoud-hue/pishgam/internal/api/http/handlers"
	"github.com/pardismasoud-hue/pishgam/internal/auth"
	"github.com/pardismasoud-hue/pishgam/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	company := app.Group("/company/tickets", cfg.AuthMiddleware.Handle, auth.RequireActor(domain.RoleCompany))
	company.Get("/", cfg.Tickets.ListTickets)
	company.Post("/", cfg.Tickets.CreateTicket)
	company.Get("/satisfaction", cfg.Tickets.ListSatisfactions)
	company.Get("/:id", cfg.Tickets.GetTicket)
	company.Get("/:id/messages", cfg.Tickets.ListMessages)
	company.Post("/:id/messages", cfg.Tickets.AddMessage)
	company.Patch("/:id/status", cfg.Tickets.ChangeStatus)
	company.Post("/:id/satisfaction", cfg.Tickets.SubmitSatisfaction)
	company.Get("/:id/history", cfg.Tickets.ListHistory)

	expert := app.Group("/expert/tickets", cfg.AuthMiddleware.Handle, auth.RequireActor(domain.RoleExpert))
	expert.Get("/", cfg.Tickets.ListTickets)
	expert.Get("/:id", cfg.Tickets.GetTicket)
	expert.Get("/:id/messages", cfg.Tickets.ListMessages)
	expert.Post("/:id/messages", cfg.Tickets.AddMessage)
	expert.Patch("/:id/status", cfg.Tickets.ChangeStatus)
	expert.Get("/:id/timelogs", cfg.Tickets.ListTimeLogs)
	expert.Post("/:id/timelogs", cfg.Tickets.LogTime)

	admin := app.Group("/admin/tickets", cfg.AuthMiddleware.Handle, auth.RequireActor(domain.RoleAdmin))
	admin.Get("/", cfg.Tickets.ListTickets)
	admin.Get("/:id", cfg.Tickets.GetTicket)
	admin.Get("/:id/messages", cfg.Tickets.ListMessages)
	admin.Post("/:id/messages", cfg.Tickets.AddMessage)
	admin.Patch("/:id/status", cfg.Tickets.ChangeStatus)
	admin.Post("/:id/assign/:expertUserId", cfg.Tickets.AssignExpert)
	admin.Get("/:id/timelogs", cfg.Tickets.ListTimeLogs)
	admin.Get("/:id/history", cfg.Tickets.ListHistory)
}
