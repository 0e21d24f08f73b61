package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/supportdesk/inquiry-service/internal/api/http/handlers"
	"github.com/supportdesk/inquiry-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Inquiries      *handlers.InquiriesHandler
	Users          *handlers.UsersHandler
	WS             *handlers.WSHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/ws", cfg.WS.Upgrade, cfg.WS.Serve())

	api := app.Group("/api")
	api.Post("/auth/login", cfg.Auth.Login)

	// Customers submit without credentials; everything else is staff-side.
	api.Post("/inquiries", cfg.Inquiries.Create)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Get("/inquiries", cfg.Inquiries.List)
	protected.Get("/inquiries/:id", cfg.Inquiries.Get)
	protected.Patch("/inquiries/:id", cfg.Inquiries.Update)
	protected.Post("/inquiries/:id/reply", cfg.Inquiries.Reply)

	admin := api.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	admin.Post("", cfg.Users.Create)
	admin.Get("", cfg.Users.List)
	admin.Patch("/:id", cfg.Users.Update)
	admin.Delete("/:id", cfg.Users.Delete)
}
