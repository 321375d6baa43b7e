package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-service/internal/api/http/handlers"
	"github.com/spec-kit/sla-service/internal/auth"
	"github.com/spec-kit/sla-service/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Trackings      *handlers.TrackingsHandler
	Dashboard      *handlers.DashboardHandler
	Config         *handlers.ConfigHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/reset/request", cfg.Auth.RequestPasswordReset)
	authGroup.Post("/password/reset/confirm", cfg.Auth.ConfirmPasswordReset)
	authGroup.Post("/password/change", cfg.AuthMiddleware.Handle, cfg.Auth.ChangePassword)

	api := app.Group("/api", cfg.AuthMiddleware.Handle, auth.RequireRole())

	api.Post("/trackings", cfg.Trackings.Create)
	api.Get("/trackings", cfg.Trackings.List)
	api.Get("/trackings/:id", cfg.Trackings.Get)
	api.Post("/trackings/:id/complete", cfg.Trackings.Complete)
	api.Patch("/trackings/:id", cfg.Trackings.Update)
	api.Delete("/trackings/:id", auth.RequireRole(domain.AdminRoleAdmin), cfg.Trackings.Delete)
	api.Get("/trackings/:id/status", cfg.Trackings.Status)
	api.Get("/trackings/:id/escalation", cfg.Trackings.Escalation)
	api.Get("/entities/:type/:id/trackings", cfg.Trackings.ListByEntity)

	api.Get("/dashboard/metrics", cfg.Dashboard.Metrics)
	api.Get("/dashboard/violations", cfg.Dashboard.Violations)
	api.Get("/dashboard/approaching", cfg.Dashboard.Approaching)

	api.Get("/config", cfg.Config.Get)
	api.Put("/config", auth.RequireRole(domain.AdminRoleAdmin), cfg.Config.Update)
}
