package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nexus-hrm/hrm-service/internal/api/http/handlers"
	"github.com/nexus-hrm/hrm-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Group          *handlers.GroupHandler
	Staff          *handlers.StaffHandler
	Insight        *handlers.InsightHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	protected.Post("/auth/logout", cfg.Auth.Logout)
	protected.Get("/auth/session", cfg.Auth.Session)

	integration := protected.Group("/integration")
	integration.Post("/group", cfg.Group.LinkGroup)
	integration.Get("/group", cfg.Group.GetGroup)
	integration.Put("/group/mappings", cfg.Group.UpdateMappings)
	integration.Post("/sync", cfg.Group.SyncMembers)

	staff := protected.Group("/staff/members")
	staff.Get("/", cfg.Staff.ListStaff)
	staff.Get("/:id", cfg.Staff.GetStaff)
	staff.Post("/:id/metrics", cfg.Staff.GrantMetric)
	staff.Post("/:id/analysis", cfg.Insight.AnalyzeStaff)

	protected.Get("/dashboard/stats", cfg.Staff.Stats)
	protected.Post("/insights/workforce", cfg.Insight.WorkforceAudit)
}
