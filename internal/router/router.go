package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/unimatch-go-api/internal/config"
	"github.com/noah-isme/unimatch-go-api/internal/handler"
	"github.com/noah-isme/unimatch-go-api/internal/middleware"
	"github.com/noah-isme/unimatch-go-api/internal/models"
	"github.com/noah-isme/unimatch-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	MatchingHandler      *handler.MatchingHandler
	QualificationHandler *handler.QualificationHandler
	ProgramHandler       *handler.ProgramHandler
	UniversityHandler    *handler.UniversityHandler
	ApplicationHandler   *handler.ApplicationHandler
	ActivityHandler      *handler.ActivityHandler
	JWTMiddleware        fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Public catalog
	if deps.ProgramHandler != nil {
		deps.ProgramHandler.Register(api.Group("/programs"))
	}
	if deps.UniversityHandler != nil {
		deps.UniversityHandler.Register(api.Group("/universities"))
	}

	// Student routes
	studentOnly := middleware.RequireRole(models.RoleStudent)
	if deps.MatchingHandler != nil {
		matches := api.Group("/matches", jwtMiddleware, studentOnly)
		deps.MatchingHandler.Register(matches)
	}
	if deps.QualificationHandler != nil {
		qualifications := api.Group("/qualifications", jwtMiddleware, studentOnly,
			middleware.RateLimit("qualifications", 30, time.Minute))
		deps.QualificationHandler.Register(qualifications)
	}
	if deps.ApplicationHandler != nil {
		applications := api.Group("/applications", jwtMiddleware, studentOnly,
			middleware.RateLimit("applications", 30, time.Minute))
		deps.ApplicationHandler.Register(applications)
	}

	// Admin routes
	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(
		models.RoleDepartmentAdministrator, models.RoleSuperAdmin,
	))
	if deps.MatchingHandler != nil {
		deps.MatchingHandler.RegisterAdmin(admin)
	}
	if deps.QualificationHandler != nil {
		deps.QualificationHandler.RegisterAdmin(admin)
	}
	if deps.ProgramHandler != nil {
		deps.ProgramHandler.RegisterAdmin(admin)
	}
	if deps.UniversityHandler != nil {
		deps.UniversityHandler.RegisterAdmin(admin, middleware.RequireRole(models.RoleSuperAdmin))
	}
	if deps.ApplicationHandler != nil {
		deps.ApplicationHandler.RegisterAdmin(admin)
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.RegisterAdmin(admin)
	}
}
