package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campushq/lms-api/internal/config"
	"github.com/campushq/lms-api/internal/handler"
	"github.com/campushq/lms-api/internal/middleware"
	"github.com/campushq/lms-api/internal/models"
	"github.com/campushq/lms-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler     *handler.CourseHandler
	AssignmentHandler *handler.AssignmentHandler
	EnrollmentHandler *handler.EnrollmentHandler
	SubmissionHandler *handler.SubmissionHandler
	GradingHandler    *handler.GradingHandler
	TaxonomyHandler   *handler.TaxonomyHandler
	ReportHandler     *handler.ReportHandler
	ActivityHandler   *handler.ActivityHandler
	SeedHandler       *handler.SeedHandler
	JWTMiddleware     fiber.Handler
	EnrollLimiter     fiber.Handler
	SubmitLimiter     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Public taxonomy listings
	if deps.TaxonomyHandler != nil {
		deps.TaxonomyHandler.RegisterPublic(api)
	}

	// Instructor surface: course authoring, assignments, grading queue
	instructor := api.Group("/instructor", jwtMiddleware, middleware.RequireRole(models.RoleInstructor))
	if deps.CourseHandler != nil {
		deps.CourseHandler.Register(instructor.Group("/courses"))
	}
	if deps.AssignmentHandler != nil {
		deps.AssignmentHandler.Register(instructor.Group("/assignments"))
	}
	if deps.GradingHandler != nil {
		deps.GradingHandler.Register(instructor)
	}

	// Learner surface: catalogue, enrollment, submissions, grades
	learner := api.Group("/learner", jwtMiddleware, middleware.RequireRole(models.RoleLearner))
	if deps.EnrollmentHandler != nil {
		deps.EnrollmentHandler.Register(learner, deps.EnrollLimiter)
	}
	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(learner, deps.SubmitLimiter)
	}

	// Any authenticated user may file a report
	if deps.ReportHandler != nil {
		authenticated := api.Group("", jwtMiddleware)
		deps.ReportHandler.RegisterAuthenticated(authenticated)
	}

	// Operator surface: moderation, taxonomy curation, audit trail
	operator := api.Group("/operator", jwtMiddleware, middleware.RequireRole(models.RoleOperator))
	if deps.ReportHandler != nil {
		deps.ReportHandler.RegisterOperator(operator)
	}
	if deps.TaxonomyHandler != nil {
		deps.TaxonomyHandler.RegisterOperator(operator)
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(operator)
	}

	// Development seeding helpers
	if deps.SeedHandler != nil {
		deps.SeedHandler.Register(api.Group("/dev"))
	}
}
