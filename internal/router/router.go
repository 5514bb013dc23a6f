package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ems-platform/ems-api/internal/config"
	"github.com/ems-platform/ems-api/internal/handler"
	"github.com/ems-platform/ems-api/internal/middleware"
	"github.com/ems-platform/ems-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AssignmentHandler *handler.AssignmentHandler
	SubmissionHandler *handler.SubmissionHandler
	ExamHandler       *handler.ExamHandler
	AttendanceHandler *handler.AttendanceHandler
	PromotionHandler  *handler.PromotionHandler
	JWTMiddleware     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	api.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Assignments and submissions: teachers publish and grade, students upload.
	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware, middleware.RequireRole("admin", "teacher"))
		deps.AssignmentHandler.Register(assignments)
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware, middleware.RequireRole("admin", "teacher", "student"),
			middleware.RateLimit("submissions", 30, time.Minute))
		deps.SubmissionHandler.Register(submissions)
	}

	// Exams and results entry are a teacher surface.
	if deps.ExamHandler != nil {
		exams := api.Group("/exams", jwtMiddleware, middleware.RequireRole("admin", "teacher"))
		deps.ExamHandler.Register(exams)
	}

	if deps.AttendanceHandler != nil {
		attendance := api.Group("/attendance", jwtMiddleware, middleware.RequireRole("admin", "teacher"))
		deps.AttendanceHandler.Register(attendance)
	}

	// Student reads: staff see anyone, students only themselves.
	students := api.Group("/students", jwtMiddleware, middleware.RequireRole("admin", "teacher", "student"))
	if deps.ExamHandler != nil {
		students.Get("/:studentId/transcript", middleware.WithAuth(deps.ExamHandler.Transcript,
			middleware.AuthOptions{RequireUser: true, SelfParam: "studentId"}))
	}
	if deps.AttendanceHandler != nil {
		students.Get("/:studentId/attendance", middleware.WithAuth(deps.AttendanceHandler.StudentReport,
			middleware.AuthOptions{RequireUser: true, SelfParam: "studentId"}))
	}

	// Promotion is admin-only.
	if deps.PromotionHandler != nil {
		promotion := api.Group("/promotion", jwtMiddleware, middleware.RequireRole("admin"))
		deps.PromotionHandler.Register(promotion)
	}
}
