// Package main provides the intake API server implementation.
package main

import (
	"log/slog"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/herreralegal/intake/pkg/eventbus"
	"github.com/herreralegal/intake/pkg/persistence"
	"github.com/herreralegal/intake/pkg/services"
	"github.com/herreralegal/intake/pkg/sessionlock"
	"github.com/herreralegal/intake/pkg/web"
	"github.com/herreralegal/intake/pkg/workflows"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	catalog     *workflows.Catalog
	eventBus    eventbus.EventBus
	locks       *sessionlock.Manager
	tracer      trace.Tracer
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	persistence persistence.Persistence,
	catalog *workflows.Catalog,
	eventBus eventbus.EventBus,
	locks *sessionlock.Manager,
	tracer trace.Tracer,
) *API {
	return &API{
		logger:      logger,
		persistence: persistence,
		catalog:     catalog,
		eventBus:    eventBus,
		locks:       locks,
		tracer:      tracer,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	casesService := services.NewCases(a.persistence, a.catalog, a.eventBus, a.logger, a.tracer)
	documentsService := services.NewDocuments(a.persistence, a.catalog, a.eventBus, a.logger)

	handlers := web.NewAPIHandlers(casesService, documentsService, a.catalog, a.persistence, a.locks, a.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Intake API")
	})

	s := app.Group("/services")
	s.Get("/", handlers.GetServices)
	s.Get("/:slug", handlers.GetService)
	s.Post("/:slug/eligibility", handlers.CheckEligibility)
	s.Post("/:slug/cases", handlers.OpenCase)

	cs := app.Group("/cases")
	cs.Get("/", handlers.ListCases)
	cs.Get("/:id", handlers.GetCase)
	cs.Get("/:id/wizard", handlers.GetWizardState)
	cs.Patch("/:id", handlers.AutosaveCase)
	cs.Post("/:id/submit", handlers.SubmitCase)
	cs.Get("/:id/review", handlers.GetReview)
	cs.Get("/:id/activity", handlers.GetActivity)
	cs.Patch("/:id/status", handlers.ChangeStatus)
	cs.Get("/:id/documents", handlers.GetDocuments)
	cs.Post("/:id/documents", handlers.AttachDocument)
	cs.Post("/:id/lock", handlers.AcquireLock)
	cs.Delete("/:id/lock", handlers.ReleaseLock)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
