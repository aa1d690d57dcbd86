// Package main provides the campaignd API server implementation.
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

	"github.com/wrenchworks/campaignd/pkg/easycron"
	"github.com/wrenchworks/campaignd/pkg/eventbus"
	"github.com/wrenchworks/campaignd/pkg/persistence"
	"github.com/wrenchworks/campaignd/pkg/scheduler"
	"github.com/wrenchworks/campaignd/pkg/web"
)

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	validate    *validator.Validate
	tracer      trace.Tracer

	easycronAPIURL  string
	callbackBaseURL string
}

func NewAPI(
	logger *slog.Logger,
	persist persistence.Persistence,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	easycronAPIURL string,
	callbackBaseURL string,
) *API {
	return &API{
		logger:          logger,
		persistence:     persist,
		eventBus:        eventBus,
		validate:        validator.New(validator.WithRequiredStructEnabled()),
		tracer:          tracer,
		easycronAPIURL:  easycronAPIURL,
		callbackBaseURL: callbackBaseURL,
	}
}

func (a *API) App() *fiber.App {
	provisioner := easycron.NewClient(a.easycronAPIURL)

	schedulerService := scheduler.NewService(a.persistence, provisioner, a.eventBus, a.logger)
	if a.tracer != nil {
		schedulerService = schedulerService.WithTracer(a.tracer)
	}

	handlers := web.NewAPIHandlers(schedulerService, a.persistence, a.validate, a.callbackBaseURL)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("campaignd API")
	})

	campaigns := app.Group("/campaigns/:campaignID")
	campaigns.Post("/schedule", handlers.ScheduleCampaign)
	campaigns.Get("/run", handlers.RunCampaignNode)
	campaigns.Post("/run", handlers.RunCampaignNode)
	campaigns.Get("/schedules", handlers.ListCampaignSchedules)

	app.Get("/schedules/:id", handlers.GetSchedule)

	app.Get("/health", handlers.HealthCheck)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	err := app.Listen(":" + strconv.Itoa(port))

	return err
}
