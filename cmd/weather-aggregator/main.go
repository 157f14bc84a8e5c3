package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	httpapi "github.com/danielfonkaz/WeatherAggregator/internal/api/http"
	"github.com/danielfonkaz/WeatherAggregator/internal/config"
	"github.com/danielfonkaz/WeatherAggregator/internal/scheduler"
	"github.com/danielfonkaz/WeatherAggregator/internal/store"
	"github.com/danielfonkaz/WeatherAggregator/internal/weather"
	"github.com/danielfonkaz/WeatherAggregator/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	// Access-log database.
	db, err := store.NewDB(cfg.AccessLogPath)
	if err != nil {
		log.Fatalf("failed to open access log: %v", err)
	}
	defer db.Close()

	// Weather-code codebook; unreadable file degrades to an empty table so
	// unresolved codes fall through to Unrecognized.
	codebook, err := weather.LoadCodebook(cfg.CodebookPath)
	if err != nil {
		log.Printf("WARN: could not read weather codes file: %v", err)
		codebook = weather.Codebook{}
	}

	// Primary (required) and secondary (best-effort) providers.
	primary := providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey)
	secondary := providers.NewOpenMeteoProvider(httpClient)

	service := weather.NewService(primary, secondary, weather.NewNormalizer(codebook))

	// Scheduler that periodically prunes the access log.
	sched := scheduler.New(db, cfg.AccessLogSweepInterval, cfg.AccessLogMaxAge)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weather-aggregator",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-aggregator",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, db)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
