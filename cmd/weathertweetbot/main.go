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

	httpapi "weathertweetbot/internal/api/http"
	"weathertweetbot/internal/config"
	"weathertweetbot/internal/pipeline"
	"weathertweetbot/internal/publish"
	"weathertweetbot/internal/render"
	"weathertweetbot/internal/scheduler"
	"weathertweetbot/internal/weather/providers"
)

func main() {
	// Load configuration (reads .env when present). Publish-path credential
	// validation happens here, before the first cycle can run.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound weather calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewOpenWeatherProvider(httpClient, cfg.WeatherAPIKey)
	renderer := render.NewWkhtmlRenderer(cfg.WkhtmlPath, cfg.ImageWidth)
	publisher := publish.NewTwitterPublisher(cfg.Twitter, cfg.HTTPTimeout)

	pipe := pipeline.New(pipeline.Options{
		Provider:    provider,
		Renderer:    renderer,
		Publisher:   publisher,
		Artifacts:   pipeline.NewTempFileStore(""),
		Location:    cfg.Location,
		Region:      cfg.Region,
		TZ:          cfg.TZ,
		PostEnabled: cfg.PostToTwitterEnabled,
	})

	// Optional built-in trigger; most deployments use an external scheduler
	// hitting /run-tweet-task instead.
	sched := scheduler.New(cfg.PostInterval, pipe)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "weathertweetbot",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          2 * time.Minute, // a publish cycle fetches, renders and posts inline
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
	app.Use(logger.New())
	app.Use(recover.New())

	// API routes.
	httpapi.RegisterRoutes(app, pipe)

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
