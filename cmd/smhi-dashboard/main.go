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
	"github.com/kelvins/geocoder"

	httpapi "github.com/vaderkoll/smhi-dashboard/internal/api/http"
	"github.com/vaderkoll/smhi-dashboard/internal/cache"
	"github.com/vaderkoll/smhi-dashboard/internal/config"
	"github.com/vaderkoll/smhi-dashboard/internal/forecast"
	"github.com/vaderkoll/smhi-dashboard/internal/geo"
	"github.com/vaderkoll/smhi-dashboard/internal/scheduler"
	"github.com/vaderkoll/smhi-dashboard/internal/smhi"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound SMHI calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}
	client := smhi.NewClient(httpClient, cfg.SMHIBaseURL)

	// Coordinate-keyed payload cache with the configured TTL. Owned here,
	// injected into the pipeline.
	payloadCache := cache.New(cfg.CacheTTL)

	// Core service running the retrieval pipeline.
	service := forecast.NewService(client, payloadCache)

	// Optional geocoding for place-name lookups.
	if cfg.GeocoderAPIKey != "" {
		geocoder.ApiKey = cfg.GeocoderAPIKey
	}

	// Optional warm-cache prefetch of the preset locations.
	if cfg.PrefetchEnabled {
		sched := scheduler.New(geo.DefaultPresets(), cfg.PrefetchInterval, service)
		if err := sched.Start(); err != nil {
			log.Fatalf("failed to start scheduler: %v", err)
		}
		defer sched.Stop()
	}

	// Basic app configuration
	app := fiber.New(fiber.Config{
		AppName:               "smhi-dashboard",
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
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "smhi-dashboard",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, service, httpapi.Options{
		DefaultWindowHours: cfg.DefaultWindowHours,
		GeocodingEnabled:   cfg.GeocoderAPIKey != "",
	})

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
