package main

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wsync/internal/config"
	handlers "wsync/internal/http/handler"
	"wsync/internal/http/middleware"
	"wsync/internal/otel"
	"wsync/internal/service"
	"wsync/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	shutdownTracing, err := otel.Init(context.Background(), time.UTC)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	// Pick the upload store: local disk by default, MinIO when configured.
	var store storage.Store
	switch cfg.StorageBackend {
	case "s3":
		store, err = storage.NewMinIO(cfg.MinIO, cfg.Upload.MaxSize)
	default:
		store, err = storage.NewDisk(cfg.Upload.Dir, cfg.Upload.MaxSize)
	}
	if err != nil {
		log.Fatalf("failed to initialize storage: %v", err)
	}

	mediaSvc := service.NewMediaService(store)

	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
		// Leave headroom above the stream limit so oversized uploads are
		// rejected by the pipeline with a clean 413, not cut off mid-body.
		BodyLimit:         int(cfg.Upload.MaxSize) + 10*1024*1024,
		StreamRequestBody: true,
		IdleTimeout:       time.Duration(cfg.Upload.TimeoutSec) * time.Second,
	})

	// Register global middleware
	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	app.Use(cors.New())
	app.Use(otelfiber.Middleware())

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	promMiddleware, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}
	app.Use(promMiddleware.Handler())
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	// Register HTTP routes with injected service
	handlers.RegisterRoutes(app, store, mediaSvc)

	// Frontend assets, when deployed alongside the API
	app.Static("/", "./static")

	addr := ":" + cfg.Port

	if err := app.Listen(addr); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
