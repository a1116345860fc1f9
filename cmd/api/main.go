package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"emailpost/internal/cache"
	"emailpost/internal/config"
	"emailpost/internal/content"
	"emailpost/internal/database"
	"emailpost/internal/database/migration"
	handlers "emailpost/internal/http/handler"
	"emailpost/internal/http/middleware"
	"emailpost/internal/logger"
	"emailpost/internal/otel"
	"emailpost/internal/repository"
	"emailpost/internal/repository/postgres"
	"emailpost/internal/service"
	"emailpost/internal/storage"
)

func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()

	log := logger.New(logger.Options{
		Dev:       cfg.IsDev(),
		Level:     cfg.LogLevel,
		SentryDSN: cfg.SentryDSN,
	})
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("server_exit", "error", err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.AppConfig, log *slog.Logger) error {
	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(sctx)
	}()

	tree, err := content.NewTree(cfg.PagesDir)
	if err != nil {
		return err
	}

	// Attachments land next to the entry markdown; MinIO receives a copy when configured
	attachments, err := storage.NewLocal(tree.Root())
	if err != nil {
		return fmt.Errorf("init attachment storage: %w", err)
	}
	if cfg.MinIO.Enabled() {
		objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
		if err != nil {
			return fmt.Errorf("init object storage: %w", err)
		}
		attachments = storage.NewMirror(attachments, objStore)
	}

	// The ledger stays a nil interface unless a database is configured
	var (
		db     *sql.DB
		ledger repository.EntryRepository
	)
	if cfg.Database.Enabled() {
		db, err = database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()

		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			return err
		}
		ledger = postgres.NewEntryPostgres(db)
	}

	pool := cache.NewPool()
	entrySvc := service.NewEntryService(service.Deps{
		Parents:     tree,
		Store:       content.NewStore(),
		Folders:     content.Folders{},
		Attachments: attachments,
		Cache:       pool,
		Ledger:      ledger,
		Logger:      log,
	}, service.Options{
		ParentRoute: cfg.Webhook.ParentRoute,
		Template:    cfg.Webhook.Template,
		Verbose:     cfg.Webhook.Verbose,
		Location:    cfg.Location(),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: !cfg.IsDev(),
	})

	// RequestID adds/propagates X-Request-ID and stores it in context
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(cfg.Location()))
	app.Use(metrics.Handler())
	app.Use(middleware.Admin(cfg.Webhook.AdminRoute))
	app.Use(handlers.Webhook(entrySvc, log, metrics, handlers.WebhookOptions{
		Route: cfg.Webhook.Route,
		Debug: cfg.Debug,
	}))

	handlers.RegisterRoutes(app, handlers.RouteDeps{
		DB:          db,
		Tree:        tree,
		Index:       content.NewIndex(pool, cfg.Webhook.Template+".md", log),
		Gatherer:    reg,
		Logger:      log,
		ParentRoute: cfg.Webhook.ParentRoute,
		IndexRoute:  cfg.Webhook.IndexRoute,
	})

	addr := ":" + cfg.Port
	errChan := make(chan error, 1)
	go func() {
		log.Info("server_start",
			"addr", addr,
			"pages_dir", tree.Root(),
			"webhook_route", cfg.Webhook.Route,
			"parent_route", cfg.Webhook.ParentRoute,
			"ledger", ledger != nil,
			"mirror", cfg.MinIO.Enabled(),
		)
		errChan <- app.Listen(addr)
	}()

	select {
	case <-ctx.Done():
		log.Info("server_shutdown")
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return app.ShutdownWithContext(sctx)
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	}
}
