package handler

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"emailpost/internal/content"
	"emailpost/internal/model"
	"emailpost/internal/service"
)

// RouteDeps are the collaborators of the read-only routes.
type RouteDeps struct {
	// DB is the optional ledger connection; nil skips the database check.
	DB          *sql.DB
	Tree        *content.Tree
	Index       *content.Index
	Gatherer    prometheus.Gatherer
	Logger      *slog.Logger
	ParentRoute string
	IndexRoute  string
}

// RegisterRoutes attaches the health, listing and metrics routes to app.
func RegisterRoutes(app *fiber.App, d RouteDeps) {
	if d.Gatherer != nil {
		app.Get("/metrics", Metrics(d.Gatherer))
	}
	app.Get("/health", HealthCheck(d.Tree.Root(), d.DB))
	app.Get("/healthz", LivenessProbe())
	app.Get(d.IndexRoute, ListEntries(d.Tree, d.Index, d.ParentRoute, d.Logger))
}

// Metrics serves the Prometheus exposition format for gatherer.
func Metrics(gatherer prometheus.Gatherer) fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}

// HealthCheck reports ready when the content root is a directory and, if db is
// not nil, the ledger answers a ping.
func HealthCheck(root string, db *sql.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
			return writeStatus(c, fiber.StatusServiceUnavailable, "content root unavailable")
		}
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				return writeStatus(c, fiber.StatusServiceUnavailable, "dependency unavailable")
			}
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// ListEntries returns the entries below parentRoute, newest first.
func ListEntries(tree *content.Tree, index *content.Index, parentRoute string, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		node, err := tree.Find(ctx, parentRoute)
		if err != nil {
			if errors.Is(err, model.ErrNodeNotFound) {
				return writeStatus(c, fiber.StatusNotFound, service.MsgParentNotFound)
			}
			log.ErrorContext(ctx, logPrefix+"Parent lookup failed", "error", err.Error())
			return writeStatus(c, fiber.StatusInternalServerError, msgInternalError)
		}

		items, err := index.List(ctx, node)
		if err != nil {
			log.ErrorContext(ctx, logPrefix+"Entry listing failed", "path", node.Path, "error", err.Error())
			return writeStatus(c, fiber.StatusInternalServerError, msgInternalError)
		}
		return c.JSON(listPayload{Status: fiber.StatusOK, Data: items})
	}
}
