package handler

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"emailpost/internal/http/middleware"
	"emailpost/internal/logger"
	"emailpost/internal/model"
	"emailpost/internal/service"
)

const (
	logPrefix = "[Emailpost] "

	msgPostCreated      = "Post created"
	msgMethodNotAllowed = "Method Not Allowed"
	msgInternalError    = "Internal Server Error"
	msgMalformedBody    = "Unable to parse request body"
)

// Recorder counts webhook outcomes by response status.
type Recorder interface {
	ObserveWebhook(status int)
}

// WebhookOptions configures the webhook gate.
type WebhookOptions struct {
	Route string
	// Debug exposes the message of unexpected failures to the caller.
	Debug bool
}

type webhook struct {
	svc   service.EntryService
	log   *slog.Logger
	rec   Recorder
	route string
	debug bool
}

// Webhook returns a middleware that answers POSTs to the configured route by
// creating an entry through svc. Requests to any other path, and every request
// in an administrative context, continue down the chain untouched.
func Webhook(svc service.EntryService, log *slog.Logger, rec Recorder, opts WebhookOptions) fiber.Handler {
	h := &webhook{
		svc:   svc,
		log:   log,
		rec:   rec,
		route: strings.Trim(opts.Route, "/"),
		debug: opts.Debug,
	}
	return h.handle
}

func (h *webhook) handle(c *fiber.Ctx) error {
	if middleware.IsAdmin(c) {
		return c.Next()
	}

	ctx := c.UserContext()
	path := strings.Trim(c.Path(), "/")
	if path != h.route {
		h.log.DebugContext(ctx, logPrefix+"Route mismatch", "path", path, "route", h.route)
		return c.Next()
	}

	log := h.log.With(
		"route", h.route,
		"method", c.Method(),
		"ip", c.IP(),
		"request_id", middleware.RequestIDFromCtx(c),
		"content_length", c.Request().Header.ContentLength(),
	)

	if c.Method() != fiber.MethodPost {
		log.WarnContext(ctx, logPrefix+"Invalid request method")
		return h.respond(c, fiber.StatusMethodNotAllowed, msgMethodNotAllowed)
	}

	sub, err := submission(c)
	if err != nil {
		log.ErrorContext(ctx, logPrefix+msgMalformedBody, "error", err.Error())
		return h.respond(c, fiber.StatusBadRequest, msgMalformedBody)
	}
	log = log.With("has_files", sub.HasFiles())

	e, err := h.svc.Create(ctx, sub)
	if err != nil {
		if msg, ok := service.AsExpected(err); ok {
			log.ErrorContext(ctx, logPrefix+msg, "error", err.Error())
			return h.respond(c, fiber.StatusBadRequest, msg)
		}

		log.Log(ctx, logger.LevelCritical, logPrefix+"Unexpected failure", "error", err.Error())
		msg := msgInternalError
		if h.debug {
			msg = err.Error()
		}
		return h.respond(c, fiber.StatusInternalServerError, msg)
	}

	log.InfoContext(ctx, logPrefix+msgPostCreated,
		"folder", e.Folder,
		"entry_route", e.Route,
		"attachments", len(e.Attachments),
	)
	return h.respond(c, fiber.StatusOK, msgPostCreated)
}

func (h *webhook) respond(c *fiber.Ctx, status int, message string) error {
	trace.SpanFromContext(c.UserContext()).SetAttributes(
		attribute.Int("emailpost.status", status),
	)
	if h.rec != nil {
		h.rec.ObserveWebhook(status)
	}
	return writeStatus(c, status, message)
}

// submission parses the request body into a Submission. Multipart bodies
// contribute their file parts; urlencoded bodies only carry fields.
func submission(c *fiber.Ctx) (*model.Submission, error) {
	ctype := strings.ToLower(string(c.Request().Header.ContentType()))
	if strings.HasPrefix(ctype, fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		return model.NewSubmission(form.Value, form.File), nil
	}

	values := make(map[string][]string)
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		key := string(k)
		values[key] = append(values[key], string(v))
	})
	return model.NewSubmission(values, nil), nil
}
