package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// statusPayload is the body of every webhook and error response.
type statusPayload struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// listPayload wraps successful listings.
type listPayload struct {
	Status int `json:"status"`
	Data   any `json:"data"`
}

// writeStatus writes {"status":<status>,"message":<message>} with the same HTTP status.
func writeStatus(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(statusPayload{Status: status, Message: message})
}

// ErrorHandler returns a Fiber global error handler that renders errors in
// the status/message envelope without leaking internal details.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}
		return writeStatus(c, status, utils.StatusMessage(status))
	}
}
