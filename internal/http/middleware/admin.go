package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AdminLocalKey marks requests served under the administrative prefix.
const AdminLocalKey = "admin"

// Admin flags every request whose path lies under prefix as administrative.
// An empty prefix disables the check.
func Admin(prefix string) fiber.Handler {
	prefix = "/" + strings.Trim(prefix, "/")
	return func(c *fiber.Ctx) error {
		if prefix != "/" && underPrefix(c.Path(), prefix) {
			c.Locals(AdminLocalKey, true)
		}
		return c.Next()
	}
}

// IsAdmin reports whether Admin flagged the request.
func IsAdmin(c *fiber.Ctx) bool {
	v, _ := c.Locals(AdminLocalKey).(bool)
	return v
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
