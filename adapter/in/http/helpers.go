package http

import (
	"github.com/gofiber/fiber/v2"
)

// GetLimit reads a limit query param, falling back when absent or non-positive.
func GetLimit(c *fiber.Ctx, def int) int {
	limit := c.QueryInt("limit", def)
	if limit <= 0 {
		limit = def
	}
	if limit > 100 {
		limit = 100
	}
	return limit
}
