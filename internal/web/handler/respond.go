package handler

import "github.com/gofiber/fiber/v2"

// ListMeta carries pagination info alongside list payloads.
type ListMeta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

// Respond writes a success envelope.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

// RespondList writes a success envelope with pagination metadata.
func RespondList(c *fiber.Ctx, data interface{}, meta ListMeta) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"meta":    meta,
	})
}

// RespondError writes an error envelope.
func RespondError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// PageParams reads limit/offset query parameters with sane bounds.
func PageParams(c *fiber.Ctx, defaultLimit, maxLimit int) (limit, offset int) {
	limit = c.QueryInt("limit", defaultLimit)
	if limit <= 0 || limit > maxLimit {
		limit = defaultLimit
	}

	offset = c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
