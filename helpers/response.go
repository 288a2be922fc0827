package helpers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"matka/engine"
	"matka/storage"
)

func JSONSuccess(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
		"data":    nil,
	})
}

// EngineError maps core errors onto HTTP responses.
func EngineError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return JSONError(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, engine.ErrValidation),
		errors.Is(err, engine.ErrMarketNotOpen),
		errors.Is(err, engine.ErrInvalidGameType),
		errors.Is(err, engine.ErrInsufficientBalance),
		errors.Is(err, engine.ErrMarketNotClosed),
		errors.Is(err, engine.ErrInvalidStatusTransition):
		return JSONError(c, fiber.StatusBadRequest, err.Error())
	default:
		return JSONError(c, fiber.StatusInternalServerError, "internal error")
	}
}
