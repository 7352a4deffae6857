package handler

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	autherror "github.com/S1mon009/auth-service/internal/errors"
)

// fail maps a service error to its status code. Unrecognized errors are
// logged and surfaced as a generic 500 so internal detail never leaks.
func fail(c *fiber.Ctx, err error) error {
	status := errorStatus(err)
	if status == fiber.StatusInternalServerError {
		slog.Error("request failed",
			slog.String("path", c.Path()),
			slog.String("error", err.Error()),
		)
		return c.Status(status).JSON(fiber.Map{"error": "internal server error"})
	}

	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func errorStatus(err error) int {
	switch {
	case errors.Is(err, autherror.ErrEmailAlreadyInUse):
		return fiber.StatusConflict
	case errors.Is(err, autherror.ErrInvalidCredentials),
		errors.Is(err, autherror.ErrEmailNotVerified),
		errors.Is(err, autherror.ErrInvalidRefreshToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, autherror.ErrInvalidToken):
		return fiber.StatusBadRequest
	case errors.Is(err, autherror.ErrUserNotFound),
		errors.Is(err, autherror.ErrProfileNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, autherror.ErrForbidden):
		return fiber.StatusForbidden
	}

	return fiber.StatusInternalServerError
}
