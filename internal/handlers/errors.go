package handlers

import (
	"errors"

	"storefront/internal/apperrors"
	"storefront/internal/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// statusFor maps a service error code to an HTTP status.
func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrValidation:
		return fiber.StatusBadRequest
	case apperrors.ErrNotFound:
		return fiber.StatusNotFound
	case apperrors.ErrConflict:
		return fiber.StatusConflict
	case apperrors.ErrUnauthorized:
		return fiber.StatusUnauthorized
	case apperrors.ErrForbidden:
		return fiber.StatusForbidden
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError writes err as JSON. Service errors keep their own message;
// anything else is logged and reported with the fallback message.
func respondError(c *fiber.Ctx, err error, fallback string) error {
	var se *apperrors.ServiceError
	if !errors.As(err, &se) || se.Code == apperrors.ErrInternal {
		logger.Logger.Error(fallback,
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": fallback,
			"error":   err.Error(),
		})
	}

	body := fiber.Map{"message": se.Message}
	if len(se.Fields) > 0 {
		body["errors"] = se.Fields
	}
	return c.Status(statusFor(se.Code)).JSON(body)
}

// badBody reports an unparseable request body.
func badBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"message": "Invalid request body",
		"error":   err.Error(),
	})
}
