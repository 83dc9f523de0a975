package server

import (
	"context"
	"errors"

	"quiz-manager/core/domain"
	"quiz-manager/core/generation"
	"quiz-manager/core/reconcile"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error to its HTTP status code.
func StatusFor(err error) int {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe.Code
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrAuth):
		return fiber.StatusUnauthorized
	case errors.Is(err, reconcile.ErrConfirmationRequired), errors.Is(err, generation.ErrStale):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrNetwork):
		return fiber.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return fiber.StatusGatewayTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

// RespondError writes {"error": ...} with the mapped status. Validation
// errors also list the offending values.
func RespondError(c *fiber.Ctx, err error) error {
	body := fiber.Map{"error": err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) && len(verr.Offending) > 0 {
		body["offending"] = verr.Offending
	}
	return c.Status(StatusFor(err)).JSON(body)
}
