package serverutils

import (
	"errors"

	"hr-faq-be/internal/pkg/logger"
	"hr-faq-be/pkg/apperr"

	"github.com/gofiber/fiber/v2"
)

// StatusFor maps an error kind onto an HTTP status.
func StatusFor(err error) int {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindIntegrity:
		return fiber.StatusConflict
	case apperr.KindBackend:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func publicMessage(err error, status int) string {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Message
	}
	var ae *apperr.Error
	switch status {
	case fiber.StatusBadRequest, fiber.StatusNotFound, fiber.StatusConflict:
		if errors.As(err, &ae) && ae.Err != nil {
			return ae.Err.Error()
		}
		return err.Error()
	case fiber.StatusServiceUnavailable:
		return "Service temporarily unavailable"
	default:
		return "Internal server error"
	}
}

// ErrorHandler is installed as fiber.Config.ErrorHandler. Internal causes are
// logged, never returned to the client.
func ErrorHandler(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		status := StatusFor(err)
		if status >= fiber.StatusInternalServerError {
			log.Error("HTTP", "request failed", map[string]interface{}{
				"method": ctx.Method(),
				"path":   ctx.Path(),
				"status": status,
				"error":  err.Error(),
			})
		}
		return ctx.Status(status).JSON(ErrorResponse(status, publicMessage(err, status)))
	}
}
