package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retailpulse-inventory/internal/application/dto"
	"github.com/jhoicas/retailpulse-inventory/internal/domain"
)

// Respuesta para errores no etiquetados; su detalle nunca se expone.
const (
	internalCode    = "INTERNAL"
	internalMessage = "error interno"
)

// statusFor traduce el Kind del error de dominio a código HTTP.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return fiber.StatusBadRequest
	case domain.KindNotFound:
		return fiber.StatusNotFound
	case domain.KindInsufficientStock, domain.KindConcurrencyConflict:
		return fiber.StatusConflict
	case domain.KindExternalLookup:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responde con dto.ErrorResponse según el tipo de error.
// Los errores no etiquetados no exponen su detalle.
func writeError(c *fiber.Ctx, err error) error {
	kind := domain.KindOf(err)
	code := domain.CodeOf(err)
	msg := err.Error()

	var de *domain.Error
	if errors.As(err, &de) && de.Message != "" {
		msg = de.Message
	}
	if kind == domain.KindUnknown {
		code, msg = internalCode, internalMessage
	}
	return c.Status(statusFor(kind)).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: domain.CodeInvalidRequest, Message: msg})
}
