package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// statusFor traduce un error de dominio a status HTTP y código estable.
// ErrLocationNotFound va antes que ErrNotFound: la búsqueda por nombre en la edición es un 400.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrLocationNotFound):
		return fiber.StatusBadRequest, "LOCATION_NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidZone):
		return fiber.StatusBadRequest, "INVALID_ZONE"
	case errors.Is(err, domain.ErrZoneConflict):
		return fiber.StatusBadRequest, "ZONE_CONFLICT"
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, "INSUFFICIENT_STOCK"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrConsistency):
		return fiber.StatusInternalServerError, "CONSISTENCY"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// respondError escribe {error, code, details?} con el status correspondiente.
func respondError(c *fiber.Ctx, err error) error {
	status, code := statusFor(err)
	return c.Status(status).JSON(dto.ErrorResponse{
		Error:   err.Error(),
		Code:    code,
		Details: domain.DetailsOf(err),
	})
}

// invalidBody respuesta para cuerpos JSON que no se pueden parsear.
func invalidBody(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido: " + err.Error(), Code: "INVALID_BODY"})
}

// invalidField error de validación de un campo concreto del request.
func invalidField(op, field string) error {
	return domain.E(op, domain.ErrInvalidInput).With("field", field)
}
