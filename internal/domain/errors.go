package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")

	ErrProductNotFound  = fmt.Errorf("producto: %w", ErrNotFound)
	ErrMovementNotFound = fmt.Errorf("movimiento: %w", ErrNotFound)
	ErrLocationNotFound = errors.New("ubicación no encontrada")
	// ErrInvalidZone: etage_id/part_id que no existe o no pertenece a la ubicación.
	ErrInvalidZone = errors.New("etage_id/part_id inválido")
	// ErrZoneConflict: un movimiento no puede referenciar piso y parte a la vez.
	ErrZoneConflict = errors.New("etage_id y part_id son excluyentes")
	// ErrConsistency: un contador desnormalizado no se pudo escribir (fila de subzona ausente a mitad de tx).
	ErrConsistency = errors.New("inconsistencia de contadores")
)

// Error envuelve un error de dominio con la operación y detalles estructurados para la respuesta.
// errors.Is/As atraviesan el wrapper hasta el sentinel.
type Error struct {
	Op      string
	Err     error
	Details map[string]any
}

// E construye un Error para la operación op.
func E(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// With añade un detalle clave/valor.
func (e *Error) With(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// DetailsOf devuelve los detalles del primer *Error de la cadena, o nil.
func DetailsOf(err error) map[string]any {
	var de *Error
	if errors.As(err, &de) {
		return de.Details
	}
	return nil
}

// IsClientError indica si el error corresponde a una falla de validación o búsqueda (4xx).
func IsClientError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrInvalidZone),
		errors.Is(err, ErrZoneConflict),
		errors.Is(err, ErrLocationNotFound),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrDuplicate),
		errors.Is(err, ErrConflict):
		return true
	}
	return false
}
