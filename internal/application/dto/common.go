package dto

import (
	"strings"
	"time"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Limit > 500 {
		p.Limit = 500
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// SuccessResponse cuerpo de las operaciones administrativas.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// DateLayout formato de fecha de los movimientos.
const DateLayout = "2006-01-02"

// ParseDate acepta "2006-01-02" o RFC3339; nil o vacío devuelve nil.
func ParseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*s)
	t, err := time.Parse(DateLayout, v)
	if err != nil {
		t, err = time.Parse(time.RFC3339, v)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}

// FormatDate formatea una fecha opcional.
func FormatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
