package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sentido del movimiento (valores persistidos tal cual).
const (
	StatusEntry = "Entrée"
	StatusExit  = "Sortie"
)

// Estados de control de calidad.
const (
	QualityConforming    = "conforme"
	QualityNonConforming = "non-conforme"
)

// Movement es una fila del libro de movimientos; fuente de verdad de todas las cantidades.
// El sentido (Status) es inmutable; la edición revierte el aporte anterior y aplica el nuevo.
type Movement struct {
	ID               string
	ProductID        string
	ProductType      string
	Status           string
	Quantity         decimal.Decimal // siempre positiva
	LocationID       string
	Zone             ZoneRef
	Date             time.Time
	Time             string // HH:MM:SS
	BatchNumber      string
	SupplierID       *string
	FabricationDate  *time.Time
	ExpirationDate   *time.Time
	QualityStatus    *string
	NeedsExamination bool
	IsTransfer       bool
	// AffectsStock indica si el alta aplicó los contadores del producto (affect_stock).
	// La reversión en edición/borrado aplica exactamente lo que aplicó el alta.
	AffectsStock bool
	CreatedAt    time.Time
}

// IsEntry indica si el movimiento suma stock.
func (m *Movement) IsEntry() bool { return m.Status == StatusEntry }

// IsExit indica si el movimiento resta stock.
func (m *Movement) IsExit() bool { return m.Status == StatusExit }

// Signed devuelve la cantidad con signo (+ entrada, - salida).
func (m *Movement) Signed() decimal.Decimal {
	if m.IsExit() {
		return m.Quantity.Neg()
	}
	return m.Quantity
}

// ValidStatus indica si s es un sentido de movimiento válido.
func ValidStatus(s string) bool {
	return s == StatusEntry || s == StatusExit
}

// ValidQualityStatus acepta nil, "conforme" o "non-conforme".
func ValidQualityStatus(s *string) bool {
	if s == nil {
		return true
	}
	return *s == QualityConforming || *s == QualityNonConforming
}
