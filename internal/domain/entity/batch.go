package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchAvailability fila derivada (no persistida): saldo de un lote en una ubicación/subzona.
type BatchAvailability struct {
	BatchNumber     string          `json:"batch_number"`
	LocationID      string          `json:"location_id"`
	Zone            ZoneRef         `json:"-"`
	FabricationDate *time.Time      `json:"fabrication_date,omitempty"`
	ExpirationDate  *time.Time      `json:"expiration_date,omitempty"`
	QualityStatus   *string         `json:"quality_status,omitempty"`
	Available       decimal.Decimal `json:"available"`
}

// AllocationLine cantidad tomada de un lote concreto, con su procedencia.
type AllocationLine struct {
	BatchNumber     string
	LocationID      string
	Zone            ZoneRef
	Taken           decimal.Decimal
	FabricationDate *time.Time
	ExpirationDate  *time.Time
	QualityStatus   *string
}

// AllocationPlan resultado de una asignación FIFO. Shortfall > 0 indica stock insuficiente.
type AllocationPlan struct {
	Lines     []AllocationLine
	Shortfall decimal.Decimal
}

// Allocated suma de lo tomado.
func (p AllocationPlan) Allocated() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Taken)
	}
	return total
}
