package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

type batchKey struct {
	batch    string
	location string
	zone     string
}

// ProjectBatches agrega el libro de movimientos en filas de disponibilidad, una por
// (lote, ubicación, subzona): Available = Σ entradas − Σ salidas. Incluye traslados
// (mueven stock entre ubicaciones). Devuelve también las filas en cero, para historial;
// usar Allocatable antes de asignar. El orden es la secuencia FIFO (ver SortFIFO).
func ProjectBatches(movements []entity.Movement) []entity.BatchAvailability {
	ordered := make([]entity.Movement, len(movements))
	copy(ordered, movements)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	rows := make(map[batchKey]*entity.BatchAvailability)
	keys := make([]batchKey, 0)
	for i := range ordered {
		m := &ordered[i]
		k := batchKey{batch: m.BatchNumber, location: m.LocationID, zone: m.Zone.Key()}
		row, ok := rows[k]
		if !ok {
			row = &entity.BatchAvailability{
				BatchNumber: m.BatchNumber,
				LocationID:  m.LocationID,
				Zone:        m.Zone,
				Available:   decimal.Zero,
			}
			rows[k] = row
			keys = append(keys, k)
		}
		row.Available = row.Available.Add(m.Signed())
		// La fecha de fabricación/caducidad del lote la fija la primera fila que la trae.
		if row.FabricationDate == nil && m.FabricationDate != nil {
			row.FabricationDate = copyTime(m.FabricationDate)
		}
		if row.ExpirationDate == nil && m.ExpirationDate != nil {
			row.ExpirationDate = copyTime(m.ExpirationDate)
		}
		// El estado de calidad vigente es el último informado.
		if m.QualityStatus != nil {
			q := *m.QualityStatus
			row.QualityStatus = &q
		}
	}

	out := make([]entity.BatchAvailability, 0, len(keys))
	for _, k := range keys {
		out = append(out, *rows[k])
	}
	SortFIFO(out)
	return out
}

// SortFIFO ordena por fecha de fabricación ascendente (sin fecha = más antigua) y luego por
// número de lote lexicográfico. Ubicación y subzona desempatan para que el orden sea determinista.
func SortFIFO(rows []entity.BatchAvailability) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if c := compareDates(a.FabricationDate, b.FabricationDate); c != 0 {
			return c < 0
		}
		if a.BatchNumber != b.BatchNumber {
			return a.BatchNumber < b.BatchNumber
		}
		if a.LocationID != b.LocationID {
			return a.LocationID < b.LocationID
		}
		return a.Zone.Key() < b.Zone.Key()
	})
}

// Allocatable filtra las filas con saldo positivo conservando el orden.
func Allocatable(rows []entity.BatchAvailability) []entity.BatchAvailability {
	out := make([]entity.BatchAvailability, 0, len(rows))
	for _, r := range rows {
		if r.Available.IsPositive() {
			out = append(out, r)
		}
	}
	return out
}

// Totals contadores de producto recalculados desde el libro.
type Totals struct {
	TotalIn  decimal.Decimal
	TotalOut decimal.Decimal
	Stock    decimal.Decimal
}

// StockTotals recalcula stock/total_entrer/total_sortie. Excluye traslados internos y filas
// creadas con affect_stock=false: son las que no tocaron los contadores del producto.
func StockTotals(movements []entity.Movement) Totals {
	t := Totals{TotalIn: decimal.Zero, TotalOut: decimal.Zero, Stock: decimal.Zero}
	for i := range movements {
		m := &movements[i]
		if m.IsTransfer || !m.AffectsStock {
			continue
		}
		if m.IsExit() {
			t.TotalOut = t.TotalOut.Add(m.Quantity)
		} else {
			t.TotalIn = t.TotalIn.Add(m.Quantity)
		}
	}
	t.Stock = t.TotalIn.Sub(t.TotalOut)
	return t
}

// ZoneTotals ocupación por subzona (clave ZoneRef.Key()) sumando todas las filas que la referencian.
func ZoneTotals(movements []entity.Movement) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for i := range movements {
		m := &movements[i]
		if m.Zone.IsZero() {
			continue
		}
		k := m.Zone.Key()
		out[k] = out[k].Add(m.Signed())
	}
	return out
}

func compareDates(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case a.Before(*b):
		return -1
	case a.After(*b):
		return 1
	}
	return 0
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
