package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CounterDelta variación relativa de los contadores de un producto.
// Se aplica como "stock = stock + ?" para que deltas concurrentes conmuten bajo bloqueo de fila.
type CounterDelta struct {
	Stock    decimal.Decimal
	TotalIn  decimal.Decimal
	TotalOut decimal.Decimal
}

// IsZero indica que no hay nada que escribir.
func (d CounterDelta) IsZero() bool {
	return d.Stock.IsZero() && d.TotalIn.IsZero() && d.TotalOut.IsZero()
}

// Add suma dos deltas.
func (d CounterDelta) Add(o CounterDelta) CounterDelta {
	return CounterDelta{
		Stock:    d.Stock.Add(o.Stock),
		TotalIn:  d.TotalIn.Add(o.TotalIn),
		TotalOut: d.TotalOut.Add(o.TotalOut),
	}
}

// Neg invierte el delta.
func (d CounterDelta) Neg() CounterDelta {
	return CounterDelta{Stock: d.Stock.Neg(), TotalIn: d.TotalIn.Neg(), TotalOut: d.TotalOut.Neg()}
}

// ZoneDelta variación de currentStock de un piso o parte.
type ZoneDelta struct {
	Zone  entity.ZoneRef
	Delta decimal.Decimal
}

// Effect conjunto de escrituras de contadores que produce una mutación del libro.
type Effect struct {
	Product CounterDelta
	Zones   []ZoneDelta
}

func zeroDelta() CounterDelta {
	return CounterDelta{Stock: decimal.Zero, TotalIn: decimal.Zero, TotalOut: decimal.Zero}
}

// Contribution lo que aplica el alta de m: contadores de producto solo si AffectsStock;
// la subzona siempre sigue a la fila (ocupación física).
func Contribution(m *entity.Movement) Effect {
	eff := Effect{Product: zeroDelta()}
	if m.AffectsStock {
		if m.IsExit() {
			eff.Product.Stock = m.Quantity.Neg()
			eff.Product.TotalOut = m.Quantity
		} else {
			eff.Product.Stock = m.Quantity
			eff.Product.TotalIn = m.Quantity
		}
	}
	if !m.Zone.IsZero() && !m.Quantity.IsZero() {
		eff.Zones = []ZoneDelta{{Zone: m.Zone, Delta: m.Signed()}}
	}
	return eff
}

// Reversal deshace exactamente la contribución del alta (borrado).
func Reversal(m *entity.Movement) Effect {
	c := Contribution(m)
	eff := Effect{Product: c.Product.Neg()}
	for _, z := range c.Zones {
		eff.Zones = append(eff.Zones, ZoneDelta{Zone: z.Zone, Delta: z.Delta.Neg()})
	}
	return eff
}

// EditEffect revierte el aporte de old en su subzona y aplica el de updated en la nueva
// (que puede ser la misma, o pasar de piso a parte). El sentido no cambia en una edición, así
// que el delta de producto es la diferencia de cantidades según el sentido original.
// Los deltas sobre la misma subzona se compactan en uno solo.
func EditEffect(old, updated *entity.Movement) Effect {
	rev := Reversal(old)
	app := Contribution(updated)
	eff := Effect{Product: rev.Product.Add(app.Product)}
	eff.Zones = mergeZoneDeltas(append(rev.Zones, app.Zones...))
	return eff
}

func mergeZoneDeltas(in []ZoneDelta) []ZoneDelta {
	idx := make(map[string]int, len(in))
	out := make([]ZoneDelta, 0, len(in))
	for _, z := range in {
		k := z.Zone.Key()
		if i, ok := idx[k]; ok {
			out[i].Delta = out[i].Delta.Add(z.Delta)
			continue
		}
		idx[k] = len(out)
		out = append(out, z)
	}
	res := out[:0]
	for _, z := range out {
		if !z.Delta.IsZero() {
			res = append(res, z)
		}
	}
	return res
}

// Combine suma varios efectos en uno (salida FIFO multi-lote, traslados).
func Combine(effects ...Effect) Effect {
	out := Effect{Product: zeroDelta()}
	var zones []ZoneDelta
	for _, e := range effects {
		out.Product = out.Product.Add(e.Product)
		zones = append(zones, e.Zones...)
	}
	out.Zones = mergeZoneDeltas(zones)
	return out
}
