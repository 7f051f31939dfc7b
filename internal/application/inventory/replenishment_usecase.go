package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición: productos en o bajo su umbral de alerta.
type ReplenishmentUseCase struct {
	products repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(products repository.ProductRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{products: products}
}

// LowStock devuelve los productos con alerte > 0 y stock <= alerte, con la cantidad sugerida
// para volver a 1.5 veces el umbral. Orden: mayor déficit relativo primero.
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context) ([]dto.LowStockDTO, error) {
	items, err := uc.products.ListAtOrBelowThreshold(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []dto.LowStockDTO{}, nil
	}

	factor := decimal.NewFromFloat(1.5)
	out := make([]dto.LowStockDTO, 0, len(items))
	for _, p := range items {
		ideal := p.AlertThreshold.Mul(factor)
		suggested := ideal.Sub(p.Stock)
		if suggested.IsNegative() {
			suggested = decimal.Zero
		}
		out = append(out, dto.LowStockDTO{
			ProductID:      p.ID,
			Reference:      p.Reference,
			ProductName:    p.Name,
			Unit:           p.Unit,
			CurrentStock:   p.Stock,
			AlertThreshold: p.AlertThreshold,
			IdealStock:     ideal,
			SuggestedQty:   suggested,
		})
	}

	// Déficit relativo (alerte - stock) / alerte; empate por déficit absoluto y luego por referencia.
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		ra := a.AlertThreshold.Sub(a.CurrentStock).Div(a.AlertThreshold)
		rb := b.AlertThreshold.Sub(b.CurrentStock).Div(b.AlertThreshold)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		da := a.AlertThreshold.Sub(a.CurrentStock)
		db := b.AlertThreshold.Sub(b.CurrentStock)
		if !da.Equal(db) {
			return da.GreaterThan(db)
		}
		return a.Reference < b.Reference
	})

	for i := range out {
		out[i].Priority = i + 1
	}
	return out, nil
}
