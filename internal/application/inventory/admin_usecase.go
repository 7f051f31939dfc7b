package inventory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// AdminUseCase operaciones administrativas sobre todo el libro.
type AdminUseCase struct {
	txRunner TxRunner
	log      zerolog.Logger
}

// NewAdminUseCase construye el caso de uso.
func NewAdminUseCase(txRunner TxRunner, log zerolog.Logger) *AdminUseCase {
	return &AdminUseCase{txRunner: txRunner, log: log}
}

// Reset borra todos los movimientos y notificaciones y pone a cero los contadores de productos,
// pisos y partes, en una sola transacción.
func (uc *AdminUseCase) Reset(ctx context.Context) error {
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		if err := r.Movements.DeleteAll(ctx); err != nil {
			return fmt.Errorf("borrar movimientos: %w", err)
		}
		if err := r.Products.ResetCounters(ctx); err != nil {
			return fmt.Errorf("reiniciar productos: %w", err)
		}
		if err := r.Locations.ResetZones(ctx); err != nil {
			return fmt.Errorf("reiniciar subzonas: %w", err)
		}
		if err := r.Notifications.DeleteAll(ctx); err != nil {
			return fmt.Errorf("borrar notificaciones: %w", err)
		}
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Msg("reinicio revertido")
		return err
	}
	uc.log.Warn().Msg("inventario reiniciado")
	return nil
}

// Reconcile recalcula contadores de productos y subzonas desde el libro y reporta las diferencias.
// Con fix=true además las corrige dentro de la misma transacción.
func (uc *AdminUseCase) Reconcile(ctx context.Context, fix bool) (*dto.ReconcileResponse, error) {
	out := &dto.ReconcileResponse{Drifts: []dto.CounterDrift{}, Fixed: fix}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		movements, err := r.Movements.ListAll(ctx)
		if err != nil {
			return err
		}
		byProduct := make(map[string][]entity.Movement)
		for _, m := range movements {
			byProduct[m.ProductID] = append(byProduct[m.ProductID], m)
		}

		products, err := r.Products.List(ctx, 0, 0)
		if err != nil {
			return err
		}
		for _, p := range products {
			computed := inventory.StockTotals(byProduct[p.ID])
			drifts := productDrifts(p, computed)
			if len(drifts) == 0 {
				continue
			}
			out.Drifts = append(out.Drifts, drifts...)
			if fix {
				if err := r.Products.SetCounters(ctx, p.ID, computed); err != nil {
					return err
				}
			}
		}
		out.ProductsChecked = len(products)

		zones, err := r.Locations.ListZones(ctx)
		if err != nil {
			return err
		}
		totals := inventory.ZoneTotals(movements)
		for _, z := range zones {
			computed, ok := totals[z.Ref().Key()]
			if !ok {
				computed = decimal.Zero
			}
			if z.CurrentStock.Equal(computed) {
				continue
			}
			out.Drifts = append(out.Drifts, dto.CounterDrift{
				Kind: z.Kind, ID: z.ID, Field: "currentStock", Stored: z.CurrentStock, Computed: computed,
			})
			if fix {
				if err := r.Locations.SetZoneStock(ctx, z.Ref(), computed); err != nil {
					return err
				}
			}
		}
		out.ZonesChecked = len(zones)
		return nil
	})
	if err != nil {
		uc.log.Error().Err(err).Msg("reconciliación revertida")
		return nil, err
	}
	ev := uc.log.Info()
	if len(out.Drifts) > 0 {
		ev = uc.log.Warn()
	}
	ev.Int("drifts", len(out.Drifts)).Bool("fixed", fix).Msg("reconciliación completada")
	return out, nil
}

func productDrifts(p *entity.Product, computed inventory.Totals) []dto.CounterDrift {
	var out []dto.CounterDrift
	check := func(field string, stored, want decimal.Decimal) {
		if !stored.Equal(want) {
			out = append(out, dto.CounterDrift{Kind: "product", ID: p.ID, Field: field, Stored: stored, Computed: want})
		}
	}
	check("stock", p.Stock, computed.Stock)
	check("total_entrer", p.TotalIn, computed.TotalIn)
	check("total_sortie", p.TotalOut, computed.TotalOut)
	return out
}
