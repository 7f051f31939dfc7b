package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// FIFOExitInput salida por cantidad: el motor elige los lotes (más antiguo primero).
type FIFOExitInput struct {
	ProductID string
	Quantity  decimal.Decimal
	// Strict nil usa la política configurada; true rechaza si hay faltante.
	Strict *bool
	Date   *time.Time
	Time   string
}

// FIFOExitResult una fila de salida por lote tocado, el plan aplicado y los avisos.
type FIFOExitResult struct {
	Movements []*entity.Movement
	Plan      entity.AllocationPlan
	Warnings  []string
}

// ExitFIFO asigna y registra una salida multi-lote en una sola transacción.
// La fila del producto se bloquea primero: dos salidas concurrentes no pueden asignar el mismo saldo.
func (uc *MovementUseCase) ExitFIFO(ctx context.Context, in FIFOExitInput) (*FIFOExitResult, error) {
	const op = "salida fifo"
	if in.ProductID == "" {
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "product_id")
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "quantity")
	}
	strict := uc.policy.StrictFIFO
	if in.Strict != nil {
		strict = *in.Strict
	}
	now := uc.now()

	var res applied
	out := &FIFOExitResult{}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		product, err := r.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.E(op, domain.ErrProductNotFound).With("product_id", in.ProductID)
		}
		history, err := r.Movements.ListByProduct(ctx, product.ID)
		if err != nil {
			return err
		}

		plan := inventory.Allocate(in.Quantity, inventory.Allocatable(inventory.ProjectBatches(history)))
		if len(plan.Lines) == 0 {
			return domain.E(op, domain.ErrInsufficientStock).
				With("product_id", product.ID).
				With("requested", in.Quantity.String())
		}
		if plan.Shortfall.IsPositive() && strict {
			return domain.E(op, domain.ErrInsufficientStock).
				With("product_id", product.ID).
				With("requested", in.Quantity.String()).
				With("shortfall", plan.Shortfall.String())
		}

		effects := make([]inventory.Effect, 0, len(plan.Lines))
		for _, line := range plan.Lines {
			m := uc.newMovement(CreateMovementInput{
				Status:          entity.StatusExit,
				Quantity:        line.Taken,
				LocationID:      line.LocationID,
				BatchNumber:     line.BatchNumber,
				FabricationDate: line.FabricationDate,
				ExpirationDate:  line.ExpirationDate,
				Date:            in.Date,
				Time:            in.Time,
			}, product, line.Zone, now)
			m.QualityStatus = line.QualityStatus
			if err := r.Movements.Create(ctx, m); err != nil {
				return err
			}
			out.Movements = append(out.Movements, m)
			effects = append(effects, inventory.Contribution(m))
		}
		out.Plan = plan

		res, err = uc.apply(ctx, r, mutation{
			op:        op,
			productID: product.ID,
			effect:    inventory.Combine(effects...),
			at:        now,
		})
		return err
	})
	if err != nil {
		uc.logRollback(op, in.ProductID, err)
		return nil, err
	}

	out.Warnings = res.warnings
	if out.Plan.Shortfall.IsPositive() {
		out.Warnings = append(out.Warnings, fmt.Sprintf("faltante: %s de %s solicitados",
			out.Plan.Shortfall.String(), in.Quantity.String()))
		uc.log.Warn().
			Str("product_id", in.ProductID).
			Str("requested", in.Quantity.String()).
			Str("shortfall", out.Plan.Shortfall.String()).
			Msg("salida fifo parcial")
	}
	uc.publish(res.notifications)
	uc.log.Info().
		Str("product_id", in.ProductID).
		Int("batches", len(out.Movements)).
		Str("allocated", out.Plan.Allocated().String()).
		Msg("salida fifo registrada")
	return out, nil
}
