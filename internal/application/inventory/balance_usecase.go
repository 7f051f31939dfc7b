package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// BalanceUseCase vistas de solo lectura sobre el libro: saldos por lote, vista previa FIFO e historial.
// No toma bloqueos; puede observar datos levemente desfasados respecto de un escritor concurrente.
type BalanceUseCase struct {
	products  repository.ProductRepository
	movements repository.MovementRepository
}

// NewBalanceUseCase construye el caso de uso sobre repositorios atados al pool.
func NewBalanceUseCase(products repository.ProductRepository, movements repository.MovementRepository) *BalanceUseCase {
	return &BalanceUseCase{products: products, movements: movements}
}

// Batches saldos por (lote, ubicación, subzona) en orden FIFO. includeEmpty conserva las filas en cero.
func (uc *BalanceUseCase) Batches(ctx context.Context, productID string, includeEmpty bool) ([]entity.BatchAvailability, error) {
	history, err := uc.history(ctx, "saldos por lote", productID)
	if err != nil {
		return nil, err
	}
	rows := inventory.ProjectBatches(history)
	if includeEmpty {
		return rows, nil
	}
	return inventory.Allocatable(rows), nil
}

// PreviewFIFO calcula el plan sin escribir nada.
func (uc *BalanceUseCase) PreviewFIFO(ctx context.Context, productID string, quantity decimal.Decimal) (entity.AllocationPlan, error) {
	const op = "vista previa fifo"
	if !quantity.IsPositive() {
		return entity.AllocationPlan{}, domain.E(op, domain.ErrInvalidInput).With("field", "quantity")
	}
	history, err := uc.history(ctx, op, productID)
	if err != nil {
		return entity.AllocationPlan{}, err
	}
	return inventory.Allocate(quantity, inventory.Allocatable(inventory.ProjectBatches(history))), nil
}

// History historial filtrado y paginado, más reciente primero.
func (uc *BalanceUseCase) History(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Status != "" && !entity.ValidStatus(filter.Status) {
		return nil, domain.E("historial", domain.ErrInvalidInput).With("field", "status")
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return uc.movements.List(ctx, filter)
}

func (uc *BalanceUseCase) history(ctx context.Context, op, productID string) ([]entity.Movement, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.E(op, domain.ErrProductNotFound).With("product_id", productID)
	}
	return uc.movements.ListByProduct(ctx, productID)
}
