package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Los contadores (stock, total_entrer, total_sortie) solo cambian vía AdjustCounters,
// con deltas relativos, o vía SetCounters/ResetCounters en tareas administrativas.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) hasta el fin de la tx.
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// List ordena por referencia; limit <= 0 devuelve todos.
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
	// ListAtOrBelowThreshold productos con alerte > 0 y stock <= alerte.
	ListAtOrBelowThreshold(ctx context.Context) ([]*entity.Product, error)
	// AdjustCounters aplica el delta y devuelve el producto actualizado; domain.ErrProductNotFound si no existe.
	AdjustCounters(ctx context.Context, id string, delta inventory.CounterDelta) (*entity.Product, error)
	SetCounters(ctx context.Context, id string, totals inventory.Totals) error
	ResetCounters(ctx context.Context) error
	Delete(ctx context.Context, id string) error
}
