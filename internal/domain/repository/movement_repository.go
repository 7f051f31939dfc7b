package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementFilter filtros para el historial de movimientos.
type MovementFilter struct {
	ProductID  string
	LocationID string
	Status     string
	Limit      int
	Offset     int
}

// MovementRepository puerto del libro de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate bloquea la fila del movimiento durante una edición o borrado.
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	Update(ctx context.Context, movement *entity.Movement) error
	Delete(ctx context.Context, id string) error
	// ListByProduct historial completo de un producto, por created_at ascendente.
	ListByProduct(ctx context.Context, productID string) ([]entity.Movement, error)
	ListAll(ctx context.Context) ([]entity.Movement, error)
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
	DeleteByProduct(ctx context.Context, productID string) error
	DeleteAll(ctx context.Context) error
}
