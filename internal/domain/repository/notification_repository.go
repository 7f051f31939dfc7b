package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// NotificationRepository puerto de notificaciones.
type NotificationRepository interface {
	// FindUnread devuelve la notificación no leída de esa categoría para el producto, o nil.
	FindUnread(ctx context.Context, productID, category string) (*entity.Notification, error)
	// Create inserta n. Si ya existe una no leída de la misma (producto, categoría) la refresca
	// con mensaje y fecha de n y escribe su id en n.ID.
	Create(ctx context.Context, n *entity.Notification) error
	// Refresh reemplaza mensaje y fecha de una notificación existente.
	Refresh(ctx context.Context, id, message string, at time.Time) error
	List(ctx context.Context, includeRead bool) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context) error
	DeleteByProduct(ctx context.Context, productID string) error
	DeleteAll(ctx context.Context) error
}
