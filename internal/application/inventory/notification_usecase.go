package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// NotificationUseCase consulta y marcado de notificaciones.
type NotificationUseCase struct {
	repo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// List devuelve las no leídas, o todas si includeRead; más reciente primero.
func (uc *NotificationUseCase) List(ctx context.Context, includeRead bool) ([]*entity.Notification, error) {
	return uc.repo.List(ctx, includeRead)
}

// MarkRead marca una notificación como leída.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return domain.E("marcar notificación", domain.ErrInvalidInput).With("field", "id")
	}
	return uc.repo.MarkRead(ctx, id)
}

// MarkAllRead marca todas como leídas.
func (uc *NotificationUseCase) MarkAllRead(ctx context.Context) error {
	return uc.repo.MarkAllRead(ctx)
}
