package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// alertTrigger persiste las notificaciones que deciden las reglas de inventory.EvaluateAlerts.
// Si ya existe una no leída de la misma categoría para el producto se refresca en lugar de duplicarla.
// Devuelve las notificaciones escritas para difundirlas después del Commit.
func alertTrigger(
	ctx context.Context,
	repo repository.NotificationRepository,
	in inventory.AlertInput,
	now time.Time,
) ([]entity.Notification, error) {
	intents := inventory.EvaluateAlerts(in)
	out := make([]entity.Notification, 0, len(intents))
	for _, it := range intents {
		existing, err := repo.FindUnread(ctx, in.ProductID, it.Category)
		if err != nil {
			return nil, fmt.Errorf("buscar notificación: %w", err)
		}
		if existing != nil {
			if err := repo.Refresh(ctx, existing.ID, it.Message, now); err != nil {
				return nil, fmt.Errorf("refrescar notificación: %w", err)
			}
			n := *existing
			n.Message = it.Message
			n.CreatedAt = now
			n.IsRead = false
			n.ProductName = in.ProductName
			out = append(out, n)
			continue
		}
		n := entity.Notification{
			ID:          uuid.New().String(),
			ProductID:   in.ProductID,
			Category:    it.Category,
			Message:     it.Message,
			IsRead:      false,
			CreatedAt:   now,
			ProductName: in.ProductName,
		}
		if err := repo.Create(ctx, &n); err != nil {
			return nil, fmt.Errorf("crear notificación: %w", err)
		}
		out = append(out, n)
	}
	return out, nil
}
