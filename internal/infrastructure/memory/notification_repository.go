package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepository)(nil)

// NotificationRepository notificaciones en memoria; el nombre del producto se resuelve al leer.
type NotificationRepository struct {
	c *conn
}

func (r *NotificationRepository) FindUnread(ctx context.Context, productID, category string) (*entity.Notification, error) {
	defer r.c.enter()()
	st := r.c.state()
	for _, n := range st.notifications {
		if n.ProductID == productID && n.Category == category && !n.IsRead {
			n.ProductName = st.products[n.ProductID].Name
			return &n, nil
		}
	}
	return nil, nil
}

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	defer r.c.enter()()
	st := r.c.state()
	if _, ok := st.notifications[n.ID]; ok {
		return fmt.Errorf("insert notification: %w", domain.ErrDuplicate)
	}
	if !n.IsRead {
		for id, cur := range st.notifications {
			if cur.IsRead || cur.ProductID != n.ProductID || cur.Category != n.Category {
				continue
			}
			cur.Message, cur.CreatedAt = n.Message, n.CreatedAt
			st.notifications[id] = cur
			n.ID = id
			return nil
		}
	}
	stored := *n
	stored.ProductName = ""
	st.notifications[n.ID] = stored
	return nil
}

func (r *NotificationRepository) Refresh(ctx context.Context, id, message string, at time.Time) error {
	defer r.c.enter()()
	st := r.c.state()
	n, ok := st.notifications[id]
	if !ok {
		return fmt.Errorf("notificación: %w", domain.ErrNotFound)
	}
	n.Message = message
	n.CreatedAt = at
	n.IsRead = false
	st.notifications[id] = n
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, includeRead bool) ([]*entity.Notification, error) {
	defer r.c.enter()()
	st := r.c.state()
	out := make([]*entity.Notification, 0)
	for _, n := range st.notifications {
		if n.IsRead && !includeRead {
			continue
		}
		n.ProductName = st.products[n.ProductID].Name
		out = append(out, &n)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	defer r.c.enter()()
	st := r.c.state()
	n, ok := st.notifications[id]
	if !ok {
		return fmt.Errorf("notificación: %w", domain.ErrNotFound)
	}
	n.IsRead = true
	st.notifications[id] = n
	return nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context) error {
	defer r.c.enter()()
	st := r.c.state()
	for id, n := range st.notifications {
		n.IsRead = true
		st.notifications[id] = n
	}
	return nil
}

func (r *NotificationRepository) DeleteByProduct(ctx context.Context, productID string) error {
	defer r.c.enter()()
	st := r.c.state()
	for id, n := range st.notifications {
		if n.ProductID == productID {
			delete(st.notifications, id)
		}
	}
	return nil
}

func (r *NotificationRepository) DeleteAll(ctx context.Context) error {
	defer r.c.enter()()
	st := r.c.state()
	for id := range st.notifications {
		delete(st.notifications, id)
	}
	return nil
}
