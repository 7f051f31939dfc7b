package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo adaptador de notificaciones.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

func selectNotifications() squirrel.SelectBuilder {
	return psql.Select(
		"n.id", "n.product_id", "n.category", "n.message", "n.is_read", "n.created_at",
		"COALESCE(p.nom, '') AS product_name",
	).From("notifications n").LeftJoin("products p ON p.id = n.product_id")
}

// FindUnread notificación no leída de la categoría para el producto; nil si no hay.
func (r *NotificationRepo) FindUnread(ctx context.Context, productID, category string) (*entity.Notification, error) {
	sql, args, err := selectNotifications().
		Where(squirrel.Eq{"n.product_id": productID, "n.category": category, "n.is_read": false}).
		OrderBy("n.created_at DESC").Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build find notification: %w", err)
	}
	var n entity.Notification
	if err := pgxscan.Get(ctx, r.q, &n, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find notification: %w", err)
	}
	return &n, nil
}

// Create inserta la notificación. Si otra transacción ya dejó una no leída de la misma
// categoría para el producto, la refresca (índice único parcial) y n.ID toma el id existente.
func (r *NotificationRepo) Create(ctx context.Context, n *entity.Notification) error {
	sql, args, err := psql.Insert("notifications").
		Columns("id", "product_id", "category", "message", "is_read", "created_at").
		Values(n.ID, n.ProductID, n.Category, n.Message, n.IsRead, n.CreatedAt).
		Suffix(notificationUpsert).ToSql()
	if err != nil {
		return fmt.Errorf("build insert notification: %w", err)
	}
	if err := r.q.QueryRow(ctx, sql, args...).Scan(&n.ID); err != nil {
		if isForeignKeyViolation(err) {
			return domain.E("crear notificación", domain.ErrProductNotFound).With("product_id", n.ProductID)
		}
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

const notificationUpsert = `ON CONFLICT (product_id, category) WHERE NOT is_read
DO UPDATE SET message = EXCLUDED.message, created_at = EXCLUDED.created_at
RETURNING id`

// Refresh reemplaza mensaje y fecha.
func (r *NotificationRepo) Refresh(ctx context.Context, id, message string, at time.Time) error {
	return r.updateOne(ctx, "refrescar notificación", id,
		psql.Update("notifications").Set("message", message).Set("created_at", at))
}

// List notificaciones más recientes primero; por defecto solo las no leídas.
func (r *NotificationRepo) List(ctx context.Context, includeRead bool) ([]*entity.Notification, error) {
	b := selectNotifications().OrderBy("n.created_at DESC", "n.id DESC")
	if !includeRead {
		b = b.Where(squirrel.Eq{"n.is_read": false})
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list notifications: %w", err)
	}
	var list []*entity.Notification
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// MarkRead marca una notificación como leída.
func (r *NotificationRepo) MarkRead(ctx context.Context, id string) error {
	return r.updateOne(ctx, "marcar leída", id, psql.Update("notifications").Set("is_read", true))
}

// MarkAllRead marca todas como leídas.
func (r *NotificationRepo) MarkAllRead(ctx context.Context) error {
	return r.exec(ctx, psql.Update("notifications").Set("is_read", true).Where(squirrel.Eq{"is_read": false}))
}

// DeleteByProduct borra las notificaciones de un producto.
func (r *NotificationRepo) DeleteByProduct(ctx context.Context, productID string) error {
	return r.exec(ctx, psql.Delete("notifications").Where(squirrel.Eq{"product_id": productID}))
}

// DeleteAll borra todas las notificaciones.
func (r *NotificationRepo) DeleteAll(ctx context.Context) error {
	return r.exec(ctx, psql.Delete("notifications"))
}

func (r *NotificationRepo) updateOne(ctx context.Context, op, id string, b squirrel.UpdateBuilder) error {
	sql, args, err := b.Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.E(op, fmt.Errorf("notificación: %w", domain.ErrNotFound)).With("id", id)
	}
	return nil
}

func (r *NotificationRepo) exec(ctx context.Context, b squirrel.Sqlizer) error {
	sql, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build notifications statement: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("notifications statement: %w", err)
	}
	return nil
}
