package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

var productColumns = []string{
	"id", "reference", "nom", "unite", "type", "alerte",
	"stock", "total_entrer", "total_sortie", "created_at", "updated_at",
}

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste un nuevo producto.
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	sql, args, err := psql.Insert("products").
		Columns(productColumns...).
		Values(p.ID, p.Reference, p.Name, p.Unit, p.Type, p.AlertThreshold,
			p.Stock, p.TotalIn, p.TotalOut, p.CreatedAt, p.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert product: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.E("crear producto", domain.ErrDuplicate).With("reference", p.Reference)
		}
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID; nil si no existe.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, psql.Select(productColumns...).From("products").Where(squirrel.Eq{"id": id}))
}

// GetForUpdate igual que GetByID pero con FOR UPDATE.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, psql.Select(productColumns...).From("products").
		Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func (r *ProductRepo) getOne(ctx context.Context, b squirrel.Sqlizer) (*entity.Product, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select product: %w", err)
	}
	var p entity.Product
	if err := pgxscan.Get(ctx, r.q, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &p, nil
}

// List lista productos por referencia.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	b := psql.Select(productColumns...).From("products").OrderBy("reference", "id")
	if limit > 0 {
		b = b.Limit(uint64(limit)).Offset(uint64(max(offset, 0)))
	}
	return r.selectMany(ctx, b)
}

// ListAtOrBelowThreshold productos con umbral configurado y stock en o bajo el umbral.
func (r *ProductRepo) ListAtOrBelowThreshold(ctx context.Context) ([]*entity.Product, error) {
	return r.selectMany(ctx, psql.Select(productColumns...).From("products").
		Where("alerte > 0 AND stock <= alerte").OrderBy("reference", "id"))
}

func (r *ProductRepo) selectMany(ctx context.Context, b squirrel.SelectBuilder) ([]*entity.Product, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list products: %w", err)
	}
	var list []*entity.Product
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return list, nil
}

// AdjustCounters suma el delta a los contadores con una única sentencia relativa.
func (r *ProductRepo) AdjustCounters(ctx context.Context, id string, d inventory.CounterDelta) (*entity.Product, error) {
	return r.updateOne(ctx, id, psql.Update("products").
		Set("stock", squirrel.Expr("stock + ?", d.Stock)).
		Set("total_entrer", squirrel.Expr("total_entrer + ?", d.TotalIn)).
		Set("total_sortie", squirrel.Expr("total_sortie + ?", d.TotalOut)).
		Set("updated_at", squirrel.Expr("now()")))
}

// SetCounters fija los contadores a los valores recalculados.
func (r *ProductRepo) SetCounters(ctx context.Context, id string, t inventory.Totals) error {
	_, err := r.updateOne(ctx, id, psql.Update("products").
		Set("stock", t.Stock).
		Set("total_entrer", t.TotalIn).
		Set("total_sortie", t.TotalOut).
		Set("updated_at", squirrel.Expr("now()")))
	return err
}

func (r *ProductRepo) updateOne(ctx context.Context, id string, b squirrel.UpdateBuilder) (*entity.Product, error) {
	sql, args, err := b.Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(productColumns)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update product: %w", err)
	}
	var p entity.Product
	if err := pgxscan.Get(ctx, r.q, &p, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, domain.E("actualizar contadores", domain.ErrProductNotFound).With("id", id)
		}
		return nil, fmt.Errorf("update product counters: %w", err)
	}
	return &p, nil
}

// ResetCounters pone a cero los contadores de todos los productos.
func (r *ProductRepo) ResetCounters(ctx context.Context) error {
	sql, args, err := psql.Update("products").
		Set("stock", 0).Set("total_entrer", 0).Set("total_sortie", 0).
		Set("updated_at", squirrel.Expr("now()")).
		ToSql()
	if err != nil {
		return fmt.Errorf("build reset products: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("reset products: %w", err)
	}
	return nil
}

// Delete elimina el producto. Movimientos y notificaciones deben borrarse antes en la misma tx.
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	sql, args, err := psql.Delete("products").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete product: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.E("eliminar producto", domain.ErrConflict).With("id", id)
		}
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.E("eliminar producto", domain.ErrProductNotFound).With("id", id)
	}
	return nil
}
