package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepository)(nil)

// ProductRepository implementación en memoria.
type ProductRepository struct {
	c *conn
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	defer r.c.enter()()
	st := r.c.state()
	if _, ok := st.products[p.ID]; ok {
		return fmt.Errorf("insert product: %w", domain.ErrDuplicate)
	}
	for _, other := range st.products {
		if p.Reference != "" && other.Reference == p.Reference {
			return fmt.Errorf("insert product: %w", domain.ErrDuplicate)
		}
	}
	st.products[p.ID] = *p
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	defer r.c.enter()()
	p, ok := r.c.state().products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// GetForUpdate dentro de una tx del Store la serialización ya garantiza exclusividad.
func (r *ProductRepository) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	defer r.c.enter()()
	list := make([]*entity.Product, 0, len(r.c.state().products))
	for _, p := range r.c.state().products {
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Reference != list[j].Reference {
			return list[i].Reference < list[j].Reference
		}
		return list[i].ID < list[j].ID
	})
	return page(list, limit, offset), nil
}

func (r *ProductRepository) ListAtOrBelowThreshold(ctx context.Context) ([]*entity.Product, error) {
	all, err := r.List(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Product, 0)
	for _, p := range all {
		if p.AlertThreshold.IsPositive() && p.Stock.LessThanOrEqual(p.AlertThreshold) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *ProductRepository) AdjustCounters(ctx context.Context, id string, d inventory.CounterDelta) (*entity.Product, error) {
	defer r.c.enter()()
	st := r.c.state()
	p, ok := st.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p.Stock = p.Stock.Add(d.Stock)
	p.TotalIn = p.TotalIn.Add(d.TotalIn)
	p.TotalOut = p.TotalOut.Add(d.TotalOut)
	p.UpdatedAt = time.Now()
	st.products[id] = p
	return &p, nil
}

func (r *ProductRepository) SetCounters(ctx context.Context, id string, t inventory.Totals) error {
	defer r.c.enter()()
	st := r.c.state()
	p, ok := st.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Stock, p.TotalIn, p.TotalOut = t.Stock, t.TotalIn, t.TotalOut
	p.UpdatedAt = time.Now()
	st.products[id] = p
	return nil
}

func (r *ProductRepository) ResetCounters(ctx context.Context) error {
	defer r.c.enter()()
	st := r.c.state()
	now := time.Now()
	for id, p := range st.products {
		p.Stock, p.TotalIn, p.TotalOut = decimal.Zero, decimal.Zero, decimal.Zero
		p.UpdatedAt = now
		st.products[id] = p
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	defer r.c.enter()()
	delete(r.c.state().products, id)
	return nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(list) {
			return list[:0]
		}
		list = list[offset:]
	}
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
