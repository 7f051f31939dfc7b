package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepository)(nil)

// MovementRepository libro de movimientos en memoria.
type MovementRepository struct {
	c *conn
}

func (r *MovementRepository) Create(ctx context.Context, m *entity.Movement) error {
	defer r.c.enter()()
	st := r.c.state()
	if _, ok := st.movements[m.ID]; ok {
		return fmt.Errorf("insert movement: %w", domain.ErrDuplicate)
	}
	st.movements[m.ID] = *m
	return nil
}

func (r *MovementRepository) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	defer r.c.enter()()
	m, ok := r.c.state().movements[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MovementRepository) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

func (r *MovementRepository) Update(ctx context.Context, m *entity.Movement) error {
	defer r.c.enter()()
	st := r.c.state()
	if _, ok := st.movements[m.ID]; !ok {
		return domain.ErrMovementNotFound
	}
	st.movements[m.ID] = *m
	return nil
}

func (r *MovementRepository) Delete(ctx context.Context, id string) error {
	defer r.c.enter()()
	st := r.c.state()
	if _, ok := st.movements[id]; !ok {
		return domain.E("eliminar movimiento", domain.ErrMovementNotFound).With("id", id)
	}
	delete(st.movements, id)
	return nil
}

func (r *MovementRepository) ListByProduct(ctx context.Context, productID string) ([]entity.Movement, error) {
	defer r.c.enter()()
	out := make([]entity.Movement, 0)
	for _, m := range r.c.state().movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	sortAsc(out)
	return out, nil
}

func (r *MovementRepository) ListAll(ctx context.Context) ([]entity.Movement, error) {
	defer r.c.enter()()
	out := make([]entity.Movement, 0, len(r.c.state().movements))
	for _, m := range r.c.state().movements {
		out = append(out, m)
	}
	sortAsc(out)
	return out, nil
}

// List más reciente primero.
func (r *MovementRepository) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	defer r.c.enter()()
	out := make([]*entity.Movement, 0)
	for _, m := range r.c.state().movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.LocationID != "" && m.LocationID != f.LocationID {
			continue
		}
		if f.Status != "" && m.Status != f.Status {
			continue
		}
		out = append(out, &m)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return page(out, f.Limit, f.Offset), nil
}

func (r *MovementRepository) DeleteByProduct(ctx context.Context, productID string) error {
	defer r.c.enter()()
	st := r.c.state()
	for id, m := range st.movements {
		if m.ProductID == productID {
			delete(st.movements, id)
		}
	}
	return nil
}

func (r *MovementRepository) DeleteAll(ctx context.Context) error {
	defer r.c.enter()()
	st := r.c.state()
	for id := range st.movements {
		delete(st.movements, id)
	}
	return nil
}

func sortAsc(list []entity.Movement) {
	sort.Slice(list, func(i, j int) bool {
		if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
			return list[i].CreatedAt.Before(list[j].CreatedAt)
		}
		return list[i].ID < list[j].ID
	})
}
