package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepository)(nil)

// LocationRepository ubicaciones y subzonas en memoria.
type LocationRepository struct {
	c *conn
}

func (r *LocationRepository) Create(ctx context.Context, l *entity.Location) error {
	defer r.c.enter()()
	st := r.c.state()
	if _, ok := st.locations[l.ID]; ok {
		return fmt.Errorf("insert location: %w", domain.ErrDuplicate)
	}
	loc := *l
	loc.Zones = nil
	st.locations[l.ID] = loc
	for _, z := range l.Zones {
		z.LocationID = l.ID
		st.zones[z.Ref().Key()] = z
	}
	return nil
}

func (r *LocationRepository) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	defer r.c.enter()()
	st := r.c.state()
	l, ok := st.locations[id]
	if !ok {
		return nil, nil
	}
	l.Zones = zonesOf(st, id)
	return &l, nil
}

func (r *LocationRepository) List(ctx context.Context) ([]*entity.Location, error) {
	defer r.c.enter()()
	st := r.c.state()
	out := make([]*entity.Location, 0, len(st.locations))
	for _, l := range st.locations {
		l.Zones = zonesOf(st, l.ID)
		out = append(out, &l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *LocationRepository) GetZone(ctx context.Context, ref entity.ZoneRef) (*entity.Zone, error) {
	defer r.c.enter()()
	z, ok := r.c.state().zones[ref.Key()]
	if !ok {
		return nil, nil
	}
	return &z, nil
}

func (r *LocationRepository) ListZones(ctx context.Context) ([]entity.Zone, error) {
	defer r.c.enter()()
	st := r.c.state()
	out := make([]entity.Zone, 0, len(st.zones))
	for _, z := range st.zones {
		out = append(out, z)
	}
	sortZones(out)
	return out, nil
}

// AdjustZones todo o nada: valida que existan todas antes de escribir.
func (r *LocationRepository) AdjustZones(ctx context.Context, deltas []inventory.ZoneDelta) ([]entity.Zone, error) {
	defer r.c.enter()()
	st := r.c.state()
	for _, d := range deltas {
		if _, ok := st.zones[d.Zone.Key()]; !ok {
			return nil, fmt.Errorf("%s %s: %w", d.Zone.Kind, d.Zone.ID, domain.ErrInvalidZone)
		}
	}
	out := make([]entity.Zone, 0, len(deltas))
	for _, d := range deltas {
		z := st.zones[d.Zone.Key()]
		z.CurrentStock = z.CurrentStock.Add(d.Delta)
		st.zones[d.Zone.Key()] = z
		out = append(out, z)
	}
	return out, nil
}

func (r *LocationRepository) SetZoneStock(ctx context.Context, ref entity.ZoneRef, stock decimal.Decimal) error {
	defer r.c.enter()()
	st := r.c.state()
	z, ok := st.zones[ref.Key()]
	if !ok {
		return fmt.Errorf("%s %s: %w", ref.Kind, ref.ID, domain.ErrInvalidZone)
	}
	z.CurrentStock = stock
	st.zones[ref.Key()] = z
	return nil
}

func (r *LocationRepository) ResetZones(ctx context.Context) error {
	defer r.c.enter()()
	st := r.c.state()
	for k, z := range st.zones {
		z.CurrentStock = decimal.Zero
		st.zones[k] = z
	}
	return nil
}

func zonesOf(st *state, locationID string) []entity.Zone {
	var out []entity.Zone
	for _, z := range st.zones {
		if z.LocationID == locationID {
			out = append(out, z)
		}
	}
	sortZones(out)
	return out
}

func sortZones(zs []entity.Zone) {
	sort.Slice(zs, func(i, j int) bool {
		if zs[i].Name != zs[j].Name {
			return zs[i].Name < zs[j].Name
		}
		return zs[i].Ref().Key() < zs[j].Ref().Key()
	})
}
