package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

var locationColumns = []string{"id", "name", "type", "is_prison", "created_at"}

// zonesView une pisos y partes con columnas homogéneas.
const zonesView = `(
	SELECT id, location_id, 'floor' AS kind, name, places AS capacity, "currentStock" AS current_stock FROM location_etages
	UNION ALL
	SELECT id, location_id, 'part' AS kind, name, "maxCapacity" AS capacity, "currentStock" AS current_stock FROM location_parts
) AS z`

var zoneColumns = []string{"id", "location_id", "kind", "name", "capacity", "current_stock"}

// zoneTable tabla y columna de capacidad por clase de subzona.
func zoneTable(kind string) (table, capacity string, ok bool) {
	switch kind {
	case entity.ZoneFloor:
		return "location_etages", "places", true
	case entity.ZonePart:
		return "location_parts", `"maxCapacity"`, true
	}
	return "", "", false
}

// LocationRepo adaptador de ubicaciones y subzonas.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create inserta la ubicación y sus subzonas en un único lote.
func (r *LocationRepo) Create(ctx context.Context, loc *entity.Location) error {
	batch := &pgx.Batch{}
	sql, args, err := psql.Insert("locations").Columns(locationColumns...).
		Values(loc.ID, loc.Name, loc.Type, loc.IsPrison, loc.CreatedAt).ToSql()
	if err != nil {
		return fmt.Errorf("build insert location: %w", err)
	}
	batch.Queue(sql, args...)
	for _, z := range loc.Zones {
		table, capacity, ok := zoneTable(z.Kind)
		if !ok {
			return domain.E("crear ubicación", domain.ErrInvalidZone).With("kind", z.Kind)
		}
		sql, args, err := psql.Insert(table).
			Columns("id", "location_id", "name", capacity, `"currentStock"`).
			Values(z.ID, loc.ID, z.Name, z.Capacity, z.CurrentStock).ToSql()
		if err != nil {
			return fmt.Errorf("build insert zone: %w", err)
		}
		batch.Queue(sql, args...)
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) {
				return domain.E("crear ubicación", domain.ErrDuplicate).With("id", loc.ID)
			}
			return fmt.Errorf("insert location: %w", err)
		}
	}
	return nil
}

// GetByID obtiene la ubicación con sus subzonas; nil si no existe.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	sql, args, err := psql.Select(locationColumns...).From("locations").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select location: %w", err)
	}
	var loc entity.Location
	if err := pgxscan.Get(ctx, r.q, &loc, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	zones, err := r.selectZones(ctx, squirrel.Eq{"location_id": id})
	if err != nil {
		return nil, err
	}
	loc.Zones = zones
	return &loc, nil
}

// List devuelve todas las ubicaciones por nombre, con sus subzonas.
func (r *LocationRepo) List(ctx context.Context) ([]*entity.Location, error) {
	sql, args, err := psql.Select(locationColumns...).From("locations").OrderBy("name", "id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list locations: %w", err)
	}
	var list []*entity.Location
	if err := pgxscan.Select(ctx, r.q, &list, sql, args...); err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	zones, err := r.ListZones(ctx)
	if err != nil {
		return nil, err
	}
	byLocation := make(map[string][]entity.Zone, len(list))
	for _, z := range zones {
		byLocation[z.LocationID] = append(byLocation[z.LocationID], z)
	}
	for _, l := range list {
		l.Zones = byLocation[l.ID]
	}
	return list, nil
}

// GetZone obtiene un piso o parte; nil si no existe.
func (r *LocationRepo) GetZone(ctx context.Context, ref entity.ZoneRef) (*entity.Zone, error) {
	zones, err := r.selectZones(ctx, squirrel.Eq{"kind": ref.Kind, "id": ref.ID})
	if err != nil {
		return nil, err
	}
	if len(zones) == 0 {
		return nil, nil
	}
	return &zones[0], nil
}

// ListZones todas las subzonas.
func (r *LocationRepo) ListZones(ctx context.Context) ([]entity.Zone, error) {
	return r.selectZones(ctx, nil)
}

func (r *LocationRepo) selectZones(ctx context.Context, where squirrel.Sqlizer) ([]entity.Zone, error) {
	b := psql.Select(zoneColumns...).From(zonesView).OrderBy("location_id", "kind", "name", "id")
	if where != nil {
		b = b.Where(where)
	}
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select zones: %w", err)
	}
	var zones []entity.Zone
	if err := pgxscan.Select(ctx, r.q, &zones, sql, args...); err != nil {
		return nil, fmt.Errorf("select zones: %w", err)
	}
	return zones, nil
}

// AdjustZones suma cada delta con UPDATE relativo en un único lote. Si alguna subzona no
// existe devuelve domain.ErrInvalidZone; el llamador aborta la transacción.
func (r *LocationRepo) AdjustZones(ctx context.Context, deltas []inventory.ZoneDelta) ([]entity.Zone, error) {
	if len(deltas) == 0 {
		return nil, nil
	}
	batch := &pgx.Batch{}
	for _, d := range deltas {
		table, capacity, ok := zoneTable(d.Zone.Kind)
		if !ok {
			return nil, domain.E("ajustar subzonas", domain.ErrInvalidZone).With("zone", d.Zone.Key())
		}
		sql, args, err := psql.Update(table).
			Set(`"currentStock"`, squirrel.Expr(`"currentStock" + ?`, d.Delta)).
			Where(squirrel.Eq{"id": d.Zone.ID}).
			Suffix(fmt.Sprintf(`RETURNING id, location_id, '%s' AS kind, name, %s AS capacity, "currentStock" AS current_stock`,
				d.Zone.Kind, capacity)).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build adjust zone: %w", err)
		}
		batch.Queue(sql, args...)
	}

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	out := make([]entity.Zone, 0, len(deltas))
	for _, d := range deltas {
		rows, err := br.Query()
		if err != nil {
			return nil, fmt.Errorf("adjust zone %s: %w", d.Zone.Key(), err)
		}
		var z entity.Zone
		if err := pgxscan.ScanOne(&z, rows); err != nil {
			if pgxscan.NotFound(err) {
				return nil, domain.E("ajustar subzonas", domain.ErrInvalidZone).With("zone", d.Zone.Key())
			}
			return nil, fmt.Errorf("adjust zone %s: %w", d.Zone.Key(), err)
		}
		out = append(out, z)
	}
	return out, nil
}

// SetZoneStock fija la ocupación de una subzona.
func (r *LocationRepo) SetZoneStock(ctx context.Context, ref entity.ZoneRef, stock decimal.Decimal) error {
	table, _, ok := zoneTable(ref.Kind)
	if !ok {
		return domain.E("fijar ocupación", domain.ErrInvalidZone).With("zone", ref.Key())
	}
	sql, args, err := psql.Update(table).Set(`"currentStock"`, stock).Where(squirrel.Eq{"id": ref.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build set zone stock: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set zone stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.E("fijar ocupación", domain.ErrInvalidZone).With("zone", ref.Key())
	}
	return nil
}

// ResetZones pone a cero la ocupación de todos los pisos y partes.
func (r *LocationRepo) ResetZones(ctx context.Context) error {
	for _, table := range []string{"location_etages", "location_parts"} {
		sql, args, err := psql.Update(table).Set(`"currentStock"`, 0).ToSql()
		if err != nil {
			return fmt.Errorf("build reset zones: %w", err)
		}
		if _, err := r.q.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("reset %s: %w", table, err)
		}
	}
	return nil
}
