package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

var movementColumns = []string{
	"id", "product_id", "product_type", "status", "quantity", "location_id", "etage_id", "part_id",
	"date", "time", "batch_number", "fournisseur_id", "fabrication_date", "expiration_date",
	"quality_status", "needs_examination", "is_transfer", "affects_stock", "created_at",
}

// movementRow fila tal como está en la tabla movements.
type movementRow struct {
	ID               string          `db:"id"`
	ProductID        string          `db:"product_id"`
	ProductType      string          `db:"product_type"`
	Status           string          `db:"status"`
	Quantity         decimal.Decimal `db:"quantity"`
	LocationID       string          `db:"location_id"`
	EtageID          *string         `db:"etage_id"`
	PartID           *string         `db:"part_id"`
	Date             time.Time       `db:"date"`
	Time             string          `db:"time"`
	BatchNumber      string          `db:"batch_number"`
	SupplierID       *string         `db:"fournisseur_id"`
	FabricationDate  *time.Time      `db:"fabrication_date"`
	ExpirationDate   *time.Time      `db:"expiration_date"`
	QualityStatus    *string         `db:"quality_status"`
	NeedsExamination bool            `db:"needs_examination"`
	IsTransfer       bool            `db:"is_transfer"`
	AffectsStock     bool            `db:"affects_stock"`
	CreatedAt        time.Time       `db:"created_at"`
}

func (row *movementRow) toEntity() entity.Movement {
	m := entity.Movement{
		ID:               row.ID,
		ProductID:        row.ProductID,
		ProductType:      row.ProductType,
		Status:           row.Status,
		Quantity:         row.Quantity,
		LocationID:       row.LocationID,
		Date:             row.Date,
		Time:             row.Time,
		BatchNumber:      row.BatchNumber,
		SupplierID:       row.SupplierID,
		FabricationDate:  row.FabricationDate,
		ExpirationDate:   row.ExpirationDate,
		QualityStatus:    row.QualityStatus,
		NeedsExamination: row.NeedsExamination,
		IsTransfer:       row.IsTransfer,
		AffectsStock:     row.AffectsStock,
		CreatedAt:        row.CreatedAt,
	}
	switch {
	case row.EtageID != nil:
		m.Zone = entity.FloorRef(*row.EtageID)
	case row.PartID != nil:
		m.Zone = entity.PartRef(*row.PartID)
	}
	return m
}

// zoneArgs columnas etage_id / part_id; la vacía va como NULL.
func zoneArgs(z entity.ZoneRef) (etage, part *string) {
	if id := z.FloorID(); id != "" {
		etage = &id
	}
	if id := z.PartID(); id != "" {
		part = &id
	}
	return etage, part
}

// MovementRepo adaptador del libro de movimientos.
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

// Create inserta el movimiento.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	etage, part := zoneArgs(m.Zone)
	sql, args, err := psql.Insert("movements").Columns(movementColumns...).
		Values(m.ID, m.ProductID, m.ProductType, m.Status, m.Quantity, m.LocationID, etage, part,
			m.Date, m.Time, m.BatchNumber, m.SupplierID, m.FabricationDate, m.ExpirationDate,
			m.QualityStatus, m.NeedsExamination, m.IsTransfer, m.AffectsStock, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	if _, err := r.q.Exec(ctx, sql, args...); err != nil {
		if isForeignKeyViolation(err) {
			return domain.E("registrar movimiento", domain.ErrInvalidZone).With("id", m.ID)
		}
		if isUniqueViolation(err) {
			return domain.E("registrar movimiento", domain.ErrDuplicate).With("id", m.ID)
		}
		return fmt.Errorf("insert movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento; nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, psql.Select(movementColumns...).From("movements").Where(squirrel.Eq{"id": id}))
}

// GetForUpdate bloquea la fila del movimiento.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, psql.Select(movementColumns...).From("movements").
		Where(squirrel.Eq{"id": id}).Suffix("FOR UPDATE"))
}

func (r *MovementRepo) getOne(ctx context.Context, b squirrel.SelectBuilder) (*entity.Movement, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select movement: %w", err)
	}
	var row movementRow
	if err := pgxscan.Get(ctx, r.q, &row, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	m := row.toEntity()
	return &m, nil
}

// Update reescribe los campos editables. Sentido, producto y created_at no cambian.
func (r *MovementRepo) Update(ctx context.Context, m *entity.Movement) error {
	etage, part := zoneArgs(m.Zone)
	sql, args, err := psql.Update("movements").SetMap(map[string]any{
		"quantity":          m.Quantity,
		"location_id":       m.LocationID,
		"etage_id":          etage,
		"part_id":           part,
		"date":              m.Date,
		"time":              m.Time,
		"batch_number":      m.BatchNumber,
		"fournisseur_id":    m.SupplierID,
		"fabrication_date":  m.FabricationDate,
		"expiration_date":   m.ExpirationDate,
		"quality_status":    m.QualityStatus,
		"needs_examination": m.NeedsExamination,
	}).Where(squirrel.Eq{"id": m.ID}).ToSql()
	if err != nil {
		return fmt.Errorf("build update movement: %w", err)
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.E("editar movimiento", domain.ErrInvalidZone).With("id", m.ID)
		}
		return fmt.Errorf("update movement: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.E("editar movimiento", domain.ErrMovementNotFound).With("id", m.ID)
	}
	return nil
}

// Delete elimina un movimiento.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.exec(ctx, psql.Delete("movements").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("delete movement: %w", err)
	}
	if tag == 0 {
		return domain.E("eliminar movimiento", domain.ErrMovementNotFound).With("id", id)
	}
	return nil
}

// ListByProduct historial del producto en orden de registro.
func (r *MovementRepo) ListByProduct(ctx context.Context, productID string) ([]entity.Movement, error) {
	return r.selectAll(ctx, psql.Select(movementColumns...).From("movements").
		Where(squirrel.Eq{"product_id": productID}).OrderBy("created_at", "id"))
}

// ListAll libro completo en orden de registro.
func (r *MovementRepo) ListAll(ctx context.Context) ([]entity.Movement, error) {
	return r.selectAll(ctx, psql.Select(movementColumns...).From("movements").OrderBy("created_at", "id"))
}

// List historial filtrado, del más reciente al más antiguo.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, error) {
	b := psql.Select(movementColumns...).From("movements").OrderBy("created_at DESC", "id DESC")
	if f.ProductID != "" {
		b = b.Where(squirrel.Eq{"product_id": f.ProductID})
	}
	if f.LocationID != "" {
		b = b.Where(squirrel.Eq{"location_id": f.LocationID})
	}
	if f.Status != "" {
		b = b.Where(squirrel.Eq{"status": f.Status})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit)).Offset(uint64(max(f.Offset, 0)))
	}
	rows, err := r.selectAll(ctx, b)
	if err != nil {
		return nil, err
	}
	list := make([]*entity.Movement, len(rows))
	for i := range rows {
		list[i] = &rows[i]
	}
	return list, nil
}

func (r *MovementRepo) selectAll(ctx context.Context, b squirrel.SelectBuilder) ([]entity.Movement, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	out := make([]entity.Movement, len(rows))
	for i := range rows {
		out[i] = rows[i].toEntity()
	}
	return out, nil
}

// DeleteByProduct borra el historial de un producto.
func (r *MovementRepo) DeleteByProduct(ctx context.Context, productID string) error {
	if _, err := r.exec(ctx, psql.Delete("movements").Where(squirrel.Eq{"product_id": productID})); err != nil {
		return fmt.Errorf("delete product movements: %w", err)
	}
	return nil
}

// DeleteAll vacía el libro.
func (r *MovementRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.exec(ctx, psql.Delete("movements")); err != nil {
		return fmt.Errorf("delete all movements: %w", err)
	}
	return nil
}

func (r *MovementRepo) exec(ctx context.Context, b squirrel.Sqlizer) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := r.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
