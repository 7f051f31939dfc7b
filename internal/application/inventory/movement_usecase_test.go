package inventory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	ledger "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
)

// ─── Fixture ──────────────────────────────────────────────────────────────────

type recorder struct {
	mu   sync.Mutex
	sent []entity.Notification
}

func (r *recorder) Publish(n entity.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

type fixture struct {
	ctx      context.Context
	store    *memory.Store
	uc       *inventory.MovementUseCase
	notifier *recorder
}

func q(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func zeroTotals() ledger.Totals {
	return ledger.Totals{Stock: decimal.Zero, TotalIn: decimal.Zero, TotalOut: decimal.Zero}
}

func newFixture(t *testing.T, policy inventory.Policy) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	r := store.Repos()
	require.NoError(t, r.Products.Create(ctx, &entity.Product{
		ID: "p1", Reference: "MP-001", Name: "Harina", Type: entity.ProductTypeRawMaterial,
		AlertThreshold: q(5), Stock: q(10), TotalIn: q(10), TotalOut: decimal.Zero,
	}))
	require.NoError(t, r.Locations.Create(ctx, &entity.Location{
		ID: "L", Name: "Almacén Central", Type: entity.LocationWithFloors,
		Zones: []entity.Zone{
			{ID: "F1", Kind: entity.ZoneFloor, Name: "Piso 1", Capacity: q(100)},
			{ID: "F2", Kind: entity.ZoneFloor, Name: "Piso 2", Capacity: q(100)},
		},
	}))
	require.NoError(t, r.Locations.Create(ctx, &entity.Location{
		ID: "Z", Name: "Zona Prisión", Type: entity.LocationWithParts, IsPrison: true,
		Zones: []entity.Zone{{ID: "P1", Kind: entity.ZonePart, Name: "Parte A", Capacity: q(50)}},
	}))
	rec := &recorder{}
	return &fixture{
		ctx:      ctx,
		store:    store,
		uc:       inventory.NewMovementUseCase(store, rec, policy, zerolog.Nop()),
		notifier: rec,
	}
}

func (f *fixture) product(t *testing.T) *entity.Product {
	t.Helper()
	p, err := f.store.Repos().Products.GetByID(f.ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	return p
}

func (f *fixture) zone(t *testing.T, ref entity.ZoneRef) decimal.Decimal {
	t.Helper()
	z, err := f.store.Repos().Locations.GetZone(f.ctx, ref)
	require.NoError(t, err)
	require.NotNil(t, z)
	return z.CurrentStock
}

func (f *fixture) notes(t *testing.T, category string) []*entity.Notification {
	t.Helper()
	all, err := f.store.Repos().Notifications.List(f.ctx, true)
	require.NoError(t, err)
	var out []*entity.Notification
	for _, n := range all {
		if n.Category == category {
			out = append(out, n)
		}
	}
	return out
}

func entry(qty int64, etage string) inventory.CreateMovementInput {
	return inventory.CreateMovementInput{
		ProductID: "p1", Status: entity.StatusEntry, Quantity: q(qty), LocationID: "L", EtageID: etage,
	}
}

func exit(qty int64, etage string) inventory.CreateMovementInput {
	in := entry(qty, etage)
	in.Status = entity.StatusExit
	return in
}

// ─── Create ───────────────────────────────────────────────────────────────────

func TestCreateMovement_SimpleEntry(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())

	res, err := f.uc.CreateMovement(f.ctx, entry(20, "F1"))
	require.NoError(t, err)
	require.NotNil(t, res.Movement)
	assert.Empty(t, res.Warnings)

	p := f.product(t)
	assert.True(t, p.Stock.Equal(q(30)))
	assert.True(t, p.TotalIn.Equal(q(30)))
	assert.True(t, f.zone(t, entity.FloorRef("F1")).Equal(q(20)))
	assert.Empty(t, f.notes(t, entity.NotificationStockAlert))
	assert.Equal(t, entity.ProductTypeRawMaterial, res.Movement.ProductType)
	assert.True(t, res.Movement.AffectsStock)
}

func TestCreateMovement_AlertCrossing(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())

	_, err := f.uc.CreateMovement(f.ctx, exit(6, ""))
	require.NoError(t, err)

	assert.True(t, f.product(t).Stock.Equal(q(4)))
	alerts := f.notes(t, entity.NotificationStockAlert)
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Message, "Harina")
	assert.Contains(t, alerts[0].Message, "4/5")
	assert.False(t, alerts[0].IsRead)
	assert.Equal(t, 1, f.notifier.count())
}

func TestCreateMovement_AlertIsDeduplicated(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())

	_, err := f.uc.CreateMovement(f.ctx, exit(6, ""))
	require.NoError(t, err)
	_, err = f.uc.CreateMovement(f.ctx, exit(1, ""))
	require.NoError(t, err)

	alerts := f.notes(t, entity.NotificationStockAlert)
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Message, "3/5")
	// Refrescar también se difunde.
	assert.Equal(t, 2, f.notifier.count())
}

func TestCreateMovement_EntryNeedsExamination(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())

	res, err := f.uc.CreateMovement(f.ctx, entry(5, "F1"))
	require.NoError(t, err)
	assert.True(t, res.Movement.NeedsExamination)
	assert.Len(t, f.notes(t, entity.NotificationExamination), 1)

	out, err := f.uc.CreateMovement(f.ctx, exit(1, "F1"))
	require.NoError(t, err)
	assert.False(t, out.Movement.NeedsExamination)
	assert.Len(t, f.notes(t, entity.NotificationExamination), 1)
}

func TestCreateMovement_ExaminationCanBeDisabled(t *testing.T) {
	f := newFixture(t, inventory.Policy{ExaminationOnEntry: false})

	res, err := f.uc.CreateMovement(f.ctx, entry(5, "F1"))
	require.NoError(t, err)
	assert.False(t, res.Movement.NeedsExamination)
	assert.Empty(t, f.notes(t, entity.NotificationExamination))
}

func TestCreateMovement_WithoutAffectStock(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	in := exit(3, "F1")
	off := false
	in.AffectStock = &off

	_, err := f.uc.CreateMovement(f.ctx, entry(10, "F1"))
	require.NoError(t, err)
	_, err = f.uc.CreateMovement(f.ctx, in)
	require.NoError(t, err)

	p := f.product(t)
	assert.True(t, p.Stock.Equal(q(20)))
	assert.True(t, p.TotalOut.IsZero())
	assert.True(t, f.zone(t, entity.FloorRef("F1")).Equal(q(7)))
}

func TestCreateMovement_ValidationErrors(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())

	tests := []struct {
		name string
		mut  func(*inventory.CreateMovementInput)
		want error
	}{
		{"sin producto", func(in *inventory.CreateMovementInput) { in.ProductID = "" }, domain.ErrInvalidInput},
		{"cantidad cero", func(in *inventory.CreateMovementInput) { in.Quantity = decimal.Zero }, domain.ErrInvalidInput},
		{"sentido inválido", func(in *inventory.CreateMovementInput) { in.Status = "Entrada" }, domain.ErrInvalidInput},
		{"sin ubicación", func(in *inventory.CreateMovementInput) { in.LocationID = "" }, domain.ErrInvalidInput},
		{"piso y parte", func(in *inventory.CreateMovementInput) { in.PartID = "P1" }, domain.ErrZoneConflict},
		{"piso inexistente", func(in *inventory.CreateMovementInput) { in.EtageID = "F9" }, domain.ErrInvalidZone},
		{"piso de otra ubicación", func(in *inventory.CreateMovementInput) { in.EtageID = ""; in.PartID = "P1" }, domain.ErrInvalidZone},
		{"ubicación inexistente", func(in *inventory.CreateMovementInput) { in.LocationID = "X" }, domain.ErrLocationNotFound},
		{"producto inexistente", func(in *inventory.CreateMovementInput) { in.ProductID = "nope" }, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := entry(5, "F1")
			tt.mut(&in)
			_, err := f.uc.CreateMovement(f.ctx, in)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, domain.IsClientError(err))
		})
	}

	// Nada quedó escrito.
	assert.True(t, f.product(t).Stock.Equal(q(10)))
	all, err := f.store.Repos().Movements.ListAll(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateMovement_OverCapacityIsAWarning(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())

	res, err := f.uc.CreateMovement(f.ctx, entry(120, "F1"))
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.True(t, f.zone(t, entity.FloorRef("F1")).Equal(q(120)))
}

// ─── Edit / Delete ────────────────────────────────────────────────────────────

func TestEditMovement_SameValuesIsNoop(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	created, err := f.uc.CreateMovement(f.ctx, entry(10, "F1"))
	require.NoError(t, err)
	before := f.product(t)

	etage := "F1"
	_, err = f.uc.EditMovement(f.ctx, inventory.EditMovementInput{
		ID: created.Movement.ID, Quantity: q(10), LocationName: "Almacén Central", EtageID: &etage,
	})
	require.NoError(t, err)

	after := f.product(t)
	assert.True(t, after.Stock.Equal(before.Stock))
	assert.True(t, after.TotalIn.Equal(before.TotalIn))
	assert.True(t, f.zone(t, entity.FloorRef("F1")).Equal(q(10)))
}

func TestEditMovement_ChangesFloor(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	created, err := f.uc.CreateMovement(f.ctx, entry(10, "F1"))
	require.NoError(t, err)

	etage := "F2"
	res, err := f.uc.EditMovement(f.ctx, inventory.EditMovementInput{
		ID: created.Movement.ID, Quantity: q(10), LocationName: "almacen central", EtageID: &etage,
	})
	require.NoError(t, err)

	assert.Equal(t, entity.FloorRef("F2"), res.Movement.Zone)
	assert.True(t, f.zone(t, entity.FloorRef("F1")).IsZero())
	assert.True(t, f.zone(t, entity.FloorRef("F2")).Equal(q(10)))
	assert.True(t, f.product(t).Stock.Equal(q(20)))
}

func TestEditMovement_FloorToPartWithQuantityChange(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	created, err := f.uc.CreateMovement(f.ctx, entry(10, "F1"))
	require.NoError(t, err)

	part := "P1"
	_, err = f.uc.EditMovement(f.ctx, inventory.EditMovementInput{
		ID: created.Movement.ID, Quantity: q(4), LocationName: "Zona Prisión", PartID: &part,
	})
	require.NoError(t, err)

	p := f.product(t)
	assert.True(t, p.Stock.Equal(q(14)))
	assert.True(t, p.TotalIn.Equal(q(14)))
	assert.True(t, f.zone(t, entity.FloorRef("F1")).IsZero())
	assert.True(t, f.zone(t, entity.PartRef("P1")).Equal(q(4)))
}

func TestEditMovement_KeepsZoneWhenNotSent(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	created, err := f.uc.CreateMovement(f.ctx, entry(10, "F1"))
	require.NoError(t, err)

	res, err := f.uc.EditMovement(f.ctx, inventory.EditMovementInput{ID: created.Movement.ID, Quantity: q(12)})
	require.NoError(t, err)
	assert.Equal(t, entity.FloorRef("F1"), res.Movement.Zone)
	assert.True(t, f.zone(t, entity.FloorRef("F1")).Equal(q(12)))
}

func TestEditMovement_QualityStatusClearsExamination(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	created, err := f.uc.CreateMovement(f.ctx, entry(10, "F1"))
	require.NoError(t, err)
	require.True(t, created.Movement.NeedsExamination)

	ok := entity.QualityConforming
	res, err := f.uc.EditMovement(f.ctx, inventory.EditMovementInput{
		ID: created.Movement.ID, Quantity: q(10), QualityStatus: &ok,
	})
	require.NoError(t, err)
	assert.False(t, res.Movement.NeedsExamination)
	require.NotNil(t, res.Movement.QualityStatus)
	assert.Equal(t, entity.QualityConforming, *res.Movement.QualityStatus)
}

func TestEditMovement_Errors(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	created, err := f.uc.CreateMovement(f.ctx, entry(10, "F1"))
	require.NoError(t, err)

	_, err = f.uc.EditMovement(f.ctx, inventory.EditMovementInput{ID: "nope", Quantity: q(1)})
	assert.ErrorIs(t, err, domain.ErrMovementNotFound)

	_, err = f.uc.EditMovement(f.ctx, inventory.EditMovementInput{ID: created.Movement.ID, Quantity: q(1), LocationName: "Bodega Norte"})
	assert.ErrorIs(t, err, domain.ErrLocationNotFound)

	bad := "regular"
	_, err = f.uc.EditMovement(f.ctx, inventory.EditMovementInput{ID: created.Movement.ID, Quantity: q(1), QualityStatus: &bad})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.True(t, f.product(t).Stock.Equal(q(20)))
}

func TestDeleteMovement_RoundTripRestoresCounters(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	before := f.product(t)

	created, err := f.uc.CreateMovement(f.ctx, exit(3, "F1"))
	require.NoError(t, err)
	res, err := f.uc.DeleteMovement(f.ctx, created.Movement.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Movement.ID, res.Movement.ID)

	after := f.product(t)
	assert.True(t, after.Stock.Equal(before.Stock))
	assert.True(t, after.TotalIn.Equal(before.TotalIn))
	assert.True(t, after.TotalOut.Equal(before.TotalOut))
	assert.True(t, f.zone(t, entity.FloorRef("F1")).IsZero())

	_, err = f.uc.DeleteMovement(f.ctx, created.Movement.ID)
	assert.ErrorIs(t, err, domain.ErrMovementNotFound)
}

func TestLedgerConsistency_AfterMixedOperations(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	// Sin saldo inicial para que el stock coincida con el libro.
	require.NoError(t, f.store.Repos().Products.SetCounters(f.ctx, "p1", zeroTotals()))

	a, err := f.uc.CreateMovement(f.ctx, entry(20, "F1"))
	require.NoError(t, err)
	b, err := f.uc.CreateMovement(f.ctx, exit(5, "F1"))
	require.NoError(t, err)
	_, err = f.uc.CreateMovement(f.ctx, entry(7, "F2"))
	require.NoError(t, err)

	part := "P1"
	_, err = f.uc.EditMovement(f.ctx, inventory.EditMovementInput{ID: a.Movement.ID, Quantity: q(15), LocationName: "Zona Prisión", PartID: &part})
	require.NoError(t, err)
	_, err = f.uc.DeleteMovement(f.ctx, b.Movement.ID)
	require.NoError(t, err)

	rows, err := f.store.Repos().Movements.ListByProduct(f.ctx, "p1")
	require.NoError(t, err)
	sum := decimal.Zero
	for _, m := range rows {
		sum = sum.Add(m.Signed())
	}
	assert.True(t, f.product(t).Stock.Equal(sum), "stock %s, libro %s", f.product(t).Stock, sum)
	assert.True(t, f.zone(t, entity.PartRef("P1")).Equal(q(15)))
	assert.True(t, f.zone(t, entity.FloorRef("F1")).IsZero())
	assert.True(t, f.zone(t, entity.FloorRef("F2")).Equal(q(7)))
}
