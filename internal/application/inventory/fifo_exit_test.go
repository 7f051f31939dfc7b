package inventory_test

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	ledger "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

// stockBatches deja el producto en cero y registra dos lotes A (ene) y B (feb) de 5 unidades.
func stockBatches(t *testing.T, f *fixture) {
	t.Helper()
	require.NoError(t, f.store.Repos().Products.SetCounters(f.ctx, "p1", zeroTotals()))
	for _, b := range []struct {
		batch, fab, etage string
	}{{"B", "2024-02-01", "F2"}, {"A", "2024-01-01", "F1"}} {
		in := entry(5, b.etage)
		in.BatchNumber = b.batch
		in.FabricationDate = date(b.fab)
		_, err := f.uc.CreateMovement(f.ctx, in)
		require.NoError(t, err)
	}
}

func TestExitFIFO_MultiBatch(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	stockBatches(t, f)

	res, err := f.uc.ExitFIFO(f.ctx, inventory.FIFOExitInput{ProductID: "p1", Quantity: q(7)})
	require.NoError(t, err)

	require.Len(t, res.Movements, 2)
	assert.Equal(t, "A", res.Movements[0].BatchNumber)
	assert.True(t, res.Movements[0].Quantity.Equal(q(5)))
	assert.Equal(t, entity.FloorRef("F1"), res.Movements[0].Zone)
	assert.Equal(t, "B", res.Movements[1].BatchNumber)
	assert.True(t, res.Movements[1].Quantity.Equal(q(2)))
	assert.Equal(t, date("2024-02-01").Format("2006-01-02"), res.Movements[1].FabricationDate.Format("2006-01-02"))
	assert.True(t, res.Plan.Shortfall.IsZero())

	p := f.product(t)
	assert.True(t, p.Stock.Equal(q(3)))
	assert.True(t, p.TotalOut.Equal(q(7)))
	assert.True(t, f.zone(t, entity.FloorRef("F1")).IsZero())
	assert.True(t, f.zone(t, entity.FloorRef("F2")).Equal(q(3)))
	// Stock 3 <= alerte 5.
	assert.Len(t, f.notes(t, entity.NotificationStockAlert), 1)
}

func TestExitFIFO_PartialByDefault(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	stockBatches(t, f)

	res, err := f.uc.ExitFIFO(f.ctx, inventory.FIFOExitInput{ProductID: "p1", Quantity: q(12)})
	require.NoError(t, err)
	assert.True(t, res.Plan.Shortfall.Equal(q(2)))
	assert.True(t, res.Plan.Allocated().Equal(q(10)))
	assert.Len(t, res.Warnings, 1)
	assert.True(t, f.product(t).Stock.IsZero())
}

func TestExitFIFO_StrictRejectsShortfall(t *testing.T) {
	f := newFixture(t, inventory.Policy{ExaminationOnEntry: true, StrictFIFO: true})
	stockBatches(t, f)

	_, err := f.uc.ExitFIFO(f.ctx, inventory.FIFOExitInput{ProductID: "p1", Quantity: q(12)})
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, "2", domain.DetailsOf(err)["shortfall"])
	assert.True(t, f.product(t).Stock.Equal(q(10)))

	// La bandera de la petición manda sobre la política.
	lenient := false
	_, err = f.uc.ExitFIFO(f.ctx, inventory.FIFOExitInput{ProductID: "p1", Quantity: q(12), Strict: &lenient})
	require.NoError(t, err)
}

func TestExitFIFO_NothingToAllocate(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())

	_, err := f.uc.ExitFIFO(f.ctx, inventory.FIFOExitInput{ProductID: "p1", Quantity: q(1)})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	_, err = f.uc.ExitFIFO(f.ctx, inventory.FIFOExitInput{ProductID: "nope", Quantity: q(1)})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTransfer_MovesZoneStockOnly(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	stockBatches(t, f)
	sentBefore := f.notifier.count()

	res, err := f.uc.Transfer(f.ctx, inventory.TransferInput{
		ProductID: "p1", BatchNumber: "A", Quantity: q(3),
		FromLocationID: "L", FromEtageID: "F1",
		ToLocationID: "Z", ToPartID: "P1",
	})
	require.NoError(t, err)
	assert.True(t, res.Exit.IsTransfer)
	assert.True(t, res.Entry.IsTransfer)
	assert.False(t, res.Entry.NeedsExamination)
	assert.Equal(t, "A", res.Entry.BatchNumber)

	assert.True(t, f.product(t).Stock.Equal(q(10)))
	assert.True(t, f.zone(t, entity.FloorRef("F1")).Equal(q(2)))
	assert.True(t, f.zone(t, entity.PartRef("P1")).Equal(q(3)))
	assert.Equal(t, sentBefore, f.notifier.count())

	// El lote ahora tiene saldo en dos lugares; el FIFO los sigue viendo.
	balance := inventory.NewBalanceUseCase(f.store.Repos().Products, f.store.Repos().Movements)
	rows, err := balance.Batches(f.ctx, "p1", false)
	require.NoError(t, err)
	require.Len(t, rows, 3)
}

func TestTransfer_Errors(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	stockBatches(t, f)

	base := inventory.TransferInput{
		ProductID: "p1", BatchNumber: "A", Quantity: q(3),
		FromLocationID: "L", FromEtageID: "F1", ToLocationID: "L", ToEtageID: "F2",
	}

	same := base
	same.ToEtageID = "F1"
	_, err := f.uc.Transfer(f.ctx, same)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	tooMuch := base
	tooMuch.Quantity = q(6)
	_, err = f.uc.Transfer(f.ctx, tooMuch)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	badZone := base
	badZone.ToEtageID = "P1"
	_, err = f.uc.Transfer(f.ctx, badZone)
	assert.ErrorIs(t, err, domain.ErrInvalidZone)
}

func TestTransfer_LegsAreNotEditedAlone(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	stockBatches(t, f)

	res, err := f.uc.Transfer(f.ctx, inventory.TransferInput{
		ProductID: "p1", BatchNumber: "A", Quantity: q(4),
		FromLocationID: "L", FromEtageID: "F1",
		ToLocationID: "Z", ToPartID: "P1",
	})
	require.NoError(t, err)

	_, err = f.uc.EditMovement(f.ctx, inventory.EditMovementInput{ID: res.Exit.ID, Quantity: q(9)})
	require.ErrorIs(t, err, domain.ErrConflict)

	other := "F2"
	_, err = f.uc.EditMovement(f.ctx, inventory.EditMovementInput{ID: res.Entry.ID, Quantity: q(4), LocationName: "Almacén Central", EtageID: &other})
	require.ErrorIs(t, err, domain.ErrConflict)

	batch := "B"
	_, err = f.uc.EditMovement(f.ctx, inventory.EditMovementInput{ID: res.Entry.ID, Quantity: q(4), BatchNumber: &batch})
	require.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.uc.DeleteMovement(f.ctx, res.Entry.ID)
	require.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.DeleteMovement(f.ctx, res.Exit.ID)
	require.ErrorIs(t, err, domain.ErrConflict)

	// Nada se movió: el par sigue compensado.
	assert.True(t, f.product(t).Stock.Equal(q(10)))
	assert.True(t, f.zone(t, entity.FloorRef("F1")).Equal(q(1)))
	assert.True(t, f.zone(t, entity.PartRef("P1")).Equal(q(4)))

	// Calificar el lote trasladado sí está permitido.
	ok := entity.QualityConforming
	edited, err := f.uc.EditMovement(f.ctx, inventory.EditMovementInput{ID: res.Entry.ID, Quantity: q(4), QualityStatus: &ok})
	require.NoError(t, err)
	assert.Equal(t, entity.PartRef("P1"), edited.Movement.Zone)
	assert.True(t, f.zone(t, entity.PartRef("P1")).Equal(q(4)))
	assert.True(t, f.zone(t, entity.FloorRef("F1")).Equal(q(1)))
}

func TestAdjustZones_MissingZoneIsConsistencyError(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())

	_, err := inventory.AdjustZones(f.ctx, f.store.Repos().Locations, "ajustar", []ledger.ZoneDelta{
		{Zone: entity.FloorRef("F1"), Delta: q(1)},
		{Zone: entity.FloorRef("fantasma"), Delta: q(1)},
	})
	require.ErrorIs(t, err, domain.ErrConsistency)
	assert.NotErrorIs(t, err, domain.ErrInvalidZone)
}

func TestBalanceUseCase_PreviewAndHistory(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	stockBatches(t, f)
	balance := inventory.NewBalanceUseCase(f.store.Repos().Products, f.store.Repos().Movements)

	plan, err := balance.PreviewFIFO(f.ctx, "p1", q(7))
	require.NoError(t, err)
	require.Len(t, plan.Lines, 2)
	assert.Equal(t, "A", plan.Lines[0].BatchNumber)
	// La vista previa no escribe.
	assert.True(t, f.product(t).Stock.Equal(q(10)))

	_, err = balance.PreviewFIFO(f.ctx, "p1", q(0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := balance.History(f.ctx, repository.MovementFilter{ProductID: "p1", Status: entity.StatusEntry, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = balance.History(f.ctx, repository.MovementFilter{Status: "otro"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReplenishmentUseCase_LowStock(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	repl := inventory.NewReplenishmentUseCase(f.store.Repos().Products)

	items, err := repl.LowStock(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.uc.CreateMovement(f.ctx, exit(8, ""))
	require.NoError(t, err)
	items, err = repl.LowStock(f.ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Priority)
	// 5 * 1.5 - 2
	assert.Equal(t, "5.5", items[0].SuggestedQty.String())
}

func TestAdminUseCase_ResetAndReconcile(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	admin := inventory.NewAdminUseCase(f.store, zerolog.Nop())

	_, err := f.uc.CreateMovement(f.ctx, entry(20, "F1"))
	require.NoError(t, err)

	// El saldo inicial de 10 no está en el libro: la reconciliación lo detecta.
	report, err := admin.Reconcile(f.ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.ProductsChecked)
	assert.Equal(t, 3, report.ZonesChecked)
	require.Len(t, report.Drifts, 2)
	assert.True(t, f.product(t).Stock.Equal(q(30)))

	_, err = admin.Reconcile(f.ctx, true)
	require.NoError(t, err)
	assert.True(t, f.product(t).Stock.Equal(q(20)))
	report, err = admin.Reconcile(f.ctx, false)
	require.NoError(t, err)
	assert.Empty(t, report.Drifts)

	require.NoError(t, admin.Reset(f.ctx))
	p := f.product(t)
	assert.True(t, p.Stock.IsZero())
	assert.True(t, p.TotalIn.IsZero())
	assert.True(t, f.zone(t, entity.FloorRef("F1")).IsZero())
	all, err := f.store.Repos().Movements.ListAll(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, f.notes(t, entity.NotificationExamination))
}

func TestNotificationUseCase_MarkRead(t *testing.T) {
	f := newFixture(t, inventory.DefaultPolicy())
	notes := inventory.NewNotificationUseCase(f.store.Repos().Notifications)

	_, err := f.uc.CreateMovement(f.ctx, exit(6, ""))
	require.NoError(t, err)
	_, err = f.uc.CreateMovement(f.ctx, entry(1, ""))
	require.NoError(t, err)

	unread, err := notes.List(f.ctx, false)
	require.NoError(t, err)
	require.Len(t, unread, 2)

	require.NoError(t, notes.MarkRead(f.ctx, unread[0].ID))
	unread, err = notes.List(f.ctx, false)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	require.NoError(t, notes.MarkAllRead(f.ctx))
	unread, err = notes.List(f.ctx, false)
	require.NoError(t, err)
	assert.Empty(t, unread)

	// Una vez leída, la siguiente alerta crea una nueva en lugar de refrescar.
	_, err = f.uc.CreateMovement(f.ctx, exit(1, ""))
	require.NoError(t, err)
	assert.Len(t, f.notes(t, entity.NotificationStockAlert), 2)
}
