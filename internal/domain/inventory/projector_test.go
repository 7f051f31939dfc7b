package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

var t0 = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func mov(id, status, batch, loc string, zone entity.ZoneRef, q int64, fab string, offset int) entity.Movement {
	m := entity.Movement{
		ID:           id,
		ProductID:    "P1",
		Status:       status,
		Quantity:     qty(q),
		LocationID:   loc,
		Zone:         zone,
		BatchNumber:  batch,
		AffectsStock: true,
		CreatedAt:    t0.Add(time.Duration(offset) * time.Minute),
	}
	if fab != "" {
		m.FabricationDate = day(fab)
	}
	return m
}

func TestProjectBatches_GroupsBySignedSum(t *testing.T) {
	f1 := entity.FloorRef("F1")
	movs := []entity.Movement{
		mov("1", entity.StatusEntry, "A", "L1", f1, 10, "2024-01-01", 0),
		mov("2", entity.StatusExit, "A", "L1", f1, 4, "", 1),
		mov("3", entity.StatusEntry, "A", "L2", entity.PartRef("P9"), 3, "2024-01-01", 2),
		mov("4", entity.StatusEntry, "B", "L1", f1, 7, "2023-12-01", 3),
	}

	rows := inventory.ProjectBatches(movs)

	require.Len(t, rows, 3)
	// B tiene la fabricación más antigua.
	assert.Equal(t, "B", rows[0].BatchNumber)
	assert.True(t, rows[0].Available.Equal(qty(7)))
	assert.Equal(t, "A", rows[1].BatchNumber)
	assert.Equal(t, "L1", rows[1].LocationID)
	assert.True(t, rows[1].Available.Equal(qty(6)))
	assert.Equal(t, "L2", rows[2].LocationID)
	assert.Equal(t, entity.PartRef("P9"), rows[2].Zone)
}

// Sin fecha de fabricación ordena primero; el lote vacío agrupa bajo clave "".
func TestProjectBatches_MissingDateAndBatch(t *testing.T) {
	movs := []entity.Movement{
		mov("1", entity.StatusEntry, "Z", "L1", entity.ZoneRef{}, 1, "2024-01-01", 0),
		mov("2", entity.StatusEntry, "", "", entity.ZoneRef{}, 2, "", 1),
		mov("3", entity.StatusEntry, "", "", entity.ZoneRef{}, 3, "", 2),
	}

	rows := inventory.ProjectBatches(movs)

	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[0].BatchNumber)
	assert.Equal(t, "", rows[0].LocationID)
	assert.True(t, rows[0].Available.Equal(qty(5)))
}

func TestProjectBatches_TieBreakByBatchNumber(t *testing.T) {
	movs := []entity.Movement{
		mov("1", entity.StatusEntry, "LOT-B", "L1", entity.ZoneRef{}, 1, "2024-01-01", 0),
		mov("2", entity.StatusEntry, "LOT-A", "L1", entity.ZoneRef{}, 1, "2024-01-01", 1),
	}
	rows := inventory.ProjectBatches(movs)
	require.Len(t, rows, 2)
	assert.Equal(t, "LOT-A", rows[0].BatchNumber)
	assert.Equal(t, "LOT-B", rows[1].BatchNumber)
}

func TestAllocatable_DropsEmptyRows(t *testing.T) {
	f1 := entity.FloorRef("F1")
	movs := []entity.Movement{
		mov("1", entity.StatusEntry, "A", "L1", f1, 5, "2024-01-01", 0),
		mov("2", entity.StatusExit, "A", "L1", f1, 5, "", 1),
		mov("3", entity.StatusEntry, "B", "L1", f1, 2, "2024-02-01", 2),
	}
	all := inventory.ProjectBatches(movs)
	assert.Len(t, all, 2, "las filas en cero siguen en el historial")

	rows := inventory.Allocatable(all)
	require.Len(t, rows, 1)
	assert.Equal(t, "B", rows[0].BatchNumber)
}

// Los traslados cuentan para la asignación pero no para los totales del producto.
func TestStockTotals_ExcludesTransfers(t *testing.T) {
	f1, f2 := entity.FloorRef("F1"), entity.FloorRef("F2")
	out := mov("2", entity.StatusExit, "A", "L1", f1, 4, "", 1)
	out.IsTransfer, out.AffectsStock = true, false
	in := mov("3", entity.StatusEntry, "A", "L2", f2, 4, "", 2)
	in.IsTransfer, in.AffectsStock = true, false
	movs := []entity.Movement{
		mov("1", entity.StatusEntry, "A", "L1", f1, 10, "2024-01-01", 0),
		out, in,
		mov("4", entity.StatusExit, "A", "L1", f1, 1, "", 3),
	}

	totals := inventory.StockTotals(movs)
	assert.True(t, totals.TotalIn.Equal(qty(10)))
	assert.True(t, totals.TotalOut.Equal(qty(1)))
	assert.True(t, totals.Stock.Equal(qty(9)))

	zones := inventory.ZoneTotals(movs)
	assert.True(t, zones[f1.Key()].Equal(qty(5)))
	assert.True(t, zones[f2.Key()].Equal(qty(4)))

	rows := inventory.Allocatable(inventory.ProjectBatches(movs))
	require.Len(t, rows, 2)
}
