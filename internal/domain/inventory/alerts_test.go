package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func TestEvaluateAlerts(t *testing.T) {
	entry := &entity.Movement{Status: entity.StatusEntry, NeedsExamination: true}
	exit := &entity.Movement{Status: entity.StatusExit, NeedsExamination: true}
	transfer := &entity.Movement{Status: entity.StatusEntry, NeedsExamination: true, IsTransfer: true}

	tests := []struct {
		name       string
		stock      int64
		threshold  int64
		movement   *entity.Movement
		categories []string
	}{
		{"stock sobre el umbral, salida", 30, 5, exit, nil},
		{"stock en el umbral", 5, 5, nil, []string{entity.NotificationStockAlert}},
		{"stock bajo el umbral, salida", 4, 5, exit, []string{entity.NotificationStockAlert}},
		{"umbral cero desactiva la alerta", 0, 0, nil, nil},
		{"entrada requiere examen", 30, 5, entry, []string{entity.NotificationExamination}},
		{"ambas reglas", 3, 5, entry, []string{entity.NotificationStockAlert, entity.NotificationExamination}},
		{"traslado no requiere examen", 30, 5, transfer, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := inventory.EvaluateAlerts(inventory.AlertInput{
				ProductID:   "P1",
				ProductName: "Harina",
				NewStock:    qty(tc.stock),
				Threshold:   qty(tc.threshold),
				Movement:    tc.movement,
			})
			require.Len(t, out, len(tc.categories))
			for i, c := range tc.categories {
				assert.Equal(t, c, out[i].Category)
			}
		})
	}
}

func TestStockAlertMessage_ReferencesNameAndRatio(t *testing.T) {
	msg := inventory.StockAlertMessage("Harina", qty(4), qty(5))
	assert.Contains(t, msg, "Harina")
	assert.Contains(t, msg, "4/5")
}
