package inventory

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// AlertInput estado tras una mutación que afectó el stock de un producto.
// Movement solo se informa en altas; ediciones y borrados evalúan únicamente la alerta de stock.
type AlertInput struct {
	ProductID   string
	ProductName string
	NewStock    decimal.Decimal
	Threshold   decimal.Decimal
	Movement    *entity.Movement
	// SkipStockRule cuando la mutación no cambió el stock del producto (affect_stock=false).
	SkipStockRule bool
}

// NotificationIntent notificación a crear o refrescar.
type NotificationIntent struct {
	Category string
	Message  string
}

// EvaluateAlerts aplica las dos reglas de forma independiente (pueden dispararse ambas):
//   - stock: umbral > 0 y stock <= umbral.
//   - examen: alta que requiere examen, no es salida ni traslado interno.
func EvaluateAlerts(in AlertInput) []NotificationIntent {
	var out []NotificationIntent
	if !in.SkipStockRule && in.Threshold.IsPositive() && in.NewStock.LessThanOrEqual(in.Threshold) {
		out = append(out, NotificationIntent{
			Category: entity.NotificationStockAlert,
			Message:  StockAlertMessage(in.ProductName, in.NewStock, in.Threshold),
		})
	}
	if m := in.Movement; m != nil && m.NeedsExamination && !m.IsExit() && !m.IsTransfer {
		out = append(out, NotificationIntent{
			Category: entity.NotificationExamination,
			Message:  ExaminationMessage(in.ProductName),
		})
	}
	return out
}

// StockAlertMessage texto de la alerta: "Alerta de stock: <nombre> (4/5)".
func StockAlertMessage(name string, stock, threshold decimal.Decimal) string {
	return fmt.Sprintf("Alerta de stock: %s (%s/%s)", name, stock.String(), threshold.String())
}

// ExaminationMessage texto del aviso de examen de calidad.
func ExaminationMessage(name string) string {
	return fmt.Sprintf("Examen de calidad pendiente: %s", name)
}
