package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Allocate reparte requested sobre las filas ya ordenadas en FIFO, de la más antigua a la
// más reciente, sin tomar nunca más que Available de una fila. Es una función pura:
// mismas entradas, mismo plan. Un faltante no es error; el llamador decide la política.
// requested <= 0 produce un plan vacío.
func Allocate(requested decimal.Decimal, rows []entity.BatchAvailability) entity.AllocationPlan {
	plan := entity.AllocationPlan{Lines: []entity.AllocationLine{}, Shortfall: decimal.Zero}
	remaining := requested
	for _, row := range rows {
		if !remaining.IsPositive() {
			break
		}
		if !row.Available.IsPositive() {
			continue
		}
		taken := decimal.Min(row.Available, remaining)
		remaining = remaining.Sub(taken)
		plan.Lines = append(plan.Lines, entity.AllocationLine{
			BatchNumber:     row.BatchNumber,
			LocationID:      row.LocationID,
			Zone:            row.Zone,
			Taken:           taken,
			FabricationDate: copyTime(row.FabricationDate),
			ExpirationDate:  copyTime(row.ExpirationDate),
			QualityStatus:   copyString(row.QualityStatus),
		})
	}
	if remaining.IsPositive() {
		plan.Shortfall = remaining
	}
	return plan
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
