package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// TransferInput traslado de una cantidad de un lote entre ubicaciones o subzonas.
type TransferInput struct {
	ProductID      string
	BatchNumber    string
	Quantity       decimal.Decimal
	FromLocationID string
	FromEtageID    string
	FromPartID     string
	ToLocationID   string
	ToEtageID      string
	ToPartID       string
	Date           *time.Time
	Time           string
}

// TransferResult par salida/entrada generado por el traslado.
type TransferResult struct {
	Exit     *entity.Movement
	Entry    *entity.Movement
	Warnings []string
}

// Transfer registra una salida en el origen y una entrada en el destino marcadas como traslado.
// El stock del producto no cambia; solo las subzonas. Los traslados no generan alertas.
func (uc *MovementUseCase) Transfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	const op = "traslado"
	switch {
	case in.ProductID == "":
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "product_id")
	case !in.Quantity.IsPositive():
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "quantity")
	case in.FromLocationID == "":
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "from_location_id")
	case in.ToLocationID == "":
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "to_location_id")
	case in.FromEtageID != "" && in.FromPartID != "", in.ToEtageID != "" && in.ToPartID != "":
		return nil, domain.E(op, domain.ErrZoneConflict)
	}
	from := zoneFromIDs(in.FromEtageID, in.FromPartID)
	to := zoneFromIDs(in.ToEtageID, in.ToPartID)
	if in.FromLocationID == in.ToLocationID && from == to {
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "to_location_id")
	}
	now := uc.now()

	var res applied
	out := &TransferResult{}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		product, err := r.Products.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.E(op, domain.ErrProductNotFound).With("product_id", in.ProductID)
		}
		if err := checkPlacement(ctx, op, r.Locations, in.ToLocationID, to); err != nil {
			return err
		}
		history, err := r.Movements.ListByProduct(ctx, product.ID)
		if err != nil {
			return err
		}

		var source *entity.BatchAvailability
		rows := inventory.ProjectBatches(history)
		for i := range rows {
			row := &rows[i]
			if row.BatchNumber == in.BatchNumber && row.LocationID == in.FromLocationID && row.Zone == from {
				source = row
				break
			}
		}
		if source == nil || source.Available.LessThan(in.Quantity) {
			available := decimal.Zero
			if source != nil {
				available = source.Available
			}
			return domain.E(op, domain.ErrInsufficientStock).
				With("batch_number", in.BatchNumber).
				With("available", available.String())
		}

		leg := func(status, locationID string, zone entity.ZoneRef) (*entity.Movement, error) {
			m := uc.newMovement(CreateMovementInput{
				Status:          status,
				Quantity:        in.Quantity,
				LocationID:      locationID,
				BatchNumber:     source.BatchNumber,
				FabricationDate: source.FabricationDate,
				ExpirationDate:  source.ExpirationDate,
				Date:            in.Date,
				Time:            in.Time,
			}, product, zone, now)
			m.IsTransfer = true
			m.AffectsStock = false
			m.NeedsExamination = false
			m.QualityStatus = source.QualityStatus
			return m, r.Movements.Create(ctx, m)
		}
		if out.Exit, err = leg(entity.StatusExit, in.FromLocationID, from); err != nil {
			return err
		}
		if out.Entry, err = leg(entity.StatusEntry, in.ToLocationID, to); err != nil {
			return err
		}

		res, err = uc.apply(ctx, r, mutation{
			op:        op,
			productID: product.ID,
			effect:    inventory.Combine(inventory.Contribution(out.Exit), inventory.Contribution(out.Entry)),
			at:        now,
		})
		return err
	})
	if err != nil {
		uc.logRollback(op, in.ProductID, err)
		return nil, err
	}

	out.Warnings = res.warnings
	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("batch_number", in.BatchNumber).
		Str("from", in.FromLocationID).
		Str("to", in.ToLocationID).
		Str("quantity", in.Quantity.String()).
		Msg("traslado registrado")
	return out, nil
}
