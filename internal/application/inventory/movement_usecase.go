package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/textnorm"
)

// MovementUseCase motor de mutación del libro de movimientos (altas, ediciones, borrados,
// salidas FIFO y traslados). Cada operación es una única transacción: validar → escribir la fila →
// aplicar deltas relativos a producto y subzonas → disparar alertas → Commit. Las notificaciones
// se difunden después del Commit.
type MovementUseCase struct {
	txRunner TxRunner
	notifier Notifier
	policy   Policy
	log      zerolog.Logger
	now      func() time.Time
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(txRunner TxRunner, notifier Notifier, policy Policy, log zerolog.Logger) *MovementUseCase {
	if notifier == nil {
		notifier = NopNotifier
	}
	return &MovementUseCase{
		txRunner: txRunner,
		notifier: notifier,
		policy:   policy,
		log:      log,
		now:      time.Now,
	}
}

// CreateMovementInput entrada para registrar una entrada o salida directa (el llamador ya eligió
// lote y ubicación). EtageID y PartID son excluyentes.
type CreateMovementInput struct {
	ProductID       string
	ProductType     string
	Status          string
	Quantity        decimal.Decimal
	LocationID      string
	EtageID         string
	PartID          string
	BatchNumber     string
	SupplierID      *string
	FabricationDate *time.Time
	ExpirationDate  *time.Time
	Date            *time.Time
	Time            string
	// AffectStock nil o true aplica los contadores del producto; false los deja al llamador.
	AffectStock *bool
}

// EditMovementInput corrección de un movimiento existente. El sentido no se puede cambiar.
// EtageID/PartID nil = no enviados: se conserva la subzona si la ubicación no cambia.
type EditMovementInput struct {
	ID              string
	Quantity        decimal.Decimal
	LocationName    string
	EtageID         *string
	PartID          *string
	BatchNumber     *string
	QualityStatus   *string
	FabricationDate *time.Time
	ExpirationDate  *time.Time
	Date            *time.Time
	Time            *string
	SupplierID      *string
}

// MovementResult movimiento persistido y avisos blandos (subzona fuera de capacidad).
type MovementResult struct {
	Movement *entity.Movement
	Warnings []string
}

// mutation contexto inmutable de una mutación; se construye una vez y recorre los pasos.
type mutation struct {
	op        string
	productID string
	effect    inventory.Effect
	// created solo en altas: habilita la regla de examen.
	created *entity.Movement
	at      time.Time
}

// applied estado resultante de aplicar una mutación dentro de la transacción.
type applied struct {
	product       *entity.Product
	zones         []entity.Zone
	notifications []entity.Notification
	warnings      []string
}

// CreateMovement registra una entrada o salida directa.
func (uc *MovementUseCase) CreateMovement(ctx context.Context, in CreateMovementInput) (*MovementResult, error) {
	const op = "crear movimiento"
	if err := validateCreate(op, in); err != nil {
		return nil, err
	}
	zone := zoneFromIDs(in.EtageID, in.PartID)
	now := uc.now()

	var res applied
	var mov *entity.Movement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.E(op, domain.ErrProductNotFound).With("product_id", in.ProductID)
		}
		if err := checkPlacement(ctx, op, r.Locations, in.LocationID, zone); err != nil {
			return err
		}

		mov = uc.newMovement(in, product, zone, now)
		if err := r.Movements.Create(ctx, mov); err != nil {
			return err
		}
		res, err = uc.apply(ctx, r, mutation{
			op:        op,
			productID: product.ID,
			effect:    inventory.Contribution(mov),
			created:   mov,
			at:        now,
		})
		return err
	})
	if err != nil {
		uc.logRollback(op, in.ProductID, err)
		return nil, err
	}

	uc.publish(res.notifications)
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Str("status", mov.Status).
		Str("quantity", mov.Quantity.String()).
		Str("stock", res.product.Stock.String()).
		Msg("movimiento registrado")
	return &MovementResult{Movement: mov, Warnings: res.warnings}, nil
}

// EditMovement corrige un movimiento: revierte su aporte anterior en la subzona original y
// aplica el nuevo en la subzona resultante; el producto recibe la diferencia de cantidades.
// La fila se bloquea (SELECT FOR UPDATE) para que dos ediciones concurrentes no pierdan deltas.
func (uc *MovementUseCase) EditMovement(ctx context.Context, in EditMovementInput) (*MovementResult, error) {
	const op = "editar movimiento"
	if in.ID == "" {
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "id")
	}
	if !in.Quantity.IsPositive() {
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "quantity")
	}
	if in.EtageID != nil && in.PartID != nil && *in.EtageID != "" && *in.PartID != "" {
		return nil, domain.E(op, domain.ErrZoneConflict)
	}
	if !entity.ValidQualityStatus(in.QualityStatus) {
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "quality_status")
	}
	now := uc.now()

	var res applied
	var updated entity.Movement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		old, err := r.Movements.GetForUpdate(ctx, in.ID)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.E(op, domain.ErrMovementNotFound).With("id", in.ID)
		}

		locationID := old.LocationID
		if in.LocationName != "" {
			loc, err := findLocationByName(ctx, r.Locations, in.LocationName)
			if err != nil {
				return err
			}
			if loc == nil {
				return domain.E(op, domain.ErrLocationNotFound).With("location_name", in.LocationName)
			}
			locationID = loc.ID
		}

		zone := old.Zone
		switch {
		case in.EtageID != nil || in.PartID != nil:
			zone = zoneFromIDs(deref(in.EtageID), deref(in.PartID))
		case locationID != old.LocationID:
			zone = entity.ZoneRef{}
		}
		if err := checkPlacement(ctx, op, r.Locations, locationID, zone); err != nil {
			return err
		}

		// Un traslado son dos filas que se compensan; mover una sola rompería el total del producto.
		if old.IsTransfer && (!in.Quantity.Equal(old.Quantity) || locationID != old.LocationID || zone != old.Zone ||
			(in.BatchNumber != nil && *in.BatchNumber != old.BatchNumber)) {
			return domain.E(op, domain.ErrConflict).
				With("id", old.ID).
				With("reason", "traslado: solo se editan calidad y fechas")
		}

		updated = *old
		updated.Quantity = in.Quantity
		updated.LocationID = locationID
		updated.Zone = zone
		applyEditFields(&updated, in)

		if err := r.Movements.Update(ctx, &updated); err != nil {
			return err
		}
		res, err = uc.apply(ctx, r, mutation{
			op:        op,
			productID: old.ProductID,
			effect:    inventory.EditEffect(old, &updated),
			at:        now,
		})
		return err
	})
	if err != nil {
		uc.logRollback(op, in.ID, err)
		return nil, err
	}

	uc.publish(res.notifications)
	uc.log.Info().
		Str("movement_id", updated.ID).
		Str("product_id", updated.ProductID).
		Str("quantity", updated.Quantity.String()).
		Msg("movimiento editado")
	return &MovementResult{Movement: &updated, Warnings: res.warnings}, nil
}

// DeleteMovement elimina un movimiento y revierte simétricamente su aporte. Devuelve la fila eliminada.
func (uc *MovementUseCase) DeleteMovement(ctx context.Context, id string) (*MovementResult, error) {
	const op = "eliminar movimiento"
	if id == "" {
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "id")
	}
	now := uc.now()

	var res applied
	var deleted *entity.Movement
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r Repos) error {
		old, err := r.Movements.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if old == nil {
			return domain.E(op, domain.ErrMovementNotFound).With("id", id)
		}
		if old.IsTransfer {
			return domain.E(op, domain.ErrConflict).
				With("id", id).
				With("reason", "traslado: registre el traslado inverso")
		}
		if err := r.Movements.Delete(ctx, id); err != nil {
			return err
		}
		deleted = old
		res, err = uc.apply(ctx, r, mutation{
			op:        op,
			productID: old.ProductID,
			effect:    inventory.Reversal(old),
			at:        now,
		})
		return err
	})
	if err != nil {
		uc.logRollback(op, id, err)
		return nil, err
	}

	uc.publish(res.notifications)
	uc.log.Info().
		Str("movement_id", deleted.ID).
		Str("product_id", deleted.ProductID).
		Msg("movimiento eliminado")
	return &MovementResult{Movement: deleted, Warnings: res.warnings}, nil
}

// apply escribe los deltas relativos del efecto y evalúa las alertas. Cualquier error aborta la tx.
func (uc *MovementUseCase) apply(ctx context.Context, r Repos, mu mutation) (applied, error) {
	var out applied
	var err error
	if mu.effect.Product.IsZero() {
		out.product, err = r.Products.GetByID(ctx, mu.productID)
		if err == nil && out.product == nil {
			err = domain.ErrProductNotFound
		}
	} else {
		out.product, err = r.Products.AdjustCounters(ctx, mu.productID, mu.effect.Product)
	}
	if err != nil {
		return out, domain.E(mu.op, err).With("product_id", mu.productID)
	}

	if len(mu.effect.Zones) > 0 {
		out.zones, err = AdjustZones(ctx, r.Locations, mu.op, mu.effect.Zones)
		if err != nil {
			return out, err
		}
		for _, z := range out.zones {
			if !z.OverCapacity() {
				continue
			}
			w := fmt.Sprintf("%s %s fuera de capacidad: %s/%s", z.Kind, z.Name, z.CurrentStock.String(), z.Capacity.String())
			out.warnings = append(out.warnings, w)
			uc.log.Warn().
				Str("zone_id", z.ID).
				Str("kind", z.Kind).
				Str("current_stock", z.CurrentStock.String()).
				Str("capacity", z.Capacity.String()).
				Msg("subzona fuera de capacidad")
		}
	}

	out.notifications, err = alertTrigger(ctx, r.Notifications, inventory.AlertInput{
		ProductID:     out.product.ID,
		ProductName:   out.product.Name,
		NewStock:      out.product.Stock,
		Threshold:     out.product.AlertThreshold,
		Movement:      mu.created,
		SkipStockRule: mu.effect.Product.Stock.IsZero(),
	}, mu.at)
	if err != nil {
		return out, domain.E(mu.op, err)
	}
	return out, nil
}

// publish difunde sin bloquear; un fallo del canal en tiempo real nunca afecta la transacción.
func (uc *MovementUseCase) publish(ns []entity.Notification) {
	for _, n := range ns {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					uc.log.Warn().Interface("panic", rec).Str("notification_id", n.ID).Msg("difusión de notificación fallida")
				}
			}()
			uc.notifier.Publish(n)
		}()
	}
}

func (uc *MovementUseCase) logRollback(op, ref string, err error) {
	ev := uc.log.Warn()
	if !domain.IsClientError(err) {
		ev = uc.log.Error()
	}
	ev.Err(err).Str("op", op).Str("ref", ref).Msg("transacción revertida")
}

func (uc *MovementUseCase) newMovement(in CreateMovementInput, product *entity.Product, zone entity.ZoneRef, now time.Time) *entity.Movement {
	productType := in.ProductType
	if productType == "" {
		productType = product.Type
	}
	date := truncateDay(now)
	if in.Date != nil {
		date = truncateDay(*in.Date)
	}
	clock := in.Time
	if clock == "" {
		clock = now.Format("15:04:05")
	}
	m := &entity.Movement{
		ID:              uuid.New().String(),
		ProductID:       product.ID,
		ProductType:     productType,
		Status:          in.Status,
		Quantity:        in.Quantity,
		LocationID:      in.LocationID,
		Zone:            zone,
		Date:            date,
		Time:            clock,
		BatchNumber:     in.BatchNumber,
		SupplierID:      in.SupplierID,
		FabricationDate: in.FabricationDate,
		ExpirationDate:  in.ExpirationDate,
		AffectsStock:    in.AffectStock == nil || *in.AffectStock,
		CreatedAt:       now,
	}
	m.NeedsExamination = uc.policy.ExaminationOnEntry && m.IsEntry() && !m.IsTransfer
	return m
}

func validateCreate(op string, in CreateMovementInput) error {
	switch {
	case in.ProductID == "":
		return domain.E(op, domain.ErrInvalidInput).With("field", "product_id")
	case !entity.ValidStatus(in.Status):
		return domain.E(op, domain.ErrInvalidInput).With("field", "status")
	case !in.Quantity.IsPositive():
		return domain.E(op, domain.ErrInvalidInput).With("field", "quantity")
	case in.LocationID == "":
		return domain.E(op, domain.ErrInvalidInput).With("field", "location_id")
	case in.EtageID != "" && in.PartID != "":
		return domain.E(op, domain.ErrZoneConflict)
	case in.ProductType != "" && !entity.ValidProductType(in.ProductType):
		return domain.E(op, domain.ErrInvalidInput).With("field", "product_type")
	}
	return nil
}

func applyEditFields(m *entity.Movement, in EditMovementInput) {
	if in.BatchNumber != nil {
		m.BatchNumber = *in.BatchNumber
	}
	if in.QualityStatus != nil {
		q := *in.QualityStatus
		m.QualityStatus = &q
		// Una vez calificado, el lote deja de estar pendiente de examen.
		m.NeedsExamination = false
	}
	if in.FabricationDate != nil {
		m.FabricationDate = in.FabricationDate
	}
	if in.ExpirationDate != nil {
		m.ExpirationDate = in.ExpirationDate
	}
	if in.Date != nil {
		m.Date = truncateDay(*in.Date)
	}
	if in.Time != nil {
		m.Time = *in.Time
	}
	if in.SupplierID != nil {
		m.SupplierID = in.SupplierID
	}
}

// checkPlacement valida que la ubicación exista y que la subzona (si hay) le pertenezca.
func checkPlacement(ctx context.Context, op string, locations repository.LocationRepository, locationID string, zone entity.ZoneRef) error {
	loc, err := locations.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if loc == nil {
		return domain.E(op, domain.ErrLocationNotFound).With("location_id", locationID)
	}
	if zone.IsZero() {
		return nil
	}
	z, err := locations.GetZone(ctx, zone)
	if err != nil {
		return err
	}
	if z == nil || z.LocationID != loc.ID {
		return domain.E(op, domain.ErrInvalidZone).
			With("etage_id", zone.FloorID()).
			With("part_id", zone.PartID()).
			With("location_id", locationID)
	}
	return nil
}

func findLocationByName(ctx context.Context, locations repository.LocationRepository, name string) (*entity.Location, error) {
	list, err := locations.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range list {
		if textnorm.Equal(l.Name, name) {
			return l, nil
		}
	}
	return nil, nil
}

func zoneFromIDs(etageID, partID string) entity.ZoneRef {
	if etageID != "" {
		return entity.FloorRef(etageID)
	}
	return entity.PartRef(partID)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// AdjustZones escribe los deltas de subzona dentro de la transacción en curso. Las subzonas ya
// vienen del libro o de una validación previa: si una falta aquí, libro y contadores divergen
// y el error es ErrConsistency, no ErrInvalidZone.
func AdjustZones(ctx context.Context, locations repository.LocationRepository, op string, deltas []inventory.ZoneDelta) ([]entity.Zone, error) {
	zones, err := locations.AdjustZones(ctx, deltas)
	if errors.Is(err, domain.ErrInvalidZone) {
		return nil, domain.E(op, fmt.Errorf("%w: %s", domain.ErrConsistency, err.Error())).
			With("zones", zoneKeys(deltas))
	}
	if err != nil {
		return nil, domain.E(op, err)
	}
	return zones, nil
}

func zoneKeys(zones []inventory.ZoneDelta) []string {
	keys := make([]string, 0, len(zones))
	for _, z := range zones {
		keys = append(keys, z.Zone.Key())
	}
	return keys
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
