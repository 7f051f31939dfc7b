package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// LocationRepository puerto para ubicaciones y sus subzonas (location_etages / location_parts).
type LocationRepository interface {
	Create(ctx context.Context, location *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	List(ctx context.Context) ([]*entity.Location, error)
	GetZone(ctx context.Context, ref entity.ZoneRef) (*entity.Zone, error)
	ListZones(ctx context.Context) ([]entity.Zone, error)
	// AdjustZones aplica todos los deltas como un lote: si alguna subzona no existe devuelve
	// domain.ErrInvalidZone y la transacción debe abortarse. Devuelve el estado resultante.
	AdjustZones(ctx context.Context, deltas []inventory.ZoneDelta) ([]entity.Zone, error)
	SetZoneStock(ctx context.Context, ref entity.ZoneRef, stock decimal.Decimal) error
	ResetZones(ctx context.Context) error
}
