package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ZoneRequest piso o parte a crear junto con la ubicación.
type ZoneRequest struct {
	Name     string          `json:"name"`
	Capacity decimal.Decimal `json:"capacity"`
}

// CreateLocationRequest entrada para crear una ubicación con sus subzonas.
// Una ubicación with_floors solo lleva Floors; una with_parts solo Parts.
type CreateLocationRequest struct {
	Name     string        `json:"name"`
	Type     string        `json:"type"`
	IsPrison bool          `json:"is_prison"`
	Floors   []ZoneRequest `json:"etages,omitempty"`
	Parts    []ZoneRequest `json:"parts,omitempty"`
}

// ZoneResponse salida de un piso o parte.
type ZoneResponse struct {
	ID           string          `json:"id"`
	Kind         string          `json:"kind"`
	Name         string          `json:"name"`
	Capacity     decimal.Decimal `json:"capacity"`
	CurrentStock decimal.Decimal `json:"currentStock"`
}

// LocationResponse salida de una ubicación.
type LocationResponse struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Type      string         `json:"type"`
	IsPrison  bool           `json:"is_prison"`
	Zones     []ZoneResponse `json:"zones"`
	CreatedAt time.Time      `json:"created_at"`
}

// ToLocationResponse mapea la entidad.
func ToLocationResponse(l *entity.Location) *LocationResponse {
	if l == nil {
		return nil
	}
	zones := make([]ZoneResponse, 0, len(l.Zones))
	for _, z := range l.Zones {
		zones = append(zones, ZoneResponse{
			ID:           z.ID,
			Kind:         z.Kind,
			Name:         z.Name,
			Capacity:     z.Capacity,
			CurrentStock: z.CurrentStock,
		})
	}
	return &LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Type:      l.Type,
		IsPrison:  l.IsPrison,
		Zones:     zones,
		CreatedAt: l.CreatedAt,
	}
}
