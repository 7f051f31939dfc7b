package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ubicación: con pisos (location_etages) o con partes (location_parts).
const (
	LocationWithFloors = "with_floors"
	LocationWithParts  = "with_parts"
)

// Location representa un almacén o zona física con sus subzonas.
type Location struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Type      string    `db:"type"`
	IsPrison  bool      `db:"is_prison"`
	CreatedAt time.Time `db:"created_at"`
	Zones     []Zone    `db:"-"`
}

// Clases de subzona.
const (
	ZoneFloor = "floor"
	ZonePart  = "part"
)

// ZoneRef referencia un piso o una parte. El valor cero significa "sin subzona";
// al ser un único campo, piso y parte no pueden coexistir en un movimiento.
type ZoneRef struct {
	Kind string // ZoneFloor | ZonePart | ""
	ID   string
}

// FloorRef construye la referencia a un piso; id vacío devuelve la referencia nula.
func FloorRef(id string) ZoneRef {
	if id == "" {
		return ZoneRef{}
	}
	return ZoneRef{Kind: ZoneFloor, ID: id}
}

// PartRef construye la referencia a una parte; id vacío devuelve la referencia nula.
func PartRef(id string) ZoneRef {
	if id == "" {
		return ZoneRef{}
	}
	return ZoneRef{Kind: ZonePart, ID: id}
}

// IsZero indica que no hay subzona.
func (z ZoneRef) IsZero() bool { return z.ID == "" }

// FloorID devuelve el id si la referencia es un piso.
func (z ZoneRef) FloorID() string {
	if z.Kind == ZoneFloor {
		return z.ID
	}
	return ""
}

// PartID devuelve el id si la referencia es una parte.
func (z ZoneRef) PartID() string {
	if z.Kind == ZonePart {
		return z.ID
	}
	return ""
}

// Key clave estable para agrupar ("floor:<id>", "part:<id>" o "").
func (z ZoneRef) Key() string {
	if z.IsZero() {
		return ""
	}
	return z.Kind + ":" + z.ID
}

// Zone es un piso o una parte con capacidad y ocupación actual (desnormalizada).
// 0 <= CurrentStock <= Capacity es un invariante blando: se registra pero no bloquea.
type Zone struct {
	ID           string          `db:"id"`
	LocationID   string          `db:"location_id"`
	Kind         string          `db:"kind"`
	Name         string          `db:"name"`
	Capacity     decimal.Decimal `db:"capacity"`
	CurrentStock decimal.Decimal `db:"current_stock"`
}

// Ref devuelve la referencia de la subzona.
func (z Zone) Ref() ZoneRef { return ZoneRef{Kind: z.Kind, ID: z.ID} }

// OverCapacity indica ocupación fuera de [0, Capacity]. Capacidad 0 se trata como ilimitada.
func (z Zone) OverCapacity() bool {
	if z.CurrentStock.IsNegative() {
		return true
	}
	return z.Capacity.IsPositive() && z.CurrentStock.GreaterThan(z.Capacity)
}
