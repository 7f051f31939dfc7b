package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de producto.
const (
	ProductTypeRawMaterial  = "raw_material"
	ProductTypeSemiFinished = "semi_finished"
	ProductTypeFinished     = "finished"
	ProductTypeReady        = "ready"
)

// Product representa un artículo del inventario (materia prima, semielaborado o terminado).
// Stock, TotalIn y TotalOut son contadores desnormalizados: solo los modifica el motor de movimientos.
type Product struct {
	ID             string          `db:"id"`
	Reference      string          `db:"reference"`
	Name           string          `db:"nom"`
	Unit           string          `db:"unite"`
	Type           string          `db:"type"`
	AlertThreshold decimal.Decimal `db:"alerte"` // 0 = sin alerta
	Stock          decimal.Decimal `db:"stock"`
	TotalIn        decimal.Decimal `db:"total_entrer"`
	TotalOut       decimal.Decimal `db:"total_sortie"`
	CreatedAt      time.Time       `db:"created_at"`
	UpdatedAt      time.Time       `db:"updated_at"`
}

// ValidProductType indica si t es un tipo de producto conocido.
func ValidProductType(t string) bool {
	switch t {
	case ProductTypeRawMaterial, ProductTypeSemiFinished, ProductTypeFinished, ProductTypeReady:
		return true
	}
	return false
}
