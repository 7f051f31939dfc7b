package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CreateProductRequest entrada para crear un producto. Los contadores arrancan en cero.
type CreateProductRequest struct {
	Reference      string          `json:"reference"`
	Name           string          `json:"nom"`
	Unit           string          `json:"unite"`
	Type           string          `json:"type"`
	AlertThreshold decimal.Decimal `json:"alerte"`
}

// ProductResponse salida de un producto con sus contadores.
type ProductResponse struct {
	ID             string          `json:"id"`
	Reference      string          `json:"reference"`
	Name           string          `json:"nom"`
	Unit           string          `json:"unite"`
	Type           string          `json:"type"`
	AlertThreshold decimal.Decimal `json:"alerte"`
	Stock          decimal.Decimal `json:"stock"`
	TotalIn        decimal.Decimal `json:"total_entrer"`
	TotalOut       decimal.Decimal `json:"total_sortie"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// ToProductResponse mapea la entidad.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	return &ProductResponse{
		ID:             p.ID,
		Reference:      p.Reference,
		Name:           p.Name,
		Unit:           p.Unit,
		Type:           p.Type,
		AlertThreshold: p.AlertThreshold,
		Stock:          p.Stock,
		TotalIn:        p.TotalIn,
		TotalOut:       p.TotalOut,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}
