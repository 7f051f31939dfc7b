package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// CreateMovementRequest body para POST /api/movements.
type CreateMovementRequest struct {
	ProductID       string          `json:"product_id"`
	ProductType     string          `json:"product_type"`
	Status          string          `json:"status"`
	Quantity        decimal.Decimal `json:"quantity"`
	LocationID      string          `json:"location_id"`
	EtageID         string          `json:"etage_id,omitempty"`
	PartID          string          `json:"part_id,omitempty"`
	BatchNumber     string          `json:"batch_number,omitempty"`
	SupplierID      *string         `json:"fournisseur_id,omitempty"`
	FabricationDate *string         `json:"fabricationDate,omitempty"`
	ExpirationDate  *string         `json:"expirationDate,omitempty"`
	Date            *string         `json:"date,omitempty"`
	Time            string          `json:"time,omitempty"`
	AffectStock     *bool           `json:"affect_stock,omitempty"`
}

// EditMovementRequest body para PUT /api/movements/:id.
type EditMovementRequest struct {
	Quantity        decimal.Decimal `json:"quantity"`
	LocationName    string          `json:"location_name"`
	EtageID         *string         `json:"etage_id,omitempty"`
	PartID          *string         `json:"part_id,omitempty"`
	BatchNumber     *string         `json:"batch_number,omitempty"`
	QualityStatus   *string         `json:"quality_status,omitempty"`
	FabricationDate *string         `json:"fabrication_date,omitempty"`
	ExpirationDate  *string         `json:"expiration_date,omitempty"`
	Time            *string         `json:"time,omitempty"`
	Date            *string         `json:"date,omitempty"`
	SupplierID      *string         `json:"fournisseur_id,omitempty"`
}

// FIFOExitRequest body para POST /api/movements/exit-fifo.
type FIFOExitRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Strict    *bool           `json:"strict,omitempty"`
	Date      *string         `json:"date,omitempty"`
	Time      string          `json:"time,omitempty"`
}

// TransferRequest body para POST /api/movements/transfer.
type TransferRequest struct {
	ProductID      string          `json:"product_id"`
	BatchNumber    string          `json:"batch_number"`
	Quantity       decimal.Decimal `json:"quantity"`
	FromLocationID string          `json:"from_location_id"`
	FromEtageID    string          `json:"from_etage_id,omitempty"`
	FromPartID     string          `json:"from_part_id,omitempty"`
	ToLocationID   string          `json:"to_location_id"`
	ToEtageID      string          `json:"to_etage_id,omitempty"`
	ToPartID       string          `json:"to_part_id,omitempty"`
	Date           *string         `json:"date,omitempty"`
	Time           string          `json:"time,omitempty"`
}

// MovementResponse salida de una fila del libro.
type MovementResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	ProductType      string          `json:"product_type"`
	Status           string          `json:"status"`
	Quantity         decimal.Decimal `json:"quantity"`
	LocationID       string          `json:"location_id"`
	EtageID          *string         `json:"etage_id"`
	PartID           *string         `json:"part_id"`
	Date             string          `json:"date"`
	Time             string          `json:"time"`
	BatchNumber      string          `json:"batch_number"`
	SupplierID       *string         `json:"fournisseur_id"`
	FabricationDate  *string         `json:"fabrication_date"`
	ExpirationDate   *string         `json:"expiration_date"`
	QualityStatus    *string         `json:"quality_status"`
	NeedsExamination bool            `json:"needs_examination"`
	IsTransfer       bool            `json:"is_transfer"`
	AffectsStock     bool            `json:"affects_stock"`
	CreatedAt        time.Time       `json:"created_at"`
}

// MovementMutationResponse movimiento afectado y avisos blandos.
type MovementMutationResponse struct {
	Movement MovementResponse `json:"movement"`
	Warnings []string         `json:"warnings,omitempty"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// AllocationLineResponse línea de un plan FIFO.
type AllocationLineResponse struct {
	BatchNumber     string          `json:"batch_number"`
	LocationID      string          `json:"location_id"`
	EtageID         *string         `json:"etage_id"`
	PartID          *string         `json:"part_id"`
	Taken           decimal.Decimal `json:"taken"`
	FabricationDate *string         `json:"fabrication_date"`
	ExpirationDate  *string         `json:"expiration_date"`
	QualityStatus   *string         `json:"quality_status"`
}

// AllocationPlanResponse plan FIFO (vista previa o aplicado).
type AllocationPlanResponse struct {
	Lines     []AllocationLineResponse `json:"lines"`
	Allocated decimal.Decimal          `json:"allocated"`
	Shortfall decimal.Decimal          `json:"shortfall"`
}

// FIFOExitResponse resultado de una salida FIFO.
type FIFOExitResponse struct {
	Movements []MovementResponse     `json:"movements"`
	Plan      AllocationPlanResponse `json:"plan"`
	Warnings  []string               `json:"warnings,omitempty"`
}

// TransferResponse par salida/entrada de un traslado.
type TransferResponse struct {
	Exit     MovementResponse `json:"exit"`
	Entry    MovementResponse `json:"entry"`
	Warnings []string         `json:"warnings,omitempty"`
}

// BatchResponse saldo de un lote en una ubicación/subzona.
type BatchResponse struct {
	BatchNumber     string          `json:"batch_number"`
	LocationID      string          `json:"location_id"`
	EtageID         *string         `json:"etage_id"`
	PartID          *string         `json:"part_id"`
	FabricationDate *string         `json:"fabrication_date"`
	ExpirationDate  *string         `json:"expiration_date"`
	QualityStatus   *string         `json:"quality_status"`
	Available       decimal.Decimal `json:"available"`
}

// LowStockDTO producto en o bajo su umbral de alerta, con la cantidad sugerida de reposición.
type LowStockDTO struct {
	ProductID      string          `json:"product_id"`
	Reference      string          `json:"reference"`
	ProductName    string          `json:"product_name"`
	Unit           string          `json:"unite"`
	CurrentStock   decimal.Decimal `json:"current_stock"`
	AlertThreshold decimal.Decimal `json:"alerte"`
	IdealStock     decimal.Decimal `json:"ideal_stock"`         // alerte * 1.5
	SuggestedQty   decimal.Decimal `json:"suggested_order_qty"` // ideal_stock - stock
	Priority       int             `json:"priority"`            // 1 = más urgente
}

// CounterDrift diferencia detectada entre un contador y el libro.
type CounterDrift struct {
	Kind     string          `json:"kind"` // product | floor | part
	ID       string          `json:"id"`
	Field    string          `json:"field"`
	Stored   decimal.Decimal `json:"stored"`
	Computed decimal.Decimal `json:"computed"`
}

// ReconcileResponse resultado de la reconciliación de contadores.
type ReconcileResponse struct {
	ProductsChecked int            `json:"products_checked"`
	ZonesChecked    int            `json:"zones_checked"`
	Drifts          []CounterDrift `json:"drifts"`
	Fixed           bool           `json:"fixed"`
}

// ToMovementResponse mapea la entidad a su salida JSON.
func ToMovementResponse(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		ProductType:      m.ProductType,
		Status:           m.Status,
		Quantity:         m.Quantity,
		LocationID:       m.LocationID,
		EtageID:          optional(m.Zone.FloorID()),
		PartID:           optional(m.Zone.PartID()),
		Date:             m.Date.Format(DateLayout),
		Time:             m.Time,
		BatchNumber:      m.BatchNumber,
		SupplierID:       m.SupplierID,
		FabricationDate:  FormatDate(m.FabricationDate),
		ExpirationDate:   FormatDate(m.ExpirationDate),
		QualityStatus:    m.QualityStatus,
		NeedsExamination: m.NeedsExamination,
		IsTransfer:       m.IsTransfer,
		AffectsStock:     m.AffectsStock,
		CreatedAt:        m.CreatedAt,
	}
}

// ToMovementResponses mapea una lista.
func ToMovementResponses(list []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

// ToAllocationPlanResponse mapea un plan FIFO.
func ToAllocationPlanResponse(p entity.AllocationPlan) AllocationPlanResponse {
	lines := make([]AllocationLineResponse, 0, len(p.Lines))
	for _, l := range p.Lines {
		lines = append(lines, AllocationLineResponse{
			BatchNumber:     l.BatchNumber,
			LocationID:      l.LocationID,
			EtageID:         optional(l.Zone.FloorID()),
			PartID:          optional(l.Zone.PartID()),
			Taken:           l.Taken,
			FabricationDate: FormatDate(l.FabricationDate),
			ExpirationDate:  FormatDate(l.ExpirationDate),
			QualityStatus:   l.QualityStatus,
		})
	}
	return AllocationPlanResponse{Lines: lines, Allocated: p.Allocated(), Shortfall: p.Shortfall}
}

// ToBatchResponses mapea las filas del proyector.
func ToBatchResponses(rows []entity.BatchAvailability) []BatchResponse {
	out := make([]BatchResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, BatchResponse{
			BatchNumber:     r.BatchNumber,
			LocationID:      r.LocationID,
			EtageID:         optional(r.Zone.FloorID()),
			PartID:          optional(r.Zone.PartID()),
			FabricationDate: FormatDate(r.FabricationDate),
			ExpirationDate:  FormatDate(r.ExpirationDate),
			QualityStatus:   r.QualityStatus,
			Available:       r.Available,
		})
	}
	return out
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
