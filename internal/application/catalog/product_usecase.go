package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	ledger "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// ProductUseCase casos de uso del catálogo de productos. Stock y totales se manejan vía movimientos.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner inventory.TxRunner
	log      zerolog.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner inventory.TxRunner, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner, log: log}
}

// Create crea un nuevo producto con contadores en cero.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	const op = "crear producto"
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "nom")
	}
	if in.Type == "" {
		in.Type = entity.ProductTypeRawMaterial
	}
	if !entity.ValidProductType(in.Type) {
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "type")
	}
	if in.AlertThreshold.IsNegative() {
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "alerte")
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		Reference:      strings.TrimSpace(in.Reference),
		Name:           in.Name,
		Unit:           in.Unit,
		Type:           in.Type,
		AlertThreshold: in.AlertThreshold,
		Stock:          decimal.Zero,
		TotalIn:        decimal.Zero,
		TotalOut:       decimal.Zero,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	uc.log.Info().Str("product_id", product.ID).Str("nom", product.Name).Msg("producto creado")
	return dto.ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.E("obtener producto", domain.ErrProductNotFound).With("id", id)
	}
	return dto.ToProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *dto.ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Delete elimina el producto con sus movimientos y notificaciones. La ocupación que sus
// movimientos aportaban a pisos y partes se revierte en la misma transacción.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	const op = "eliminar producto"
	var removed int
	err := uc.txRunner.Run(ctx, func(ctx context.Context, r inventory.Repos) error {
		product, err := r.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.E(op, domain.ErrProductNotFound).With("id", id)
		}
		history, err := r.Movements.ListByProduct(ctx, id)
		if err != nil {
			return err
		}
		reversals := make([]ledger.Effect, 0, len(history))
		for i := range history {
			reversals = append(reversals, ledger.Reversal(&history[i]))
		}
		if zones := ledger.Combine(reversals...).Zones; len(zones) > 0 {
			if _, err := inventory.AdjustZones(ctx, r.Locations, op, zones); err != nil {
				return err
			}
		}
		if err := r.Movements.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		if err := r.Notifications.DeleteByProduct(ctx, id); err != nil {
			return err
		}
		removed = len(history)
		return r.Products.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	uc.log.Info().Str("product_id", id).Int("movements", removed).Msg("producto eliminado")
	return nil
}
