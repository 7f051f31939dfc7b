package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LocationUseCase alta y consulta de ubicaciones con sus pisos o partes.
type LocationUseCase struct {
	repo repository.LocationRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo}
}

// Create crea una ubicación y sus subzonas con ocupación cero.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	const op = "crear ubicación"
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "name")
	}
	var kind string
	var zones []dto.ZoneRequest
	switch in.Type {
	case entity.LocationWithFloors:
		if len(in.Parts) > 0 {
			return nil, domain.E(op, domain.ErrInvalidInput).With("field", "parts")
		}
		kind, zones = entity.ZoneFloor, in.Floors
	case entity.LocationWithParts:
		if len(in.Floors) > 0 {
			return nil, domain.E(op, domain.ErrInvalidInput).With("field", "etages")
		}
		kind, zones = entity.ZonePart, in.Parts
	default:
		return nil, domain.E(op, domain.ErrInvalidInput).With("field", "type")
	}

	loc := &entity.Location{
		ID:        uuid.New().String(),
		Name:      name,
		Type:      in.Type,
		IsPrison:  in.IsPrison,
		CreatedAt: time.Now(),
	}
	for i, z := range zones {
		if strings.TrimSpace(z.Name) == "" || z.Capacity.IsNegative() {
			return nil, domain.E(op, domain.ErrInvalidInput).With("zone", i)
		}
		loc.Zones = append(loc.Zones, entity.Zone{
			ID:           uuid.New().String(),
			LocationID:   loc.ID,
			Kind:         kind,
			Name:         strings.TrimSpace(z.Name),
			Capacity:     z.Capacity,
			CurrentStock: decimal.Zero,
		})
	}
	if err := uc.repo.Create(ctx, loc); err != nil {
		return nil, err
	}
	return dto.ToLocationResponse(loc), nil
}

// GetByID obtiene una ubicación con sus subzonas.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	loc, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, domain.E("obtener ubicación", fmt.Errorf("ubicación: %w", domain.ErrNotFound)).With("id", id)
	}
	return dto.ToLocationResponse(loc), nil
}

// List lista todas las ubicaciones.
func (uc *LocationUseCase) List(ctx context.Context) ([]dto.LocationResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		items = append(items, *dto.ToLocationResponse(l))
	}
	return items, nil
}
