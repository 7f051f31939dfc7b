package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/stock-ledger/internal/application/catalog"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/pkg/textnorm"
)

// fixture contenido del archivo JSON de carga inicial.
type fixture struct {
	Locations    []dto.CreateLocationRequest `json:"locations"`
	Products     []dto.CreateProductRequest  `json:"products"`
	OpeningStock []openingEntry              `json:"opening_stock"`
}

// openingEntry entrada de saldo inicial; producto, ubicación y subzona se referencian por nombre.
type openingEntry struct {
	Reference       string          `json:"reference"`
	Location        string          `json:"location"`
	Zone            string          `json:"zone"`
	Quantity        decimal.Decimal `json:"quantity"`
	BatchNumber     string          `json:"batch_number"`
	FabricationDate *string         `json:"fabricationDate"`
	ExpirationDate  *string         `json:"expirationDate"`
}

// decodeFixture lee el JSON; los exportes antiguos vienen en ISO-8859-1.
func decodeFixture(r io.Reader, charset string) (fixture, error) {
	var fx fixture
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
	case "latin1", "iso-8859-1", "iso8859-1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return fx, fmt.Errorf("charset no soportado: %s", charset)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return fx, fmt.Errorf("leer fixture: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fx); err != nil {
		return fx, fmt.Errorf("decodificar fixture: %w", err)
	}
	return fx, nil
}

// seeder casos de uso por los que pasa la carga: mismas validaciones que la API.
type seeder struct {
	products  *catalog.ProductUseCase
	locations *catalog.LocationUseCase
	movements *inventory.MovementUseCase
}

type summary struct {
	Locations int
	Products  int
	Entries   int
}

func (s *seeder) load(ctx context.Context, fx fixture) (summary, error) {
	var sum summary
	locations := make([]*dto.LocationResponse, 0, len(fx.Locations))
	for i, in := range fx.Locations {
		loc, err := s.locations.Create(ctx, in)
		if err != nil {
			return sum, fmt.Errorf("ubicación #%d (%s): %w", i, in.Name, err)
		}
		locations = append(locations, loc)
		sum.Locations++
	}

	products := make(map[string]*dto.ProductResponse, len(fx.Products))
	for i, in := range fx.Products {
		p, err := s.products.Create(ctx, in)
		if err != nil {
			return sum, fmt.Errorf("producto #%d (%s): %w", i, in.Name, err)
		}
		if p.Reference != "" {
			products[p.Reference] = p
		}
		sum.Products++
	}

	for i, e := range fx.OpeningStock {
		in, err := openingInput(e, products, locations)
		if err != nil {
			return sum, fmt.Errorf("saldo inicial #%d: %w", i, err)
		}
		if _, err := s.movements.CreateMovement(ctx, in); err != nil {
			return sum, fmt.Errorf("saldo inicial #%d (%s): %w", i, e.Reference, err)
		}
		sum.Entries++
	}
	return sum, nil
}

func openingInput(e openingEntry, products map[string]*dto.ProductResponse, locations []*dto.LocationResponse) (inventory.CreateMovementInput, error) {
	p, ok := products[e.Reference]
	if !ok {
		return inventory.CreateMovementInput{}, fmt.Errorf("referencia desconocida %q", e.Reference)
	}
	in := inventory.CreateMovementInput{
		ProductID:   p.ID,
		ProductType: p.Type,
		Status:      entity.StatusEntry,
		Quantity:    e.Quantity,
		BatchNumber: e.BatchNumber,
	}
	for _, loc := range locations {
		if !textnorm.Equal(loc.Name, e.Location) {
			continue
		}
		in.LocationID = loc.ID
		if e.Zone == "" {
			break
		}
		for _, z := range loc.Zones {
			if !textnorm.Equal(z.Name, e.Zone) {
				continue
			}
			if z.Kind == entity.ZonePart {
				in.PartID = z.ID
			} else {
				in.EtageID = z.ID
			}
		}
		if in.EtageID == "" && in.PartID == "" {
			return in, fmt.Errorf("subzona %q no existe en %q", e.Zone, e.Location)
		}
		break
	}
	if in.LocationID == "" {
		return in, fmt.Errorf("ubicación desconocida %q", e.Location)
	}
	var err error
	if in.FabricationDate, err = dto.ParseDate(e.FabricationDate); err != nil {
		return in, fmt.Errorf("fabricationDate: %w", err)
	}
	if in.ExpirationDate, err = dto.ParseDate(e.ExpirationDate); err != nil {
		return in, fmt.Errorf("expirationDate: %w", err)
	}
	return in, nil
}
