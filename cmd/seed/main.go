// seed carga ubicaciones (con pisos o partes), productos y saldos iniciales desde un fixture JSON.
//
// Uso: go run ./cmd/seed [--charset latin1] [--dry-run] fixture.json
// Usa la misma configuración que la API (STORE_DRIVER, DATABASE_URL, ...). Con --dry-run valida
// el fixture contra un almacenamiento en memoria sin tocar la base de datos.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/jhoicas/stock-ledger/internal/application/catalog"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	charset := pflag.String("charset", "utf-8", "codificación del fixture (utf-8 | latin1)")
	dryRun := pflag.Bool("dry-run", false, "validar contra un almacenamiento en memoria")
	pflag.Parse()
	if pflag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [--charset latin1] [--dry-run] fixture.json")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, App: "seed"})

	f, err := os.Open(pflag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir fixture")
	}
	defer f.Close()
	fx, err := decodeFixture(f, *charset)
	if err != nil {
		log.Fatal().Err(err).Msg("fixture inválido")
	}

	ctx := context.Background()
	var (
		txRunner inventory.TxRunner
		repos    inventory.Repos
	)
	if *dryRun || cfg.Store.Driver == config.DriverMemory {
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if err := postgres.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("migración del esquema")
		}
		txRunner = postgres.NewTxRunner(pool, postgres.TxOptionsFromConfig(cfg.DB))
		repos = postgres.ReposFor(pool)
	}

	// Saldo inicial: sin examen de calidad.
	policy := inventory.Policy{ExaminationOnEntry: false, StrictFIFO: cfg.Inventory.StrictFIFO}
	s := &seeder{
		products:  catalog.NewProductUseCase(repos.Products, txRunner, log.Component("catalog")),
		locations: catalog.NewLocationUseCase(repos.Locations),
		movements: inventory.NewMovementUseCase(txRunner, inventory.NopNotifier, policy, log.Component("movements")),
	}
	sum, err := s.load(ctx, fx)
	if err != nil {
		log.Fatal().Err(err).Msg("carga interrumpida")
	}
	log.Info().
		Int("locations", sum.Locations).
		Int("products", sum.Products).
		Int("entries", sum.Entries).
		Bool("dry_run", *dryRun).
		Msg("carga completada")
}
