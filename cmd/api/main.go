package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/swaggo/swag"

	"github.com/jhoicas/stock-ledger/docs"
	"github.com/jhoicas/stock-ledger/internal/application/catalog"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/realtime"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
		App:   cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		txRunner inventory.TxRunner
		repos    inventory.Repos
	)
	switch cfg.Store.Driver {
	case config.DriverMemory:
		store := memory.NewStore()
		txRunner, repos = store, store.Repos()
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	default:
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

	hub := realtime.NewHub(cfg.Realtime.ClientBuffer, log.Component("realtime"))
	policy := inventory.Policy{
		ExaminationOnEntry: cfg.Inventory.ExaminationOnEntry,
		StrictFIFO:         cfg.Inventory.StrictFIFO,
	}

	movementUC := inventory.NewMovementUseCase(txRunner, hub, policy, log.Component("movements"))
	balanceUC := inventory.NewBalanceUseCase(repos.Products, repos.Movements)
	replenishmentUC := inventory.NewReplenishmentUseCase(repos.Products)
	adminUC := inventory.NewAdminUseCase(txRunner, log.Component("admin"))
	notificationUC := inventory.NewNotificationUseCase(repos.Notifications)
	productUC := catalog.NewProductUseCase(repos.Products, txRunner, log.Component("catalog"))
	locationUC := catalog.NewLocationUseCase(repos.Locations)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 10,
		// Sin WriteTimeout: el stream SSE mantiene la respuesta abierta.
		IdleTimeout: time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(docs.FilePath); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: docs.FilePath,
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	} else {
		log.Warn().Str("file", docs.FilePath).Msg("swagger UI desactivada: documento no encontrado")
	}
	app.Get("/openapi.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "store": cfg.Store.Driver})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MovementUC:      movementUC,
		BalanceUC:       balanceUC,
		ReplenishmentUC: replenishmentUC,
		AdminUC:         adminUC,
		NotificationUC:  notificationUC,
		ProductUC:       productUC,
		LocationUC:      locationUC,
		Events:          hub,
		Heartbeat:       cfg.Realtime.Heartbeat,
		JWTSecret:       cfg.JWT.Secret,
	})
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: autenticación desactivada")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	// Cerrar el hub primero termina los streams SSE abiertos.
	hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
