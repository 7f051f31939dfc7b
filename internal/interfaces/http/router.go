package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/catalog"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MovementUC      *inventory.MovementUseCase
	BalanceUC       *inventory.BalanceUseCase
	ReplenishmentUC *inventory.ReplenishmentUseCase
	AdminUC         *inventory.AdminUseCase
	NotificationUC  *inventory.NotificationUseCase
	ProductUC       *catalog.ProductUseCase
	LocationUC      *catalog.LocationUseCase
	Events          EventSource
	Heartbeat       time.Duration
	// JWTSecret vacío desactiva autenticación y control de rol (solo desarrollo).
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
	}

	// Movements
	movements := api.Group("/movements")
	movementHandler := NewMovementHandler(deps.MovementUC, deps.BalanceUC)
	movements.Get("/", movementHandler.List)
	movements.Post("/", movementHandler.Create)
	movements.Post("/exit-fifo", movementHandler.ExitFIFO)
	movements.Post("/transfer", movementHandler.Transfer)
	movements.Put("/:id", movementHandler.Edit)
	movements.Delete("/:id", movementHandler.Delete)

	// Products (low-stock antes de /:id)
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.BalanceUC, deps.ReplenishmentUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/low-stock", productHandler.LowStock)
	products.Get("/:id", productHandler.GetByID)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/batches", productHandler.Batches)
	products.Get("/:id/fifo-preview", productHandler.FIFOPreview)

	// Locations
	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	// Notifications
	notifications := api.Group("/notifications")
	notificationHandler := NewNotificationHandler(deps.NotificationUC, deps.Events, deps.Heartbeat)
	notifications.Get("/", notificationHandler.List)
	notifications.Get("/stream", notificationHandler.Stream)
	notifications.Put("/read-all", notificationHandler.MarkAllRead)
	notifications.Put("/:id/read", notificationHandler.MarkRead)

	// Admin
	admin := api.Group("/admin")
	if deps.JWTSecret != "" {
		admin.Use(RequireRole(RoleAdmin))
	}
	adminHandler := NewAdminHandler(deps.AdminUC)
	admin.Post("/reset", adminHandler.Reset)
	admin.Post("/reconcile", adminHandler.Reconcile)
}
