package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Repos repositorios atados a una misma conexión o transacción.
type Repos struct {
	Products      repository.ProductRepository
	Locations     repository.LocationRepository
	Movements     repository.MovementRepository
	Notifications repository.NotificationRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback de todo; ningún estado parcial queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, r Repos) error) error
}

// Notifier difunde notificaciones a los clientes conectados. Es fire-and-forget:
// no devuelve error y nunca debe bloquear al llamador.
type Notifier interface {
	Publish(n entity.Notification)
}

// Policy decisiones de negocio configurables del motor.
type Policy struct {
	// ExaminationOnEntry marca toda entrada nueva (no traslado) como pendiente de examen.
	ExaminationOnEntry bool
	// StrictFIFO rechaza las salidas FIFO con faltante en lugar de ejecutarlas parcialmente.
	StrictFIFO bool
}

// DefaultPolicy reproduce el comportamiento histórico: examen en toda entrada, FIFO parcial.
func DefaultPolicy() Policy {
	return Policy{ExaminationOnEntry: true, StrictFIFO: false}
}

type nopNotifier struct{}

func (nopNotifier) Publish(entity.Notification) {}

// NopNotifier descarta las notificaciones (tests, herramientas de línea de comandos).
var NopNotifier Notifier = nopNotifier{}
