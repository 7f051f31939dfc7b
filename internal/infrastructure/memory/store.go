package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

var _ inventory.TxRunner = (*Store)(nil)

// state copia completa de las tablas. Las entidades se guardan por valor.
type state struct {
	products      map[string]entity.Product
	locations     map[string]entity.Location
	zones         map[string]entity.Zone // clave ZoneRef.Key()
	movements     map[string]entity.Movement
	notifications map[string]entity.Notification
}

func newState() *state {
	return &state{
		products:      make(map[string]entity.Product),
		locations:     make(map[string]entity.Location),
		zones:         make(map[string]entity.Zone),
		movements:     make(map[string]entity.Movement),
		notifications: make(map[string]entity.Notification),
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.zones {
		c.zones[k] = v
	}
	for k, v := range s.movements {
		c.movements[k] = v
	}
	for k, v := range s.notifications {
		c.notifications[k] = v
	}
	return c
}

// Store almacén en memoria con las mismas garantías transaccionales que Postgres:
// las transacciones se serializan y trabajan sobre una copia que solo se publica en el Commit.
type Store struct {
	mu sync.Mutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

// conn acceso a un estado: committed (mu != nil, bloquea en cada llamada) o de una tx (mu nil).
type conn struct {
	mu    *sync.Mutex
	state func() *state
}

func (c *conn) enter() func() {
	if c.mu == nil {
		return func() {}
	}
	c.mu.Lock()
	return c.mu.Unlock
}

// Run ejecuta fn sobre una copia del estado; si fn devuelve error la copia se descarta.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, r inventory.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	c := &conn{state: func() *state { return work }}
	if err := fn(ctx, reposOn(c)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Repos repositorios de lectura/escritura fuera de transacción (cada llamada es atómica).
func (s *Store) Repos() inventory.Repos {
	return reposOn(&conn{mu: &s.mu, state: func() *state { return s.st }})
}

func reposOn(c *conn) inventory.Repos {
	return inventory.Repos{
		Products:      &ProductRepository{c: c},
		Locations:     &LocationRepository{c: c},
		Movements:     &MovementRepository{c: c},
		Notifications: &NotificationRepository{c: c},
	}
}
