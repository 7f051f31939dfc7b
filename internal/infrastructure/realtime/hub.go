package realtime

import (
	"encoding/json"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// EventNewNotification nombre del evento SSE emitido al insertar o refrescar una notificación.
const EventNewNotification = "newNotification"

var _ inventory.Notifier = (*Hub)(nil)

// Event mensaje listo para escribir en el stream.
type Event struct {
	Name string
	Data []byte
}

// Hub difusión a todos los clientes conectados. Cada suscriptor tiene un buffer propio;
// si está lleno el evento se descarta para ese cliente y Publish nunca bloquea.
type Hub struct {
	mu      sync.RWMutex
	clients map[chan Event]struct{}
	buffer  int
	closed  bool
	log     zerolog.Logger
}

// NewHub crea el hub; buffer <= 0 usa 16.
func NewHub(buffer int, log zerolog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{clients: make(map[chan Event]struct{}), buffer: buffer, log: log}
}

// Subscribe registra un cliente. La función devuelta lo da de baja y cierra su canal.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.clients[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.clients[ch]; ok {
				delete(h.clients, ch)
				close(ch)
			}
		})
	}
}

// Publish serializa la notificación y la envía a cada cliente sin esperar.
func (h *Hub) Publish(n entity.Notification) {
	data, err := json.Marshal(n)
	if err != nil {
		h.log.Warn().Err(err).Str("notification_id", n.ID).Msg("serializar notificación")
		return
	}
	ev := Event{Name: EventNewNotification, Data: data}

	h.mu.RLock()
	defer h.mu.RUnlock()
	dropped := 0
	for ch := range h.clients {
		select {
		case ch <- ev:
		default:
			dropped++
		}
	}
	if dropped > 0 {
		h.log.Warn().Int("clients", dropped).Str("notification_id", n.ID).Msg("evento descartado: cliente lento")
	}
}

// Clients número de suscriptores activos.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close desconecta a todos los clientes (apagado del servidor).
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for ch := range h.clients {
		delete(h.clients, ch)
		close(ch)
	}
}
