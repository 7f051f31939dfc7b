package http

import (
	"bufio"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/realtime"
)

// EventSource lo implementa *realtime.Hub.
type EventSource interface {
	Subscribe() (<-chan realtime.Event, func())
}

// NotificationHandler avisos de stock y examen, y su stream en tiempo real.
type NotificationHandler struct {
	uc        *inventory.NotificationUseCase
	events    EventSource
	heartbeat time.Duration
}

// NewNotificationHandler construye el handler; heartbeat <= 0 usa 25s.
func NewNotificationHandler(uc *inventory.NotificationUseCase, events EventSource, heartbeat time.Duration) *NotificationHandler {
	if heartbeat <= 0 {
		heartbeat = 25 * time.Second
	}
	return &NotificationHandler{uc: uc, events: events, heartbeat: heartbeat}
}

// List godoc
// @Summary      Listar notificaciones
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        all  query  int  false  "1 = incluir leídas"
// @Success      200  {array}  entity.Notification
// @Router       /api/notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.UserContext(), c.QueryBool("all"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// MarkRead godoc
// @Summary      Marcar notificación como leída
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la notificación"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/notifications/{id}/read [put]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	if err := h.uc.MarkRead(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// MarkAllRead godoc
// @Summary      Marcar todas como leídas
// @Tags         notifications
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuccessResponse
// @Router       /api/notifications/read-all [put]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	if err := h.uc.MarkAllRead(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Stream godoc
// @Summary      Stream SSE de notificaciones
// @Description  Emite "event: newNotification" con la notificación en JSON cada vez que se crea o refresca una.
// @Tags         notifications
// @Security     Bearer
// @Produce      text/event-stream
// @Router       /api/notifications/stream [get]
func (h *NotificationHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	events, unsubscribe := h.events.Subscribe()
	heartbeat := h.heartbeat
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer unsubscribe()
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		fmt.Fprint(w, ": connected\n\n")
		if err := w.Flush(); err != nil {
			return
		}
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
			case <-ticker.C:
				fmt.Fprint(w, ": ping\n\n")
			}
			// Flush falla cuando el cliente se desconecta.
			if err := w.Flush(); err != nil {
				return
			}
		}
	}))
	return nil
}
