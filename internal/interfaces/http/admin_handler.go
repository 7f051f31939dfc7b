package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// AdminHandler operaciones administrativas (rol admin).
type AdminHandler struct {
	uc *inventory.AdminUseCase
}

// NewAdminHandler construye el handler.
func NewAdminHandler(uc *inventory.AdminUseCase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

// Reset godoc
// @Summary      Reinicio total del inventario
// @Description  Borra movimientos y notificaciones y pone en cero todos los contadores.
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.SuccessResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/admin/reset [post]
func (h *AdminHandler) Reset(c *fiber.Ctx) error {
	if err := h.uc.Reset(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// Reconcile godoc
// @Summary      Reconciliar contadores con el libro
// @Tags         admin
// @Security     Bearer
// @Produce      json
// @Param        fix  query  bool  false  "Corregir las diferencias encontradas"
// @Success      200  {object}  dto.ReconcileResponse
// @Router       /api/admin/reconcile [post]
func (h *AdminHandler) Reconcile(c *fiber.Ctx) error {
	report, err := h.uc.Reconcile(c.UserContext(), c.QueryBool("fix"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}
