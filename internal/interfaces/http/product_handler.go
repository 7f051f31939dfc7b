package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stock-ledger/internal/application/catalog"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc            *catalog.ProductUseCase
	balance       *inventory.BalanceUseCase
	replenishment *inventory.ReplenishmentUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *catalog.ProductUseCase, balance *inventory.BalanceUseCase, replenishment *inventory.ReplenishmentUseCase) *ProductHandler {
	return &ProductHandler{uc: uc, balance: balance, replenishment: replenishment}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite (default 50)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, invalidField("listar productos", "limit"))
	}
	out, err := h.uc.List(c.UserContext(), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar producto con su historial
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del producto"
// @Success      200  {object}  dto.SuccessResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.SuccessResponse{Success: true})
}

// LowStock godoc
// @Summary      Productos en o bajo el umbral de alerta
// @Description  Ordenados por déficit relativo, con la cantidad sugerida para volver a 1.5 × alerte.
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.LowStockDTO
// @Router       /api/products/low-stock [get]
func (h *ProductHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.replenishment.LowStock(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": list,
	})
}

// Batches godoc
// @Summary      Saldos por lote, ubicación y subzona
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id             path   string  true   "ID del producto"
// @Param        include_empty  query  bool    false  "Incluir lotes agotados"
// @Success      200  {array}   dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/batches [get]
func (h *ProductHandler) Batches(c *fiber.Ctx) error {
	rows, err := h.balance.Batches(c.UserContext(), c.Params("id"), c.QueryBool("include_empty"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToBatchResponses(rows))
}

// FIFOPreview godoc
// @Summary      Vista previa de una salida FIFO (no escribe)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true  "ID del producto"
// @Param        quantity  query  string  true  "Cantidad a retirar"
// @Success      200  {object}  dto.AllocationPlanResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id}/fifo-preview [get]
func (h *ProductHandler) FIFOPreview(c *fiber.Ctx) error {
	qty, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		return respondError(c, invalidField("vista previa fifo", "quantity"))
	}
	plan, err := h.balance.PreviewFIFO(c.UserContext(), c.Params("id"), qty)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToAllocationPlanResponse(plan))
}
