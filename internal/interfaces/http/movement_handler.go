package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// MovementHandler maneja el libro de movimientos (protegido).
type MovementHandler struct {
	uc      *inventory.MovementUseCase
	balance *inventory.BalanceUseCase
}

// NewMovementHandler construye el handler.
func NewMovementHandler(uc *inventory.MovementUseCase, balance *inventory.BalanceUseCase) *MovementHandler {
	return &MovementHandler{uc: uc, balance: balance}
}

// Create godoc
// @Summary      Registrar entrada o salida
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/movements [post]
func (h *MovementHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	in, err := toCreateInput(req)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.uc.CreateMovement(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementMutationResponse{
		Movement: dto.ToMovementResponse(res.Movement),
		Warnings: res.Warnings,
	})
}

// Edit godoc
// @Summary      Corregir un movimiento
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del movimiento"
// @Param        body  body  dto.EditMovementRequest  true  "Campos editables"
// @Success      200   {object}  dto.MovementMutationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [put]
func (h *MovementHandler) Edit(c *fiber.Ctx) error {
	var req dto.EditMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	in, err := toEditInput(c.Params("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	res, err := h.uc.EditMovement(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MovementMutationResponse{
		Movement: dto.ToMovementResponse(res.Movement),
		Warnings: res.Warnings,
	})
}

// Delete godoc
// @Summary      Eliminar un movimiento (revierte sus contadores)
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del movimiento"
// @Success      200  {object}  dto.MovementMutationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/movements/{id} [delete]
func (h *MovementHandler) Delete(c *fiber.Ctx) error {
	res, err := h.uc.DeleteMovement(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MovementMutationResponse{
		Movement: dto.ToMovementResponse(res.Movement),
		Warnings: res.Warnings,
	})
}

// ExitFIFO godoc
// @Summary      Salida FIFO por lotes
// @Description  Reparte la cantidad entre los lotes más antiguos. Con faltante responde 201 con
//
//	aviso, salvo modo estricto (409).
//
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.FIFOExitRequest  true  "Producto y cantidad"
// @Success      201   {object}  dto.FIFOExitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/exit-fifo [post]
func (h *MovementHandler) ExitFIFO(c *fiber.Ctx) error {
	var req dto.FIFOExitRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return respondError(c, invalidField("salida FIFO", "date"))
	}
	res, err := h.uc.ExitFIFO(c.UserContext(), inventory.FIFOExitInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Strict:    req.Strict,
		Date:      date,
		Time:      req.Time,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FIFOExitResponse{
		Movements: dto.ToMovementResponses(res.Movements),
		Plan:      dto.ToAllocationPlanResponse(res.Plan),
		Warnings:  res.Warnings,
	})
}

// Transfer godoc
// @Summary      Traslado interno de un lote
// @Tags         movements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "Origen, destino y cantidad"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/movements/transfer [post]
func (h *MovementHandler) Transfer(c *fiber.Ctx) error {
	var req dto.TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}
	date, err := dto.ParseDate(req.Date)
	if err != nil {
		return respondError(c, invalidField("traslado", "date"))
	}
	res, err := h.uc.Transfer(c.UserContext(), inventory.TransferInput{
		ProductID:      req.ProductID,
		BatchNumber:    req.BatchNumber,
		Quantity:       req.Quantity,
		FromLocationID: req.FromLocationID,
		FromEtageID:    req.FromEtageID,
		FromPartID:     req.FromPartID,
		ToLocationID:   req.ToLocationID,
		ToEtageID:      req.ToEtageID,
		ToPartID:       req.ToPartID,
		Date:           date,
		Time:           req.Time,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		Exit:     dto.ToMovementResponse(res.Exit),
		Entry:    dto.ToMovementResponse(res.Entry),
		Warnings: res.Warnings,
	})
}

// List godoc
// @Summary      Historial de movimientos
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  false  "Producto"
// @Param        location_id  query  string  false  "Ubicación"
// @Param        status       query  string  false  "Entrée | Sortie"
// @Param        limit        query  int     false  "Límite (default 50)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/movements [get]
func (h *MovementHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return respondError(c, invalidField("historial", "limit"))
	}
	page.DefaultPage()
	list, err := h.balance.History(c.UserContext(), repository.MovementFilter{
		ProductID:  c.Query("product_id"),
		LocationID: c.Query("location_id"),
		Status:     c.Query("status"),
		Limit:      page.Limit,
		Offset:     page.Offset,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MovementListResponse{
		Items: dto.ToMovementResponses(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

func toCreateInput(req dto.CreateMovementRequest) (inventory.CreateMovementInput, error) {
	const op = "crear movimiento"
	in := inventory.CreateMovementInput{
		ProductID:   req.ProductID,
		ProductType: req.ProductType,
		Status:      req.Status,
		Quantity:    req.Quantity,
		LocationID:  req.LocationID,
		EtageID:     req.EtageID,
		PartID:      req.PartID,
		BatchNumber: req.BatchNumber,
		SupplierID:  req.SupplierID,
		Time:        req.Time,
		AffectStock: req.AffectStock,
	}
	dates := []struct {
		field string
		raw   *string
		dst   **time.Time
	}{
		{"fabricationDate", req.FabricationDate, &in.FabricationDate},
		{"expirationDate", req.ExpirationDate, &in.ExpirationDate},
		{"date", req.Date, &in.Date},
	}
	for _, d := range dates {
		t, err := dto.ParseDate(d.raw)
		if err != nil {
			return in, invalidField(op, d.field)
		}
		*d.dst = t
	}
	return in, nil
}

func toEditInput(id string, req dto.EditMovementRequest) (inventory.EditMovementInput, error) {
	const op = "editar movimiento"
	in := inventory.EditMovementInput{
		ID:            id,
		Quantity:      req.Quantity,
		LocationName:  req.LocationName,
		EtageID:       req.EtageID,
		PartID:        req.PartID,
		BatchNumber:   req.BatchNumber,
		QualityStatus: req.QualityStatus,
		Time:          req.Time,
		SupplierID:    req.SupplierID,
	}
	dates := []struct {
		field string
		raw   *string
		dst   **time.Time
	}{
		{"fabrication_date", req.FabricationDate, &in.FabricationDate},
		{"expiration_date", req.ExpirationDate, &in.ExpirationDate},
		{"date", req.Date, &in.Date},
	}
	for _, d := range dates {
		t, err := dto.ParseDate(d.raw)
		if err != nil {
			return in, invalidField(op, d.field)
		}
		*d.dst = t
	}
	return in, nil
}

