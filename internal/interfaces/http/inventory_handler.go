package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retailpulse-inventory/internal/application/dto"
	"github.com/jhoicas/retailpulse-inventory/internal/application/inventory"
	"github.com/jhoicas/retailpulse-inventory/internal/domain"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
)

// inventoryReader lecturas del libro que consume el handler; lo implementa *inventory.InventoryQueryUseCase.
type inventoryReader interface {
	ListInventory(ctx context.Context) ([]*entity.Inventory, error)
	GetInventoryByID(ctx context.Context, id int64) (*entity.Inventory, error)
	ListInventoryByProduct(ctx context.Context, productID int64) ([]*entity.Inventory, error)
	ListInventoryByBusinessEntity(ctx context.Context, entityID int64) ([]*entity.Inventory, error)
	GetInventoryByProductAndBusinessEntity(ctx context.Context, productID, entityID int64) (*entity.Inventory, error)
}

// salesDeducter lo implementa *inventory.BulkDeductionEngine.
type salesDeducter interface {
	Deduct(ctx context.Context, req inventory.SalesRequest) ([]int64, error)
}

// InventoryHandler maneja las peticiones HTTP de consulta de inventario y descuento por ventas (protegido).
type InventoryHandler struct {
	queries inventoryReader
	sales   salesDeducter
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(queries inventoryReader, sales salesDeducter) *InventoryHandler {
	return &InventoryHandler{queries: queries, sales: sales}
}

// List godoc
// @Summary      Listar inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   dto.InventoryResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	list, err := h.queries.ListInventory(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toInventoryResponses(list))
}

// GetByID godoc
// @Summary      Obtener inventario por id
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del registro"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{id} [get]
func (h *InventoryHandler) GetByID(c *fiber.Ctx) error {
	id, ok := int64Param(c, "id")
	if !ok {
		return badRequest(c, "id inválido")
	}
	rec, err := h.queries.GetInventoryByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toInventoryResponse(rec))
}

// ListByProduct godoc
// @Summary      Inventario de un producto en todas las entidades
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id   path      int  true  "ID del producto"
// @Success      200  {array}   dto.InventoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/productId/{id} [get]
func (h *InventoryHandler) ListByProduct(c *fiber.Ctx) error {
	productID, ok := int64Param(c, "id")
	if !ok {
		return badRequest(c, "productId inválido")
	}
	list, err := h.queries.ListInventoryByProduct(c.UserContext(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toInventoryResponses(list))
}

// ListByBusinessEntity godoc
// @Summary      Inventario de una entidad de negocio
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        businessEntityId  path  int  true  "ID de la entidad de negocio"
// @Success      200  {array}   dto.InventoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/businessEntityId/{businessEntityId} [get]
func (h *InventoryHandler) ListByBusinessEntity(c *fiber.Ctx) error {
	entityID, ok := int64Param(c, "businessEntityId")
	if !ok {
		return badRequest(c, "businessEntityId inválido")
	}
	list, err := h.queries.ListInventoryByBusinessEntity(c.UserContext(), entityID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toInventoryResponses(list))
}

// GetByProductAndBusinessEntity godoc
// @Summary      Inventario de un producto en una entidad de negocio
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId         path  int  true  "ID del producto"
// @Param        businessEntityId  path  int  true  "ID de la entidad de negocio"
// @Success      200  {object}  dto.InventoryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/productId/{productId}/businessEntityId/{businessEntityId} [get]
func (h *InventoryHandler) GetByProductAndBusinessEntity(c *fiber.Ctx) error {
	productID, ok := int64Param(c, "productId")
	if !ok {
		return badRequest(c, "productId inválido")
	}
	entityID, ok := int64Param(c, "businessEntityId")
	if !ok {
		return badRequest(c, "businessEntityId inválido")
	}
	rec, err := h.queries.GetInventoryByProductAndBusinessEntity(c.UserContext(), productID, entityID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toInventoryResponse(rec))
}

// SalesUpdate godoc
// @Summary      Descontar ventas del inventario de una entidad
// @Description  Aplica cada ítem en orden. Si un ítem falla, los anteriores quedan aplicados
// @Description  y la respuesta 409 lo indica con partial=true.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.SalesUpdateRequest  true  "business_entity_id e items"
// @Success      200   {object}  dto.SalesUpdateResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.SalesFailureResponse
// @Router       /api/inventory/salesUpdate [post]
func (h *InventoryHandler) SalesUpdate(c *fiber.Ctx) error {
	var in dto.SalesUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	req := inventory.SalesRequest{BusinessEntityID: in.BusinessEntityID}
	for _, it := range in.Items {
		req.Items = append(req.Items, inventory.SalesItem{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	applied, err := h.sales.Deduct(c.UserContext(), req)
	if err != nil {
		return writeSalesError(c, err)
	}
	return c.JSON(dto.SalesUpdateResponse{Message: "inventario actualizado", Applied: nonNil(applied)})
}

// writeSalesError responde 409 con el detalle del lote cuando hay faltantes o aplicación parcial.
func writeSalesError(c *fiber.Ctx, err error) error {
	var se *domain.InsufficientStockError
	if errors.As(err, &se) {
		return c.Status(fiber.StatusConflict).JSON(dto.SalesFailureResponse{
			Code:    domain.CodeInsufficientStock,
			Message: se.Error(),
			Partial: se.Partial,
			Applied: nonNil(se.Applied),
			Failed:  se.Shortfalls,
		})
	}
	var pe *domain.PartialApplyError
	if errors.As(err, &pe) && len(pe.Applied) > 0 {
		code, msg := internalCode, internalMessage
		var de *domain.Error
		if errors.As(pe.Err, &de) {
			code, msg = de.Code, de.Message
		}
		return c.Status(fiber.StatusConflict).JSON(dto.SalesFailureResponse{
			Code:    code,
			Message: msg,
			Partial: true,
			Applied: pe.Applied,
			Failed:  []domain.StockShortfall{},
		})
	}
	return writeError(c, err)
}

func toInventoryResponse(rec *entity.Inventory) dto.InventoryResponse {
	return dto.InventoryResponse{
		ID:               rec.ID,
		ProductID:        rec.ProductID,
		BusinessEntityID: rec.BusinessEntityID,
		Quantity:         rec.Quantity,
		TotalCostPrice:   rec.TotalCostPrice,
	}
}

func toInventoryResponses(list []*entity.Inventory) []dto.InventoryResponse {
	out := make([]dto.InventoryResponse, 0, len(list))
	for _, rec := range list {
		out = append(out, toInventoryResponse(rec))
	}
	return out
}

func int64Param(c *fiber.Ctx, name string) (int64, bool) {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
