package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retailpulse-inventory/internal/application/dto"
	"github.com/jhoicas/retailpulse-inventory/internal/application/inventory"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
)

// movementApplier lo implementa *inventory.MovementApplier.
type movementApplier interface {
	Apply(ctx context.Context, req inventory.MovementRequest) (*entity.InventoryTransaction, error)
}

// transactionStore lo implementa *inventory.TransactionUseCase.
type transactionStore interface {
	ListTransactions(ctx context.Context, limit, offset int) ([]*entity.InventoryTransaction, error)
	ListTransactionsWithProduct(ctx context.Context, limit, offset int) ([]*entity.InventoryTransactionWithProduct, error)
	GetTransaction(ctx context.Context, id string) (*entity.InventoryTransaction, error)
	UpdateTransaction(ctx context.Context, id string, patch inventory.TransactionPatch) (*entity.InventoryTransaction, error)
}

// TransactionHandler maneja el registro y consulta de movimientos de inventario (protegido).
type TransactionHandler struct {
	movements    movementApplier
	transactions transactionStore
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(movements movementApplier, transactions transactionStore) *TransactionHandler {
	return &TransactionHandler{movements: movements, transactions: transactions}
}

// Create godoc
// @Summary      Registrar movimiento de inventario
// @Description  Descuenta del origen (si es interno), acredita al destino (si es interno) y registra la transacción en una sola unidad atómica.
// @Tags         inventoryTransaction
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateInventoryTransactionRequest  true  "product_id, source, destination, quantity, cost_price_per_unit"
// @Success      201   {object}  dto.InventoryTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse  "campo obligatorio ausente o regla de negocio"
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/inventoryTransaction [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInventoryTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	if err := validateBody(&in); err != nil {
		return writeError(c, err)
	}
	t, err := h.movements.Apply(c.UserContext(), inventory.MovementRequest{
		ProductID:        *in.ProductID,
		Source:           *in.Source,
		Destination:      *in.Destination,
		Quantity:         *in.Quantity,
		CostPricePerUnit: *in.CostPricePerUnit,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(t))
}

// List godoc
// @Summary      Listar movimientos
// @Tags         inventoryTransaction
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de resultados (por defecto 100, máximo 500)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.InventoryTransactionResponse
// @Router       /api/inventoryTransaction [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, "paginación inválida")
	}
	list, err := h.transactions.ListTransactions(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.InventoryTransactionResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toTransactionResponse(t))
	}
	return c.JSON(out)
}

// ListWithProduct godoc
// @Summary      Listar movimientos con datos del producto
// @Tags         inventoryTransaction
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Máximo de resultados (por defecto 100, máximo 500)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {array}   dto.InventoryTransactionWithProductResponse
// @Router       /api/inventoryTransaction/withProduct [get]
func (h *TransactionHandler) ListWithProduct(c *fiber.Ctx) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, "paginación inválida")
	}
	list, err := h.transactions.ListTransactionsWithProduct(c.UserContext(), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.InventoryTransactionWithProductResponse, 0, len(list))
	for _, row := range list {
		out = append(out, dto.InventoryTransactionWithProductResponse{
			InventoryTransaction: toTransactionResponse(&row.Transaction),
			Product:              toProductResponse(&row.Product),
		})
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener movimiento por id
// @Tags         inventoryTransaction
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "UUID del movimiento"
// @Success      200  {object}  dto.InventoryTransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventoryTransaction/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	t, err := h.transactions.GetTransaction(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransactionResponse(t))
}

// Update godoc
// @Summary      Corregir un movimiento (admin)
// @Description  Modifica el registro de la transacción; no altera el inventario.
// @Tags         inventoryTransaction
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                                 true  "UUID del movimiento"
// @Param        body  body      dto.UpdateInventoryTransactionRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.InventoryTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventoryTransaction/{id} [put]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateInventoryTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "cuerpo inválido")
	}
	t, err := h.transactions.UpdateTransaction(c.UserContext(), c.Params("id"), inventory.TransactionPatch{
		ProductID:        in.ProductID,
		Quantity:         in.Quantity,
		CostPricePerUnit: in.CostPricePerUnit,
		Source:           in.Source,
		Destination:      in.Destination,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTransactionResponse(t))
}

func parsePage(c *fiber.Ctx) (dto.PageRequest, error) {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return page, err
	}
	page.DefaultPage()
	return page, nil
}

func toTransactionResponse(t *entity.InventoryTransaction) dto.InventoryTransactionResponse {
	return dto.InventoryTransactionResponse{
		ID:               t.ID,
		ProductID:        t.ProductID,
		Quantity:         t.Quantity,
		CostPricePerUnit: t.CostPricePerUnit,
		Source:           t.Source,
		Destination:      t.Destination,
		InsertedAt:       t.InsertedAt,
	}
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		UOM:         p.UOM,
		RRP:         p.RRP,
		Active:      p.Active,
	}
}
