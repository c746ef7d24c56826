package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retailpulse-inventory/internal/domain"
)

// InventoryResponse registro del libro de inventario.
type InventoryResponse struct {
	ID               int64           `json:"id"`
	ProductID        int64           `json:"product_id"`
	BusinessEntityID int64           `json:"business_entity_id"`
	Quantity         int64           `json:"quantity"`
	TotalCostPrice   decimal.Decimal `json:"total_cost_price"`
}

// SalesItemRequest producto vendido.
type SalesItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// SalesUpdateRequest body para POST /api/inventory/salesUpdate.
type SalesUpdateRequest struct {
	BusinessEntityID int64              `json:"business_entity_id"`
	Items            []SalesItemRequest `json:"items"`
}

// SalesUpdateResponse lote aplicado completo.
type SalesUpdateResponse struct {
	Message string  `json:"message"`
	Applied []int64 `json:"applied"`
}

// SalesFailureResponse lote rechazado. Partial=true indica que los productos de Applied
// ya quedaron descontados.
type SalesFailureResponse struct {
	Code    string                  `json:"code"`
	Message string                  `json:"message"`
	Partial bool                    `json:"partial"`
	Applied []int64                 `json:"applied"`
	Failed  []domain.StockShortfall `json:"failed"`
}

// CreateInventoryTransactionRequest body para POST /api/inventoryTransaction.
// Todos los campos son obligatorios; los punteros distinguen "ausente" de cero.
type CreateInventoryTransactionRequest struct {
	ProductID        *int64           `json:"product_id" validate:"required"`
	Source           *int64           `json:"source" validate:"required"`
	Destination      *int64           `json:"destination" validate:"required"`
	Quantity         *int64           `json:"quantity" validate:"required"`
	CostPricePerUnit *decimal.Decimal `json:"cost_price_per_unit" validate:"required"`
}


// UpdateInventoryTransactionRequest body para PUT /api/inventoryTransaction/:id.
// Los campos ausentes no se modifican.
type UpdateInventoryTransactionRequest struct {
	ProductID        *int64           `json:"product_id,omitempty"`
	Source           *int64           `json:"source,omitempty"`
	Destination      *int64           `json:"destination,omitempty"`
	Quantity         *int64           `json:"quantity,omitempty"`
	CostPricePerUnit *decimal.Decimal `json:"cost_price_per_unit,omitempty"`
}

// InventoryTransactionResponse movimiento registrado.
type InventoryTransactionResponse struct {
	ID               string          `json:"id"`
	ProductID        int64           `json:"product_id"`
	Quantity         int64           `json:"quantity"`
	CostPricePerUnit decimal.Decimal `json:"cost_price_per_unit"`
	Source           int64           `json:"source"`
	Destination      int64           `json:"destination"`
	InsertedAt       time.Time       `json:"inserted_at"`
}

// ProductResponse datos del producto en listados de transacciones.
type ProductResponse struct {
	ID          int64           `json:"id"`
	SKU         string          `json:"sku"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Brand       string          `json:"brand"`
	UOM         string          `json:"uom"`
	RRP         decimal.Decimal `json:"rrp"`
	Active      bool            `json:"active"`
}

// InventoryTransactionWithProductResponse transacción junto al producto.
type InventoryTransactionWithProductResponse struct {
	InventoryTransaction InventoryTransactionResponse `json:"inventory_transaction"`
	Product              ProductResponse              `json:"product"`
}
