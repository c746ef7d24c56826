package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryTransaction movimiento inmutable de una cantidad de producto entre dos entidades de negocio.
// Source != Destination. Se crea exactamente una vez por movimiento aceptado.
type InventoryTransaction struct {
	ID               string // UUID
	ProductID        int64
	Quantity         int64 // > 0
	CostPricePerUnit decimal.Decimal
	Source           int64
	Destination      int64
	InsertedAt       time.Time
}

// TotalCost costo total del movimiento (cantidad * costo unitario).
func (t *InventoryTransaction) TotalCost() decimal.Decimal {
	return t.CostPricePerUnit.Mul(decimal.NewFromInt(t.Quantity))
}

// InventoryTransactionWithProduct transacción junto a los datos del producto (listados).
type InventoryTransactionWithProduct struct {
	Transaction InventoryTransaction
	Product     Product
}
