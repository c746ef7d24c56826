package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory stock conocido de un producto en una entidad de negocio interna (tienda, bodega).
// A lo sumo un registro por (ProductID, BusinessEntityID).
// TotalCostPrice / Quantity es el costo unitario promedio ponderado implícito; no se guarda.
type Inventory struct {
	ID               int64
	ProductID        int64
	BusinessEntityID int64
	Quantity         int64           // >= 0
	TotalCostPrice   decimal.Decimal // >= 0, costo acumulado de Quantity
	UpdatedAt        time.Time
}

// Clone copia el registro; los tests y el caché lo usan para no compartir punteros.
func (i *Inventory) Clone() *Inventory {
	c := *i
	return &c
}
