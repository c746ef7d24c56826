package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
)

// costScale decimales con los que se redondea el costo descontado a precio promedio.
const costScale = 4

// MovementCost costo total de un movimiento: cantidad * costo unitario.
func MovementCost(quantity int64, unitCost decimal.Decimal) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(quantity))
}

// AverageUnitCost costo promedio ponderado implícito: TotalCostPrice / Quantity.
// Con cantidad cero devuelve cero.
func AverageUnitCost(inv *entity.Inventory) decimal.Decimal {
	if inv.Quantity <= 0 {
		return decimal.Zero
	}
	return inv.TotalCostPrice.DivRound(decimal.NewFromInt(inv.Quantity), costScale)
}

// CanDeduct indica si hay stock suficiente; cantidad igual al disponible es válida.
func CanDeduct(inv *entity.Inventory, quantity int64) bool {
	return inv.Quantity >= quantity
}

// Deduct descuenta quantity unidades valoradas a unitCost (salida de un movimiento).
// El costo acumulado nunca queda negativo: si unitCost supera el promedio se trunca en cero,
// y en ese caso el destino recibe más valor del que pierde el origen.
func Deduct(inv *entity.Inventory, quantity int64, unitCost decimal.Decimal) {
	inv.Quantity -= quantity
	inv.TotalCostPrice = nonNegative(inv.TotalCostPrice.Sub(MovementCost(quantity, unitCost)))
}

// DeductAtAverage descuenta quantity unidades al costo promedio vigente (consumo por ventas).
// Si se consume todo el stock el costo queda exactamente en cero.
func DeductAtAverage(inv *entity.Inventory, quantity int64) {
	if quantity >= inv.Quantity {
		inv.Quantity -= quantity
		inv.TotalCostPrice = decimal.Zero
		return
	}
	share := inv.TotalCostPrice.Mul(decimal.NewFromInt(quantity)).
		DivRound(decimal.NewFromInt(inv.Quantity), costScale)
	inv.Quantity -= quantity
	inv.TotalCostPrice = nonNegative(inv.TotalCostPrice.Sub(share))
}

// Add suma quantity unidades valoradas a unitCost (entrada de un movimiento).
func Add(inv *entity.Inventory, quantity int64, unitCost decimal.Decimal) {
	inv.Quantity += quantity
	inv.TotalCostPrice = inv.TotalCostPrice.Add(MovementCost(quantity, unitCost))
}

// NewRecord registro creado perezosamente en la primera entrada a una entidad.
func NewRecord(productID, entityID, quantity int64, unitCost decimal.Decimal) *entity.Inventory {
	return &entity.Inventory{
		ProductID:        productID,
		BusinessEntityID: entityID,
		Quantity:         quantity,
		TotalCostPrice:   MovementCost(quantity, unitCost),
	}
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
