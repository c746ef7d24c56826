package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/inventory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDeduct_ConservaCantidadYCosto(t *testing.T) {
	inv := &entity.Inventory{Quantity: 20, TotalCostPrice: dec("100")}

	inventory.Deduct(inv, 10, dec("5"))

	assert.Equal(t, int64(10), inv.Quantity)
	assert.True(t, dec("50").Equal(inv.TotalCostPrice), "costo esperado 50, obtenido %s", inv.TotalCostPrice)
}

func TestDeduct_CostoNuncaNegativo(t *testing.T) {
	inv := &entity.Inventory{Quantity: 10, TotalCostPrice: dec("10")}

	inventory.Deduct(inv, 5, dec("4"))

	assert.Equal(t, int64(5), inv.Quantity)
	assert.True(t, inv.TotalCostPrice.IsZero())
}

func TestDeduct_TruncadoNoConservaValorEntreEntidades(t *testing.T) {
	source := &entity.Inventory{Quantity: 10, TotalCostPrice: dec("10")}
	dest := &entity.Inventory{}

	inventory.Deduct(source, 5, dec("4"))
	inventory.Add(dest, 5, dec("4"))

	lost := dec("10").Sub(source.TotalCostPrice)
	assert.True(t, dec("10").Equal(lost))
	assert.True(t, dec("20").Equal(dest.TotalCostPrice), "el destino valora al costo del movimiento")
}

func TestAdd_AcumulaCosto(t *testing.T) {
	inv := &entity.Inventory{Quantity: 30, TotalCostPrice: dec("150")}

	inventory.Add(inv, 10, dec("5"))

	assert.Equal(t, int64(40), inv.Quantity)
	assert.True(t, dec("200").Equal(inv.TotalCostPrice))
}

func TestNewRecord(t *testing.T) {
	inv := inventory.NewRecord(1, 201, 10, dec("5.0"))

	assert.Equal(t, int64(1), inv.ProductID)
	assert.Equal(t, int64(201), inv.BusinessEntityID)
	assert.Equal(t, int64(10), inv.Quantity)
	assert.True(t, dec("50").Equal(inv.TotalCostPrice))
}

func TestCanDeduct_CantidadExactaPermitida(t *testing.T) {
	inv := &entity.Inventory{Quantity: 20}

	assert.True(t, inventory.CanDeduct(inv, 20))
	assert.False(t, inventory.CanDeduct(inv, 21))
}

func TestDeductAtAverage(t *testing.T) {
	t.Run("parcial descuenta al promedio", func(t *testing.T) {
		inv := &entity.Inventory{Quantity: 3, TotalCostPrice: dec("10")}
		inventory.DeductAtAverage(inv, 1)

		assert.Equal(t, int64(2), inv.Quantity)
		assert.True(t, dec("6.6667").Equal(inv.TotalCostPrice), "obtenido %s", inv.TotalCostPrice)
	})

	t.Run("total deja costo en cero", func(t *testing.T) {
		inv := &entity.Inventory{Quantity: 3, TotalCostPrice: dec("10")}
		inventory.DeductAtAverage(inv, 3)

		assert.Equal(t, int64(0), inv.Quantity)
		assert.True(t, inv.TotalCostPrice.IsZero())
	})
}

func TestAverageUnitCost(t *testing.T) {
	assert.True(t, dec("5").Equal(inventory.AverageUnitCost(&entity.Inventory{Quantity: 20, TotalCostPrice: dec("100")})))
	assert.True(t, inventory.AverageUnitCost(&entity.Inventory{}).IsZero())
}
