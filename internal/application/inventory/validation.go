package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retailpulse-inventory/internal/domain"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/repository"
)

// CostScale decimales que admite el costo unitario; coincide con NUMERIC(19,4) en la BD.
const CostScale = 4

// MovementRequest solicitud de mover Quantity unidades de ProductID desde Source hacia Destination.
type MovementRequest struct {
	ProductID        int64
	Source           int64
	Destination      int64
	Quantity         int64
	CostPricePerUnit decimal.Decimal
}

// ValidationGate verifica la solicitud contra las reglas de negocio antes de cualquier mutación.
type ValidationGate struct {
	products repository.ProductRepository
}

// NewValidationGate construye la compuerta de validación.
func NewValidationGate(products repository.ProductRepository) *ValidationGate {
	return &ValidationGate{products: products}
}

// Check falla con el primer error en este orden: producto existe y está activo, ruta, cantidad, costo.
// No tiene efectos.
func (g *ValidationGate) Check(ctx context.Context, req MovementRequest) error {
	product, err := g.products.GetByID(ctx, req.ProductID)
	if err != nil {
		return fmt.Errorf("consultar producto %d: %w", req.ProductID, err)
	}
	if product == nil {
		return domain.NotFound(domain.CodeProductNotFound, "producto %d no encontrado", req.ProductID)
	}
	if !product.Active {
		return domain.Validation(domain.CodeProductInactive, "producto %d inactivo", req.ProductID)
	}
	return checkShape(req.Source, req.Destination, req.Quantity, req.CostPricePerUnit)
}

// checkShape reglas de ruta, cantidad y costo; también las usa la corrección administrativa.
func checkShape(source, destination, quantity int64, unitCost decimal.Decimal) error {
	if source == destination {
		return domain.Validation(domain.CodeInvalidRoute, "origen y destino no pueden ser iguales (%d)", source)
	}
	if quantity <= 0 {
		return domain.Validation(domain.CodeInvalidQuantity, "la cantidad debe ser mayor a cero")
	}
	if unitCost.IsNegative() {
		return domain.Validation(domain.CodeInvalidCost, "el costo unitario no puede ser negativo")
	}
	if !unitCost.Equal(unitCost.Round(CostScale)) {
		return domain.Validation(domain.CodeInvalidCost, "el costo unitario admite a lo sumo %d decimales", CostScale)
	}
	return nil
}
