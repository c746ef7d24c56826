package repository

import (
	"context"

	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
)

// InventoryRepository puerto del libro de inventario por (producto, entidad de negocio).
//
// Contrato de ausencia: Get y GetForUpdate devuelven (nil, nil) cuando no existe registro;
// cualquier error no nulo significa que no se pudo determinar el estado.
// Create falla con un error de Kind ConcurrencyConflict si otro escritor creó el mismo
// par (producto, entidad) de forma concurrente.
type InventoryRepository interface {
	Get(ctx context.Context, productID, businessEntityID int64) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, businessEntityID int64) (*entity.Inventory, error)
	GetByID(ctx context.Context, id int64) (*entity.Inventory, error)
	Create(ctx context.Context, inv *entity.Inventory) error
	Update(ctx context.Context, inv *entity.Inventory) error
	ListAll(ctx context.Context) ([]*entity.Inventory, error)
	ListByProduct(ctx context.Context, productID int64) ([]*entity.Inventory, error)
	ListByBusinessEntity(ctx context.Context, businessEntityID int64) ([]*entity.Inventory, error)
}
