package repository

import (
	"context"

	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
)

// InventoryTransactionRepository puerto de persistencia de transacciones de inventario (DIP).
type InventoryTransactionRepository interface {
	// Create asigna ID e InsertedAt si vienen vacíos.
	Create(ctx context.Context, tx *entity.InventoryTransaction) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.InventoryTransaction, error)
	// Update corrección administrativa; no toca el inventario.
	Update(ctx context.Context, tx *entity.InventoryTransaction) error
	List(ctx context.Context, limit, offset int) ([]*entity.InventoryTransaction, error)
	ListWithProduct(ctx context.Context, limit, offset int) ([]*entity.InventoryTransactionWithProduct, error)
}
