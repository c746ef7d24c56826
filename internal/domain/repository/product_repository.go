package repository

import (
	"context"

	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
)

// ProductRepository puerto de lectura de productos que consume el motor de inventario (DIP).
type ProductRepository interface {
	// GetByID devuelve nil, nil si el producto no existe.
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
}
