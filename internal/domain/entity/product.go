package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo. El motor de inventario solo consume Active;
// la gestión del catálogo (SKU, borrado lógico) vive fuera de este servicio.
type Product struct {
	ID          int64
	SKU         string
	Description string
	Category    string
	Brand       string
	UOM         string
	RRP         decimal.Decimal // precio de venta recomendado
	Active      bool            // false = borrado lógico
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
