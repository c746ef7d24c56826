package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

const transactionColumns = `t.id::text, t.product_id, t.quantity, t.cost_price_per_unit, t.source, t.destination, t.inserted_at`

// InventoryTransactionRepo persistencia de transacciones de inventario (usable con pool o tx).
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

// Create inserta la transacción; asigna ID (UUID) e InsertedAt si vienen vacíos.
func (r *InventoryTransactionRepo) Create(ctx context.Context, tx *entity.InventoryTransaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.InsertedAt.IsZero() {
		tx.InsertedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO inventory_transaction (id, product_id, quantity, cost_price_per_unit, source, destination, inserted_at)
		VALUES ($1::uuid, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.ProductID, tx.Quantity, tx.CostPricePerUnit, tx.Source, tx.Destination, tx.InsertedAt,
	)
	if err != nil {
		return wrapErr("insert inventory transaction", err)
	}
	return nil
}

// GetByID obtiene la transacción; nil, nil si no existe o el id no es un UUID.
func (r *InventoryTransactionRepo) GetByID(ctx context.Context, id string) (*entity.InventoryTransaction, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, nil
	}
	query := `SELECT ` + transactionColumns + ` FROM inventory_transaction t WHERE t.id = $1::uuid`
	var t entity.InventoryTransaction
	err := r.q.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.ProductID, &t.Quantity, &t.CostPricePerUnit, &t.Source, &t.Destination, &t.InsertedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr("get inventory transaction", err)
	}
	return &t, nil
}

// Update corrección administrativa de los campos del movimiento; inserted_at no cambia.
func (r *InventoryTransactionRepo) Update(ctx context.Context, tx *entity.InventoryTransaction) error {
	query := `
		UPDATE inventory_transaction
		SET product_id = $2, quantity = $3, cost_price_per_unit = $4, source = $5, destination = $6
		WHERE id = $1::uuid`
	tag, err := r.q.Exec(ctx, query, tx.ID, tx.ProductID, tx.Quantity, tx.CostPricePerUnit, tx.Source, tx.Destination)
	if err != nil {
		return wrapErr("update inventory transaction", err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsUpdated("inventory_transaction", tx.ID)
	}
	return nil
}

// List transacciones paginadas, más recientes primero.
func (r *InventoryTransactionRepo) List(ctx context.Context, limit, offset int) ([]*entity.InventoryTransaction, error) {
	query := `SELECT ` + transactionColumns + `
		FROM inventory_transaction t
		ORDER BY t.inserted_at DESC, t.id
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, wrapErr("list inventory transactions", err)
	}
	defer rows.Close()

	var out []*entity.InventoryTransaction
	for rows.Next() {
		var t entity.InventoryTransaction
		if err := rows.Scan(
			&t.ID, &t.ProductID, &t.Quantity, &t.CostPricePerUnit, &t.Source, &t.Destination, &t.InsertedAt,
		); err != nil {
			return nil, wrapErr("scan inventory transaction", err)
		}
		out = append(out, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list inventory transactions", err)
	}
	return out, nil
}

// ListWithProduct transacciones junto al producto (JOIN con products).
func (r *InventoryTransactionRepo) ListWithProduct(ctx context.Context, limit, offset int) ([]*entity.InventoryTransactionWithProduct, error) {
	query := `SELECT ` + transactionColumns + `,
			p.id, p.sku, p.description, p.category, p.brand, p.uom, p.rrp, p.active, p.created_at, p.updated_at
		FROM inventory_transaction t
		JOIN products p ON p.id = t.product_id
		ORDER BY t.inserted_at DESC, t.id
		LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, wrapErr("list inventory transactions with product", err)
	}
	defer rows.Close()

	var out []*entity.InventoryTransactionWithProduct
	for rows.Next() {
		var (
			t entity.InventoryTransaction
			p entity.Product
		)
		if err := rows.Scan(
			&t.ID, &t.ProductID, &t.Quantity, &t.CostPricePerUnit, &t.Source, &t.Destination, &t.InsertedAt,
			&p.ID, &p.SKU, &p.Description, &p.Category, &p.Brand, &p.UOM, &p.RRP, &p.Active, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, wrapErr("scan inventory transaction with product", err)
		}
		out = append(out, &entity.InventoryTransactionWithProduct{Transaction: t, Product: p})
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("list inventory transactions with product", err)
	}
	return out, nil
}
