package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const inventoryColumns = `id, product_id, business_entity_id, quantity, total_cost_price, updated_at`

// InventoryRepo implementación del libro de inventario sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get obtiene el registro de (producto, entidad); nil, nil si no existe.
func (r *InventoryRepo) Get(ctx context.Context, productID, businessEntityID int64) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventory WHERE product_id = $1 AND business_entity_id = $2`
	return r.getOne(ctx, "get inventory", query, productID, businessEntityID)
}

// GetForUpdate obtiene el registro y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, productID, businessEntityID int64) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + `
		FROM inventory WHERE product_id = $1 AND business_entity_id = $2
		FOR UPDATE`
	return r.getOne(ctx, "get inventory for update", query, productID, businessEntityID)
}

// GetByID obtiene un registro por id; nil, nil si no existe.
func (r *InventoryRepo) GetByID(ctx context.Context, id int64) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE id = $1`
	return r.getOne(ctx, "get inventory by id", query, id)
}

// Create inserta el registro y asigna ID. Un (producto, entidad) duplicado es ConcurrencyConflict.
func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	query := `
		INSERT INTO inventory (product_id, business_entity_id, quantity, total_cost_price, updated_at)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()))
		RETURNING id, updated_at`
	err := r.q.QueryRow(ctx, query,
		inv.ProductID, inv.BusinessEntityID, inv.Quantity, inv.TotalCostPrice, nullTime(inv.UpdatedAt),
	).Scan(&inv.ID, &inv.UpdatedAt)
	if err != nil {
		return wrapErr("insert inventory", err)
	}
	return nil
}

// Update guarda cantidad y costo acumulado del registro.
func (r *InventoryRepo) Update(ctx context.Context, inv *entity.Inventory) error {
	query := `
		UPDATE inventory SET quantity = $2, total_cost_price = $3, updated_at = COALESCE($4, now())
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, inv.ID, inv.Quantity, inv.TotalCostPrice, nullTime(inv.UpdatedAt))
	if err != nil {
		return wrapErr("update inventory", err)
	}
	if tag.RowsAffected() == 0 {
		return errNoRowsUpdated("inventory", inv.ID)
	}
	return nil
}

// ListAll todos los registros ordenados por id.
func (r *InventoryRepo) ListAll(ctx context.Context) ([]*entity.Inventory, error) {
	return r.list(ctx, "list inventory", `SELECT `+inventoryColumns+` FROM inventory ORDER BY id`)
}

// ListByProduct registros del producto en todas las entidades.
func (r *InventoryRepo) ListByProduct(ctx context.Context, productID int64) ([]*entity.Inventory, error) {
	return r.list(ctx, "list inventory by product",
		`SELECT `+inventoryColumns+` FROM inventory WHERE product_id = $1 ORDER BY id`, productID)
}

// ListByBusinessEntity registros de una entidad de negocio.
func (r *InventoryRepo) ListByBusinessEntity(ctx context.Context, businessEntityID int64) ([]*entity.Inventory, error) {
	return r.list(ctx, "list inventory by business entity",
		`SELECT `+inventoryColumns+` FROM inventory WHERE business_entity_id = $1 ORDER BY id`, businessEntityID)
}

func (r *InventoryRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Inventory, error) {
	inv, err := scanInventory(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, wrapErr(op, err)
	}
	return inv, nil
}

func (r *InventoryRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.Inventory, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()

	var out []*entity.Inventory
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, wrapErr(op, err)
		}
		out = append(out, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return out, nil
}

func scanInventory(row pgx.Row) (*entity.Inventory, error) {
	var inv entity.Inventory
	if err := row.Scan(
		&inv.ID, &inv.ProductID, &inv.BusinessEntityID, &inv.Quantity, &inv.TotalCostPrice, &inv.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &inv, nil
}
