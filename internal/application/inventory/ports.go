package inventory

import (
	"context"

	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/repository"
)

// Namespaces del caché de vistas. La invalidación es gruesa: se descarta el namespace completo.
const (
	NamespaceInventory   = "inventory"
	NamespaceTransaction = "inventoryTransaction"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Si fn devuelve error se hace Rollback; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ledger repository.InventoryRepository,
		txRepo repository.InventoryTransactionRepository,
	) error) error
}

// EntityClassifier consulta el servicio remoto de entidades de negocio.
type EntityClassifier interface {
	// IsExternal es fail-closed: cualquier fallo devuelve un error de Kind ExternalLookup.
	IsExternal(ctx context.Context, id int64) (bool, error)
	// IsValidBusinessEntity es fail-open: ante un fallo devuelve true.
	IsValidBusinessEntity(ctx context.Context, id int64) bool
}

// CacheInvalidator descarta un namespace completo del caché. Best-effort: el llamador solo registra el error.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context, namespace string) error
}

// ViewCache caché de lectura de vistas (read-through). Get devuelve false si no hay entrada.
type ViewCache interface {
	Get(ctx context.Context, namespace, key string, dst any) (bool, error)
	Set(ctx context.Context, namespace, key string, value any) error
}

// EventPublisher publica eventos de dominio después del commit.
type EventPublisher interface {
	PublishMovementApplied(ctx context.Context, tx *entity.InventoryTransaction) error
}
