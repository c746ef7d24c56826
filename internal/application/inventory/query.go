package inventory

import (
	"context"
	"fmt"
	"strconv"

	"github.com/jhoicas/retailpulse-inventory/internal/domain"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/repository"
	"github.com/jhoicas/retailpulse-inventory/pkg/logger"
)

// InventoryQueryUseCase lecturas del libro de inventario con caché de vistas (namespace inventory).
type InventoryQueryUseCase struct {
	ledger     repository.InventoryRepository
	classifier EntityClassifier
	cache      ViewCache
	log        *logger.Logger
}

// NewInventoryQueryUseCase construye el caso de uso. cache puede ser nil (sin caché).
func NewInventoryQueryUseCase(ledger repository.InventoryRepository, classifier EntityClassifier, cache ViewCache, log *logger.Logger) *InventoryQueryUseCase {
	return &InventoryQueryUseCase{ledger: ledger, classifier: classifier, cache: cache, log: log.Component("inventory_query")}
}

// ListInventory todos los registros de inventario.
func (uc *InventoryQueryUseCase) ListInventory(ctx context.Context) ([]*entity.Inventory, error) {
	return cached(ctx, uc.cache, uc.log, NamespaceInventory, "all", func() ([]*entity.Inventory, bool, error) {
		list, err := uc.ledger.ListAll(ctx)
		return list, err == nil, err
	})
}

// GetInventoryByID registro por id; NotFound si no existe.
func (uc *InventoryQueryUseCase) GetInventoryByID(ctx context.Context, id int64) (*entity.Inventory, error) {
	out, err := cached(ctx, uc.cache, uc.log, NamespaceInventory, "id:"+strconv.FormatInt(id, 10), func() (*entity.Inventory, bool, error) {
		rec, err := uc.ledger.GetByID(ctx, id)
		return rec, rec != nil, err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, domain.NotFound(domain.CodeInventoryNotFound, "inventario %d no encontrado", id)
	}
	return out, nil
}

// ListInventoryByProduct registros del producto en todas las entidades.
func (uc *InventoryQueryUseCase) ListInventoryByProduct(ctx context.Context, productID int64) ([]*entity.Inventory, error) {
	return cached(ctx, uc.cache, uc.log, NamespaceInventory, "product:"+strconv.FormatInt(productID, 10), func() ([]*entity.Inventory, bool, error) {
		list, err := uc.ledger.ListByProduct(ctx, productID)
		return list, err == nil, err
	})
}

// ListInventoryByBusinessEntity registros de una entidad; rechaza entidades no válidas.
// La verificación de la entidad es fail-open.
func (uc *InventoryQueryUseCase) ListInventoryByBusinessEntity(ctx context.Context, entityID int64) ([]*entity.Inventory, error) {
	if !uc.classifier.IsValidBusinessEntity(ctx, entityID) {
		return nil, invalidEntity(entityID)
	}
	return cached(ctx, uc.cache, uc.log, NamespaceInventory, "entity:"+strconv.FormatInt(entityID, 10), func() ([]*entity.Inventory, bool, error) {
		list, err := uc.ledger.ListByBusinessEntity(ctx, entityID)
		return list, err == nil, err
	})
}

// GetInventoryByProductAndBusinessEntity registro del par (producto, entidad); NotFound si no existe.
func (uc *InventoryQueryUseCase) GetInventoryByProductAndBusinessEntity(ctx context.Context, productID, entityID int64) (*entity.Inventory, error) {
	if !uc.classifier.IsValidBusinessEntity(ctx, entityID) {
		return nil, invalidEntity(entityID)
	}
	key := fmt.Sprintf("product:%d:entity:%d", productID, entityID)
	out, err := cached(ctx, uc.cache, uc.log, NamespaceInventory, key, func() (*entity.Inventory, bool, error) {
		rec, err := uc.ledger.Get(ctx, productID, entityID)
		return rec, rec != nil, err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, domain.NotFound(domain.CodeInventoryByKeyNotFound,
			"inventario no encontrado para (producto, entidad): (%d, %d)", productID, entityID)
	}
	return out, nil
}

// InventoryContainsProduct indica si el producto tiene algún registro de inventario.
func (uc *InventoryQueryUseCase) InventoryContainsProduct(ctx context.Context, productID int64) (bool, error) {
	list, err := uc.ListInventoryByProduct(ctx, productID)
	if err != nil {
		return false, err
	}
	return len(list) > 0, nil
}

func invalidEntity(id int64) error {
	return domain.Validation(domain.CodeInvalidBusinessEntity, "entidad de negocio no válida: %d", id)
}

// cached lectura read-through. Solo se guardan resultados encontrados; los fallos del caché
// se registran y se lee directo del repositorio.
func cached[T any](ctx context.Context, cache ViewCache, log *logger.Logger, namespace, key string, load func() (T, bool, error)) (T, error) {
	var out T
	if cache != nil {
		hit, err := cache.Get(ctx, namespace, key, &out)
		if err != nil {
			log.Warn().Err(err).Str("namespace", namespace).Str("key", key).Msg("lectura de caché fallida")
		} else if hit {
			return out, nil
		}
	}
	v, found, err := load()
	if err != nil {
		var zero T
		return zero, err
	}
	if found && cache != nil {
		if err := cache.Set(ctx, namespace, key, v); err != nil {
			log.Warn().Err(err).Str("namespace", namespace).Str("key", key).Msg("escritura de caché fallida")
		}
	}
	return v, nil
}
