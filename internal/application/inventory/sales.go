package inventory

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/retailpulse-inventory/internal/domain"
	inv "github.com/jhoicas/retailpulse-inventory/internal/domain/inventory"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/repository"
	"github.com/jhoicas/retailpulse-inventory/pkg/logger"
)

// SalesItem producto y cantidad vendida.
type SalesItem struct {
	ProductID int64
	Quantity  int64
}

// SalesRequest lote de ventas a descontar de una entidad de negocio.
type SalesRequest struct {
	BusinessEntityID int64
	Items            []SalesItem
}

// BulkDeductionEngine descuenta un lote de ventas directamente del libro (sin destino).
//
// Cada ítem se aplica en su propia transacción corta con bloqueo de fila, en el orden recibido.
// Los ítems ya aplicados NO se revierten si un ítem posterior falla: el error lo indica con
// domain.Partial(err) y la lista de productos aplicados.
type BulkDeductionEngine struct {
	txRunner    TxRunner
	cache       CacheInvalidator
	tracer      trace.Tracer
	log         *logger.Logger
	maxAttempts int
	now         func() time.Time
}

// NewBulkDeductionEngine construye el motor de ventas. maxAttempts < 1 se toma como 1.
func NewBulkDeductionEngine(txRunner TxRunner, cache CacheInvalidator, tracer trace.Tracer, log *logger.Logger, maxAttempts int) *BulkDeductionEngine {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &BulkDeductionEngine{
		txRunner:    txRunner,
		cache:       cache,
		tracer:      tracer,
		log:         log.Component("bulk_deduction"),
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// Deduct aplica el lote y devuelve los productos descontados.
//
// Un registro ausente aborta el lote de inmediato (SourceInventoryNotFound). Un ítem sin
// stock suficiente no se aplica y se acumula; al final se devuelve un *domain.InsufficientStockError
// con todos los faltantes.
func (e *BulkDeductionEngine) Deduct(ctx context.Context, req SalesRequest) ([]int64, error) {
	if err := checkSales(req); err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "inventory.DeductSales", trace.WithAttributes(
		attribute.Int64("business_entity.id", req.BusinessEntityID),
		attribute.Int("sales.items", len(req.Items)),
	))
	defer span.End()

	var (
		applied    []int64
		shortfalls []domain.StockShortfall
	)
	defer func() {
		if len(applied) > 0 {
			invalidate(ctx, e.cache, e.log, NamespaceInventory)
		}
	}()

	for _, item := range req.Items {
		shortfall, err := e.deductItem(ctx, req.BusinessEntityID, item)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, domain.KindOf(err).String())
			if len(applied) > 0 {
				e.log.Warn().Err(err).Int64("business_entity_id", req.BusinessEntityID).
					Ints64("applied", applied).Msg("lote de ventas abortado con ítems ya aplicados")
				return applied, &domain.PartialApplyError{Applied: applied, Err: err}
			}
			return nil, err
		}
		if shortfall != nil {
			shortfalls = append(shortfalls, *shortfall)
			continue
		}
		applied = append(applied, item.ProductID)
	}

	if len(shortfalls) > 0 {
		err := &domain.InsufficientStockError{Shortfalls: shortfalls, Applied: applied, Partial: len(applied) > 0}
		span.SetStatus(codes.Error, domain.KindInsufficientStock.String())
		if err.Partial {
			e.log.Warn().Err(err).Int64("business_entity_id", req.BusinessEntityID).
				Ints64("applied", applied).Msg("lote de ventas aplicado parcialmente")
		}
		return applied, err
	}
	return applied, nil
}

// deductItem aplica un ítem; devuelve un faltante (sin mutación) si no alcanza el stock.
func (e *BulkDeductionEngine) deductItem(ctx context.Context, entityID int64, item SalesItem) (*domain.StockShortfall, error) {
	var (
		shortfall *domain.StockShortfall
		err       error
	)
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		shortfall = nil
		err = e.txRunner.Run(ctx, func(ledger repository.InventoryRepository, _ repository.InventoryTransactionRepository) error {
			record, err := ledger.GetForUpdate(ctx, item.ProductID, entityID)
			if err != nil {
				return fmt.Errorf("leer inventario: %w", err)
			}
			if record == nil {
				return domain.NotFound(domain.CodeSourceInventoryNotFound,
					"no existe inventario del producto %d en la entidad %d", item.ProductID, entityID)
			}
			if !inv.CanDeduct(record, item.Quantity) {
				shortfall = &domain.StockShortfall{
					ProductID: item.ProductID,
					EntityID:  entityID,
					Available: record.Quantity,
					Requested: item.Quantity,
				}
				return nil
			}
			inv.DeductAtAverage(record, item.Quantity)
			record.UpdatedAt = e.now()
			if err := ledger.Update(ctx, record); err != nil {
				return fmt.Errorf("actualizar inventario: %w", err)
			}
			return nil
		})
		if domain.KindOf(err) != domain.KindConcurrencyConflict || attempt == e.maxAttempts {
			break
		}
		e.log.Warn().Err(err).Int("attempt", attempt).Int64("product_id", item.ProductID).
			Msg("conflicto de concurrencia, reintentando ítem de venta")
	}
	if err != nil {
		return nil, err
	}
	return shortfall, nil
}

func checkSales(req SalesRequest) error {
	if req.BusinessEntityID < 1 {
		return domain.Validation(domain.CodeInvalidRequest, "business_entity_id es requerido")
	}
	if len(req.Items) == 0 {
		return domain.Validation(domain.CodeInvalidRequest, "el lote de ventas no puede estar vacío")
	}
	for _, it := range req.Items {
		if it.ProductID < 1 {
			return domain.Validation(domain.CodeInvalidRequest, "product_id es requerido")
		}
		if it.Quantity <= 0 {
			return domain.Validation(domain.CodeInvalidQuantity, "la cantidad del producto %d debe ser mayor a cero", it.ProductID)
		}
	}
	return nil
}
