package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/retailpulse-inventory/internal/domain"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
	inv "github.com/jhoicas/retailpulse-inventory/internal/domain/inventory"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/repository"
	"github.com/jhoicas/retailpulse-inventory/pkg/logger"
)

// MovementApplier aplica un movimiento validado al libro de inventario y persiste la transacción.
// Origen y destino se ajustan en una única transacción de BD con bloqueo de fila
// (SELECT FOR UPDATE); la invalidación de caché y el evento se emiten solo tras el Commit.
type MovementApplier struct {
	gate        *ValidationGate
	txRunner    TxRunner
	classifier  EntityClassifier
	cache       CacheInvalidator
	events      EventPublisher
	tracer      trace.Tracer
	log         *logger.Logger
	maxAttempts int

	now   func() time.Time
	newID func() string
}

// NewMovementApplier construye el orquestador. maxAttempts < 1 se toma como 1.
func NewMovementApplier(
	gate *ValidationGate,
	txRunner TxRunner,
	classifier EntityClassifier,
	cache CacheInvalidator,
	events EventPublisher,
	tracer trace.Tracer,
	log *logger.Logger,
	maxAttempts int,
) *MovementApplier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &MovementApplier{
		gate:        gate,
		txRunner:    txRunner,
		classifier:  classifier,
		cache:       cache,
		events:      events,
		tracer:      tracer,
		log:         log.Component("movement_applier"),
		maxAttempts: maxAttempts,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Apply valida y aplica el movimiento. No es idempotente: dos solicitudes iguales producen
// dos transacciones y el doble de efecto.
func (a *MovementApplier) Apply(ctx context.Context, req MovementRequest) (*entity.InventoryTransaction, error) {
	ctx, span := a.tracer.Start(ctx, "inventory.ApplyMovement", trace.WithAttributes(
		attribute.Int64("product.id", req.ProductID),
		attribute.Int64("movement.source", req.Source),
		attribute.Int64("movement.destination", req.Destination),
		attribute.Int64("movement.quantity", req.Quantity),
	))
	defer span.End()

	if err := a.gate.Check(ctx, req); err != nil {
		span.SetStatus(codes.Error, "validation")
		return nil, err
	}

	var (
		created *entity.InventoryTransaction
		err     error
	)
	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		created, err = a.applyOnce(ctx, req)
		if domain.KindOf(err) != domain.KindConcurrencyConflict || attempt == a.maxAttempts {
			break
		}
		a.log.Warn().Err(err).Int("attempt", attempt).Int64("product_id", req.ProductID).
			Msg("conflicto de concurrencia, reintentando movimiento")
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, domain.KindOf(err).String())
		a.logFailure(req, err)
		return nil, err
	}

	span.SetAttributes(attribute.String("movement.id", created.ID))
	a.afterCommit(ctx, created)
	return created, nil
}

func (a *MovementApplier) applyOnce(ctx context.Context, req MovementRequest) (*entity.InventoryTransaction, error) {
	var created *entity.InventoryTransaction
	err := a.txRunner.Run(ctx, func(
		ledger repository.InventoryRepository,
		txRepo repository.InventoryTransactionRepository,
	) error {
		sourceExternal, err := a.isExternal(ctx, req.Source)
		if err != nil {
			return err
		}
		if !sourceExternal {
			if err := deductSource(ctx, ledger, req, a.now()); err != nil {
				return err
			}
		}

		// Un fallo aquí revierte el descuento del origen junto con la transacción de BD.
		destinationExternal, err := a.isExternal(ctx, req.Destination)
		if err != nil {
			return err
		}
		if !destinationExternal {
			if err := creditDestination(ctx, ledger, req, a.now()); err != nil {
				return err
			}
		}

		t := &entity.InventoryTransaction{
			ID:               a.newID(),
			ProductID:        req.ProductID,
			Quantity:         req.Quantity,
			CostPricePerUnit: req.CostPricePerUnit,
			Source:           req.Source,
			Destination:      req.Destination,
			InsertedAt:       a.now(),
		}
		if err := txRepo.Create(ctx, t); err != nil {
			return fmt.Errorf("guardar transacción de inventario: %w", err)
		}
		created = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (a *MovementApplier) isExternal(ctx context.Context, id int64) (bool, error) {
	external, err := a.classifier.IsExternal(ctx, id)
	if err != nil {
		if domain.KindOf(err) != domain.KindExternalLookup {
			err = domain.ExternalLookup(id, err)
		}
		return false, err
	}
	return external, nil
}

func deductSource(ctx context.Context, ledger repository.InventoryRepository, req MovementRequest, now time.Time) error {
	record, err := ledger.GetForUpdate(ctx, req.ProductID, req.Source)
	if err != nil {
		return fmt.Errorf("leer inventario origen: %w", err)
	}
	if record == nil {
		return domain.NotFound(domain.CodeSourceInventoryNotFound,
			"no existe inventario del producto %d en la entidad origen %d", req.ProductID, req.Source)
	}
	if !inv.CanDeduct(record, req.Quantity) {
		return &domain.InsufficientStockError{Shortfalls: []domain.StockShortfall{{
			ProductID: req.ProductID,
			EntityID:  req.Source,
			Available: record.Quantity,
			Requested: req.Quantity,
		}}}
	}
	inv.Deduct(record, req.Quantity, req.CostPricePerUnit)
	record.UpdatedAt = now
	if err := ledger.Update(ctx, record); err != nil {
		return fmt.Errorf("actualizar inventario origen: %w", err)
	}
	return nil
}

func creditDestination(ctx context.Context, ledger repository.InventoryRepository, req MovementRequest, now time.Time) error {
	record, err := ledger.GetForUpdate(ctx, req.ProductID, req.Destination)
	if err != nil {
		// Un bloqueo mutuo sigue siendo un conflicto reintentable; cualquier otro fallo deja el destino indeterminado.
		if domain.KindOf(err) == domain.KindConcurrencyConflict {
			return err
		}
		return domain.AmbiguousDestination(req.ProductID, req.Destination, err)
	}
	if record == nil {
		record = inv.NewRecord(req.ProductID, req.Destination, req.Quantity, req.CostPricePerUnit)
		record.UpdatedAt = now
		if err := ledger.Create(ctx, record); err != nil {
			return fmt.Errorf("crear inventario destino: %w", err)
		}
		return nil
	}
	inv.Add(record, req.Quantity, req.CostPricePerUnit)
	record.UpdatedAt = now
	if err := ledger.Update(ctx, record); err != nil {
		return fmt.Errorf("actualizar inventario destino: %w", err)
	}
	return nil
}

// afterCommit invalida el caché y publica el evento; los fallos solo se registran.
func (a *MovementApplier) afterCommit(ctx context.Context, t *entity.InventoryTransaction) {
	invalidate(ctx, a.cache, a.log, NamespaceInventory, NamespaceTransaction)
	if a.events == nil {
		return
	}
	if err := a.events.PublishMovementApplied(ctx, t); err != nil {
		a.log.Warn().Err(err).Str("transaction_id", t.ID).Msg("no se pudo publicar el evento de movimiento")
	}
}

func (a *MovementApplier) logFailure(req MovementRequest, err error) {
	ev := a.log.Warn()
	switch domain.KindOf(err) {
	case domain.KindExternalLookup, domain.KindAmbiguousState, domain.KindUnknown:
		ev = a.log.Error()
	}
	ev.Err(err).
		Str("code", domain.CodeOf(err)).
		Int64("product_id", req.ProductID).
		Int64("source", req.Source).
		Int64("destination", req.Destination).
		Int64("quantity", req.Quantity).
		Msg("movimiento rechazado")
}

// invalidate descarta los namespaces indicados; un fallo se registra en Warn y no se propaga.
func invalidate(ctx context.Context, cache CacheInvalidator, log *logger.Logger, namespaces ...string) {
	if cache == nil {
		return
	}
	for _, ns := range namespaces {
		if err := cache.InvalidateAll(ctx, ns); err != nil {
			log.Warn().Err(err).Str("namespace", ns).Msg("no se pudo invalidar el caché")
		}
	}
}
