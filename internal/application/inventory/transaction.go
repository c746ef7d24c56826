package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retailpulse-inventory/internal/domain"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/repository"
	"github.com/jhoicas/retailpulse-inventory/pkg/logger"
)

// TransactionPatch corrección administrativa; los campos nil no se modifican.
type TransactionPatch struct {
	ProductID        *int64
	Quantity         *int64
	CostPricePerUnit *decimal.Decimal
	Source           *int64
	Destination      *int64
}

// TransactionUseCase lecturas y corrección administrativa de transacciones de inventario.
// La corrección nunca reaplica efectos sobre el libro.
type TransactionUseCase struct {
	txRepo repository.InventoryTransactionRepository
	cache  TransactionCache
	log    *logger.Logger
}

// TransactionCache caché con lectura e invalidación (el adaptador Redis cumple ambas).
type TransactionCache interface {
	ViewCache
	CacheInvalidator
}

// NewTransactionUseCase construye el caso de uso. cache puede ser nil.
func NewTransactionUseCase(txRepo repository.InventoryTransactionRepository, cache TransactionCache, log *logger.Logger) *TransactionUseCase {
	return &TransactionUseCase{txRepo: txRepo, cache: cache, log: log.Component("inventory_transaction")}
}

// ListTransactions transacciones paginadas, más recientes primero.
func (uc *TransactionUseCase) ListTransactions(ctx context.Context, limit, offset int) ([]*entity.InventoryTransaction, error) {
	limit, offset = pageBounds(limit, offset)
	return cached(ctx, uc.cache, uc.log, NamespaceTransaction, fmt.Sprintf("list:%d:%d", limit, offset),
		func() ([]*entity.InventoryTransaction, bool, error) {
			list, err := uc.txRepo.List(ctx, limit, offset)
			return list, err == nil, err
		})
}

// ListTransactionsWithProduct transacciones junto a los datos del producto.
func (uc *TransactionUseCase) ListTransactionsWithProduct(ctx context.Context, limit, offset int) ([]*entity.InventoryTransactionWithProduct, error) {
	limit, offset = pageBounds(limit, offset)
	return cached(ctx, uc.cache, uc.log, NamespaceTransaction, fmt.Sprintf("withProduct:%d:%d", limit, offset),
		func() ([]*entity.InventoryTransactionWithProduct, bool, error) {
			list, err := uc.txRepo.ListWithProduct(ctx, limit, offset)
			return list, err == nil, err
		})
}

// GetTransaction transacción por id; NotFound si no existe.
func (uc *TransactionUseCase) GetTransaction(ctx context.Context, id string) (*entity.InventoryTransaction, error) {
	out, err := cached(ctx, uc.cache, uc.log, NamespaceTransaction, "id:"+id, func() (*entity.InventoryTransaction, bool, error) {
		t, err := uc.txRepo.GetByID(ctx, id)
		return t, t != nil, err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, domain.NotFound(domain.CodeTransactionNotFound, "transacción de inventario %s no encontrada", id)
	}
	return out, nil
}

// UpdateTransaction aplica la corrección y revalida ruta, cantidad y costo. No toca el inventario.
func (uc *TransactionUseCase) UpdateTransaction(ctx context.Context, id string, patch TransactionPatch) (*entity.InventoryTransaction, error) {
	t, err := uc.txRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("consultar transacción %s: %w", id, err)
	}
	if t == nil {
		return nil, domain.NotFound(domain.CodeTransactionNotFound, "transacción de inventario %s no encontrada", id)
	}

	if patch.ProductID != nil {
		t.ProductID = *patch.ProductID
	}
	if patch.Quantity != nil {
		t.Quantity = *patch.Quantity
	}
	if patch.CostPricePerUnit != nil {
		t.CostPricePerUnit = *patch.CostPricePerUnit
	}
	if patch.Source != nil {
		t.Source = *patch.Source
	}
	if patch.Destination != nil {
		t.Destination = *patch.Destination
	}
	if err := checkShape(t.Source, t.Destination, t.Quantity, t.CostPricePerUnit); err != nil {
		return nil, err
	}

	if err := uc.txRepo.Update(ctx, t); err != nil {
		return nil, fmt.Errorf("actualizar transacción %s: %w", id, err)
	}
	invalidate(ctx, uc.cache, uc.log, NamespaceTransaction)
	uc.log.Info().Str("transaction_id", id).Msg("transacción de inventario corregida")
	return t, nil
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 100
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
