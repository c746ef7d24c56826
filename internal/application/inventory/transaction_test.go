package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retailpulse-inventory/internal/application/inventory"
	"github.com/jhoicas/retailpulse-inventory/internal/domain"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
	"github.com/jhoicas/retailpulse-inventory/pkg/logger"
)

func seedTransaction(db *memDB, id string, qty int64) {
	db.txs = append(db.txs, &entity.InventoryTransaction{
		ID:               id,
		ProductID:        productID,
		Quantity:         qty,
		CostPricePerUnit: dec("5"),
		Source:           store,
		Destination:      warehouse,
		InsertedAt:       time.Now(),
	})
}

func ptr[T any](v T) *T { return &v }

func TestUpdateTransaction_SoloCamposInformados(t *testing.T) {
	db, cache := newMemDB(), newMemCache()
	db.seed(productID, store, 20, "100")
	seedTransaction(db, "tx-1", 10)
	uc := inventory.NewTransactionUseCase(&memTxRepo{db: db}, cache, logger.Nop())

	updated, err := uc.UpdateTransaction(context.Background(), "tx-1", inventory.TransactionPatch{
		Quantity:         ptr(int64(12)),
		CostPricePerUnit: ptr(decimal.Zero),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(12), updated.Quantity)
	assert.True(t, updated.CostPricePerUnit.IsZero())
	assert.Equal(t, store, updated.Source, "los campos no informados se conservan")
	assert.Equal(t, warehouse, updated.Destination)
	assert.Equal(t, int64(12), db.txs[0].Quantity)

	assertRecord(t, db.record(productID, store), 20, "100")
	assert.Equal(t, []string{inventory.NamespaceTransaction}, cache.invalidated)
}

func TestUpdateTransaction_Revalida(t *testing.T) {
	cases := []struct {
		name  string
		patch inventory.TransactionPatch
		code  string
	}{
		{"ruta igual", inventory.TransactionPatch{Destination: ptr(store)}, domain.CodeInvalidRoute},
		{"cantidad cero", inventory.TransactionPatch{Quantity: ptr(int64(0))}, domain.CodeInvalidQuantity},
		{"costo negativo", inventory.TransactionPatch{CostPricePerUnit: ptr(dec("-1"))}, domain.CodeInvalidCost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			db := newMemDB()
			seedTransaction(db, "tx-1", 10)
			uc := inventory.NewTransactionUseCase(&memTxRepo{db: db}, newMemCache(), logger.Nop())

			_, err := uc.UpdateTransaction(context.Background(), "tx-1", tc.patch)

			require.Error(t, err)
			assert.Equal(t, tc.code, domain.CodeOf(err))
			assert.Equal(t, int64(10), db.txs[0].Quantity)
			assert.Equal(t, warehouse, db.txs[0].Destination)
		})
	}
}

func TestUpdateTransaction_NoExiste(t *testing.T) {
	uc := inventory.NewTransactionUseCase(&memTxRepo{db: newMemDB()}, nil, logger.Nop())

	_, err := uc.UpdateTransaction(context.Background(), "nope", inventory.TransactionPatch{})

	require.Error(t, err)
	assert.Equal(t, domain.CodeTransactionNotFound, domain.CodeOf(err))
}

func TestGetTransaction(t *testing.T) {
	db := newMemDB()
	seedTransaction(db, "tx-1", 10)
	uc := inventory.NewTransactionUseCase(&memTxRepo{db: db}, newMemCache(), logger.Nop())

	got, err := uc.GetTransaction(context.Background(), "tx-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Quantity)

	_, err = uc.GetTransaction(context.Background(), "tx-2")
	assert.True(t, domain.KindOf(err) == domain.KindNotFound)
}

func TestListTransactions_MasRecientesPrimero(t *testing.T) {
	db := newMemDB()
	seedTransaction(db, "tx-1", 1)
	seedTransaction(db, "tx-2", 2)
	seedTransaction(db, "tx-3", 3)
	uc := inventory.NewTransactionUseCase(&memTxRepo{db: db}, newMemCache(), logger.Nop())

	list, err := uc.ListTransactions(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "tx-3", list[0].ID)
	assert.Equal(t, "tx-2", list[1].ID)

	withProduct, err := uc.ListTransactionsWithProduct(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Len(t, withProduct, 3)
	assert.Equal(t, productID, withProduct[0].Product.ID)
}
