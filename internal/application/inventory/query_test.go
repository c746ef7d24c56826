package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retailpulse-inventory/internal/application/inventory"
	"github.com/jhoicas/retailpulse-inventory/internal/domain"
	"github.com/jhoicas/retailpulse-inventory/pkg/logger"
)

func newQueries(db *memDB, cache inventory.ViewCache, classifier *classifierMock) *inventory.InventoryQueryUseCase {
	return inventory.NewInventoryQueryUseCase(&memLedger{db: db}, classifier, cache, logger.Nop())
}

func TestGetInventoryByID(t *testing.T) {
	db := newMemDB()
	db.seed(productID, store, 20, "100")
	q := newQueries(db, newMemCache(), &classifierMock{})

	rec, err := q.GetInventoryByID(context.Background(), 1)
	require.NoError(t, err)
	assertRecord(t, rec, 20, "100")

	_, err = q.GetInventoryByID(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, domain.CodeInventoryNotFound, domain.CodeOf(err))
}

func TestListInventory_UsaCacheHastaInvalidar(t *testing.T) {
	db, cache := newMemDB(), newMemCache()
	db.seed(productID, store, 20, "100")
	q := newQueries(db, cache, &classifierMock{})

	first, err := q.ListInventory(context.Background())
	require.NoError(t, err)
	require.Len(t, first, 1)

	db.seed(2, store, 1, "1")
	cachedList, err := q.ListInventory(context.Background())
	require.NoError(t, err)
	assert.Len(t, cachedList, 1, "la segunda lectura sale del caché")

	require.NoError(t, cache.InvalidateAll(context.Background(), inventory.NamespaceInventory))
	fresh, err := q.ListInventory(context.Background())
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestGetInventoryByProductAndBusinessEntity_NoCacheaAusentes(t *testing.T) {
	db, cache := newMemDB(), newMemCache()
	classifier := &classifierMock{}
	classifier.On("IsValidBusinessEntity", mock.Anything, store).Return(true)
	q := newQueries(db, cache, classifier)

	_, err := q.GetInventoryByProductAndBusinessEntity(context.Background(), productID, store)
	require.Error(t, err)
	assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	assert.Equal(t, domain.CodeInventoryByKeyNotFound, domain.CodeOf(err))
	assert.Empty(t, cache.entries)

	db.seed(productID, store, 4, "8")
	rec, err := q.GetInventoryByProductAndBusinessEntity(context.Background(), productID, store)
	require.NoError(t, err)
	assertRecord(t, rec, 4, "8")
}

func TestListInventoryByBusinessEntity_EntidadNoValida(t *testing.T) {
	classifier := &classifierMock{}
	classifier.On("IsValidBusinessEntity", mock.Anything, store).Return(false)
	q := newQueries(newMemDB(), newMemCache(), classifier)

	_, err := q.ListInventoryByBusinessEntity(context.Background(), store)
	require.Error(t, err)
	assert.Equal(t, domain.KindValidation, domain.KindOf(err))
	assert.Equal(t, domain.CodeInvalidBusinessEntity, domain.CodeOf(err))

	_, err = q.GetInventoryByProductAndBusinessEntity(context.Background(), productID, store)
	assert.Equal(t, domain.CodeInvalidBusinessEntity, domain.CodeOf(err))
}

func TestListInventoryByBusinessEntity(t *testing.T) {
	db := newMemDB()
	db.seed(1, store, 1, "1")
	db.seed(2, store, 2, "2")
	db.seed(1, warehouse, 3, "3")
	classifier := &classifierMock{}
	classifier.On("IsValidBusinessEntity", mock.Anything, store).Return(true)

	list, err := newQueries(db, nil, classifier).ListInventoryByBusinessEntity(context.Background(), store)

	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestInventoryContainsProduct(t *testing.T) {
	db := newMemDB()
	db.seed(productID, warehouse, 0, "0")
	q := newQueries(db, newMemCache(), &classifierMock{})

	ok, err := q.InventoryContainsProduct(context.Background(), productID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = q.InventoryContainsProduct(context.Background(), 77)
	require.NoError(t, err)
	assert.False(t, ok)
}
