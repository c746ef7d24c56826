package inventory_test

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/jhoicas/retailpulse-inventory/internal/application/inventory"
	"github.com/jhoicas/retailpulse-inventory/internal/domain"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/entity"
	"github.com/jhoicas/retailpulse-inventory/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Base de datos en memoria con semántica de transacción (Commit/Rollback)
// ──────────────────────────────────────────────────────────────────────────────

type ledgerKey struct{ product, entity int64 }

type memDB struct {
	mu      sync.Mutex
	records map[ledgerKey]*entity.Inventory
	txs     []*entity.InventoryTransaction
	nextID  int64

	// touched cuenta accesos por clave (lecturas y escrituras).
	touched map[ledgerKey]int
	// getErr fuerza un error al leer la clave.
	getErr map[ledgerKey]error
	// createErrs se consumen en orden en cada Create de inventario.
	createErrs []error
	commits    int
	rollbacks  int
}

var _ inventory.TxRunner = (*memDB)(nil)
var _ repository.InventoryRepository = (*memLedger)(nil)
var _ repository.InventoryTransactionRepository = (*memTxRepo)(nil)

func newMemDB() *memDB {
	return &memDB{
		records: map[ledgerKey]*entity.Inventory{},
		touched: map[ledgerKey]int{},
		getErr:  map[ledgerKey]error{},
	}
}

func (db *memDB) seed(productID, entityID, qty int64, cost string) {
	db.nextID++
	db.records[ledgerKey{productID, entityID}] = &entity.Inventory{
		ID:               db.nextID,
		ProductID:        productID,
		BusinessEntityID: entityID,
		Quantity:         qty,
		TotalCostPrice:   decimal.RequireFromString(cost),
	}
}

func (db *memDB) record(productID, entityID int64) *entity.Inventory {
	r, ok := db.records[ledgerKey{productID, entityID}]
	if !ok {
		return nil
	}
	return r.Clone()
}

func (db *memDB) Run(ctx context.Context, fn func(repository.InventoryRepository, repository.InventoryTransactionRepository) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	snapshot := make(map[ledgerKey]*entity.Inventory, len(db.records))
	for k, v := range db.records {
		snapshot[k] = v.Clone()
	}
	txs := append([]*entity.InventoryTransaction(nil), db.txs...)
	nextID := db.nextID

	if err := fn(&memLedger{db: db}, &memTxRepo{db: db}); err != nil {
		db.records, db.txs, db.nextID = snapshot, txs, nextID
		db.rollbacks++
		return err
	}
	db.commits++
	return nil
}

type memLedger struct{ db *memDB }

func (l *memLedger) Get(_ context.Context, productID, entityID int64) (*entity.Inventory, error) {
	k := ledgerKey{productID, entityID}
	l.db.touched[k]++
	if err := l.db.getErr[k]; err != nil {
		return nil, err
	}
	return l.db.record(productID, entityID), nil
}

func (l *memLedger) GetForUpdate(ctx context.Context, productID, entityID int64) (*entity.Inventory, error) {
	return l.Get(ctx, productID, entityID)
}

func (l *memLedger) GetByID(_ context.Context, id int64) (*entity.Inventory, error) {
	for _, r := range l.db.records {
		if r.ID == id {
			return r.Clone(), nil
		}
	}
	return nil, nil
}

func (l *memLedger) Create(_ context.Context, inv *entity.Inventory) error {
	k := ledgerKey{inv.ProductID, inv.BusinessEntityID}
	l.db.touched[k]++
	if len(l.db.createErrs) > 0 {
		err := l.db.createErrs[0]
		l.db.createErrs = l.db.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := l.db.records[k]; ok {
		return domain.ConcurrencyConflict(errors.New("duplicate key"))
	}
	l.db.nextID++
	inv.ID = l.db.nextID
	l.db.records[k] = inv.Clone()
	return nil
}

func (l *memLedger) Update(_ context.Context, inv *entity.Inventory) error {
	k := ledgerKey{inv.ProductID, inv.BusinessEntityID}
	l.db.touched[k]++
	l.db.records[k] = inv.Clone()
	return nil
}

func (l *memLedger) ListAll(context.Context) ([]*entity.Inventory, error) {
	return l.filter(func(*entity.Inventory) bool { return true }), nil
}

func (l *memLedger) ListByProduct(_ context.Context, productID int64) ([]*entity.Inventory, error) {
	return l.filter(func(r *entity.Inventory) bool { return r.ProductID == productID }), nil
}

func (l *memLedger) ListByBusinessEntity(_ context.Context, entityID int64) ([]*entity.Inventory, error) {
	return l.filter(func(r *entity.Inventory) bool { return r.BusinessEntityID == entityID }), nil
}

func (l *memLedger) filter(keep func(*entity.Inventory) bool) []*entity.Inventory {
	var out []*entity.Inventory
	for _, r := range l.db.records {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type memTxRepo struct{ db *memDB }

func (r *memTxRepo) Create(_ context.Context, t *entity.InventoryTransaction) error {
	c := *t
	r.db.txs = append(r.db.txs, &c)
	return nil
}

func (r *memTxRepo) GetByID(_ context.Context, id string) (*entity.InventoryTransaction, error) {
	for _, t := range r.db.txs {
		if t.ID == id {
			c := *t
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memTxRepo) Update(_ context.Context, t *entity.InventoryTransaction) error {
	for i, cur := range r.db.txs {
		if cur.ID == t.ID {
			c := *t
			r.db.txs[i] = &c
			return nil
		}
	}
	return errors.New("not found")
}

func (r *memTxRepo) List(_ context.Context, limit, offset int) ([]*entity.InventoryTransaction, error) {
	var out []*entity.InventoryTransaction
	for i := len(r.db.txs) - 1; i >= 0; i-- {
		c := *r.db.txs[i]
		out = append(out, &c)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memTxRepo) ListWithProduct(ctx context.Context, limit, offset int) ([]*entity.InventoryTransactionWithProduct, error) {
	list, _ := r.List(ctx, limit, offset)
	out := make([]*entity.InventoryTransactionWithProduct, 0, len(list))
	for _, t := range list {
		out = append(out, &entity.InventoryTransactionWithProduct{Transaction: *t, Product: entity.Product{ID: t.ProductID}})
	}
	return out, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Colaboradores
// ──────────────────────────────────────────────────────────────────────────────

type productStub map[int64]*entity.Product

func (p productStub) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	return p[id], nil
}

type classifierMock struct{ mock.Mock }

func (m *classifierMock) IsExternal(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *classifierMock) IsValidBusinessEntity(ctx context.Context, id int64) bool {
	return m.Called(ctx, id).Bool(0)
}

// memCache caché de vistas en memoria que registra las invalidaciones.
type memCache struct {
	entries     map[string][]byte
	invalidated []string
	failWith    error
}

func newMemCache() *memCache { return &memCache{entries: map[string][]byte{}} }

func (c *memCache) Get(_ context.Context, ns, key string, dst any) (bool, error) {
	raw, ok := c.entries[ns+"::"+key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) Set(_ context.Context, ns, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.entries[ns+"::"+key] = raw
	return nil
}

func (c *memCache) InvalidateAll(_ context.Context, ns string) error {
	c.invalidated = append(c.invalidated, ns)
	if c.failWith != nil {
		return c.failWith
	}
	for k := range c.entries {
		if len(k) > len(ns)+2 && k[:len(ns)+2] == ns+"::" {
			delete(c.entries, k)
		}
	}
	return nil
}

type eventRecorder struct {
	published []*entity.InventoryTransaction
}

func (e *eventRecorder) PublishMovementApplied(_ context.Context, t *entity.InventoryTransaction) error {
	e.published = append(e.published, t)
	return nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }
