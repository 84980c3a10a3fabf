package repository

import (
	"context"
	"errors"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/diewo77/go-pos/internal/models"
	"github.com/diewo77/go-pos/internal/store"
)

// ErrNoTransactions is returned by WithTx when the backing store has no
// transactional capability.
var ErrNoTransactions = errors.New("store does not support transactions")

// Registry bundles all collections over one store. Collections bound to the
// same key share a mutex even across transaction rebinds, so the
// single-writer-per-key rule holds process-wide.
type Registry struct {
	Store      store.Store
	Products   *Collection[models.Product, *models.Product]
	Customers  *Collection[models.Customer, *models.Customer]
	Categories *Collection[models.Category, *models.Category]
	Sales      *SalesLog
	Users      *Collection[models.User, *models.User]

	node  *snowflake.Node
	locks map[string]*sync.Mutex
}

// New builds the registry. The snowflake node yields string ids that are
// unique within the process and monotonically increasing in creation order,
// preserving the recency sorts the listings rely on.
func New(st store.Store) (*Registry, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	r := &Registry{Store: st, node: node, locks: map[string]*sync.Mutex{}}
	r.bind(st, func(key string) sync.Locker { return r.lock(key) })
	return r, nil
}

// collectionKeys is the fixed lock acquisition order for WithTx.
var collectionKeys = []string{
	store.KeyProducts,
	store.KeyCustomers,
	store.KeyCategories,
	store.KeySales,
	store.KeyUsers,
}

func (r *Registry) lock(key string) *sync.Mutex {
	if m, ok := r.locks[key]; ok {
		return m
	}
	m := &sync.Mutex{}
	r.locks[key] = m
	return m
}

// noLock satisfies sync.Locker for collections whose key locks are already
// held by the enclosing transaction.
type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

func (r *Registry) bind(st store.Store, lock func(key string) sync.Locker) {
	r.Products = &Collection[models.Product, *models.Product]{
		store: st, key: store.KeyProducts, kind: "product",
		mu: lock(store.KeyProducts), node: r.node,
	}
	r.Customers = &Collection[models.Customer, *models.Customer]{
		store: st, key: store.KeyCustomers, kind: "customer",
		mu: lock(store.KeyCustomers), node: r.node,
	}
	r.Categories = &Collection[models.Category, *models.Category]{
		store: st, key: store.KeyCategories, kind: "category",
		mu: lock(store.KeyCategories), node: r.node,
	}
	r.Sales = &SalesLog{c: &Collection[models.Sale, *models.Sale]{
		store: st, key: store.KeySales, kind: "sale",
		mu: lock(store.KeySales), node: r.node,
		onLoad: models.NormalizeSales,
	}}
	r.Users = &Collection[models.User, *models.User]{
		store: st, key: store.KeyUsers, kind: "user",
		mu: lock(store.KeyUsers), node: r.node,
	}
}

// WithTx runs fn against a registry bound to a store transaction. All
// writes inside fn commit or roll back together. ErrNoTransactions when the
// backend cannot provide that.
//
// Every per-key mutex is taken, in collectionKeys order, before the store
// transaction opens. The lock order per-key-mutex then store-write-lock is
// therefore the same as in a plain mutation, which rules out a deadlock
// against backends with a single writer (bbolt). The tx-bound collections
// use no-op lockers since their keys are already held.
func (r *Registry) WithTx(ctx context.Context, fn func(tx *Registry) error) error {
	tr, ok := r.Store.(store.Transactor)
	if !ok {
		return ErrNoTransactions
	}
	for _, key := range collectionKeys {
		r.lock(key).Lock()
	}
	defer func() {
		for i := len(collectionKeys) - 1; i >= 0; i-- {
			r.lock(collectionKeys[i]).Unlock()
		}
	}()
	return tr.WithTx(ctx, func(txStore store.Store) error {
		txReg := &Registry{Store: txStore, node: r.node, locks: r.locks}
		txReg.bind(txStore, func(string) sync.Locker { return noLock{} })
		return fn(txReg)
	})
}
