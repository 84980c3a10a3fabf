// Package repository implements catalog collections over the key-value
// store. Every mutation is a full read-modify-write of one collection,
// serialized through a per-key mutex so concurrent writers cannot lose
// updates within this process.
package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/diewo77/go-pos/internal/errs"
	"github.com/diewo77/go-pos/internal/store"
	"go.uber.org/zap"
)

// Record constrains entity pointers: addressable id/timestamp access for
// the generic collection.
type Record[T any] interface {
	*T
	RecordID() string
	SetRecordID(id string)
	Stamp(now time.Time, isNew bool)
}

// Collection is a typed view over one storage key holding a JSON array.
// mu is the key's writer lock; collections bound inside a transaction get a
// no-op locker because Registry.WithTx already holds every key lock.
type Collection[T any, PT Record[T]] struct {
	store  store.Store
	key    string
	kind   string // entity name used in errors
	mu     sync.Locker
	node   *snowflake.Node
	onLoad func([]T)
}

// List loads the full collection. An absent key yields an empty slice; an
// undecodable payload is treated the same way with a logged diagnostic.
func (c *Collection[T, PT]) List(ctx context.Context) ([]T, error) {
	raw, ok, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []T{}, nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		zap.L().Warn("undecodable collection treated as absent",
			zap.String("key", c.key), zap.Error(err))
		return []T{}, nil
	}
	if items == nil {
		items = []T{}
	}
	if c.onLoad != nil {
		c.onLoad(items)
	}
	return items, nil
}

// Get returns the entity with the given id.
func (c *Collection[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	items, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if PT(&items[i]).RecordID() == id {
			return &items[i], nil
		}
	}
	return nil, errs.NotFound(c.kind, id)
}

// Add assigns a fresh time-ordered id, stamps creation, appends and
// persists the whole collection.
func (c *Collection[T, PT]) Add(ctx context.Context, item PT) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.List(ctx)
	if err != nil {
		return err
	}
	item.SetRecordID(c.node.Generate().String())
	item.Stamp(time.Now(), true)
	items = append(items, *item)
	return c.save(ctx, items)
}

// Update applies the patch to the matching entity in place and persists.
// Returns errs.ErrNotFound (wrapped) when the id is absent; a patch error
// aborts without writing.
func (c *Collection[T, PT]) Update(ctx context.Context, id string, apply func(PT) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.List(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		p := PT(&items[i])
		if p.RecordID() != id {
			continue
		}
		if err := apply(p); err != nil {
			return err
		}
		p.Stamp(time.Now(), false)
		return c.save(ctx, items)
	}
	return errs.NotFound(c.kind, id)
}

// Delete removes the matching entity and persists.
func (c *Collection[T, PT]) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	items, err := c.List(ctx)
	if err != nil {
		return err
	}
	for i := range items {
		if PT(&items[i]).RecordID() == id {
			items = append(items[:i], items[i+1:]...)
			return c.save(ctx, items)
		}
	}
	return errs.NotFound(c.kind, id)
}

// ReplaceAll overwrites the collection wholesale (seeding).
func (c *Collection[T, PT]) ReplaceAll(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, items)
}

func (c *Collection[T, PT]) save(ctx context.Context, items []T) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return &errs.StorageError{Op: "set", Key: c.key, Err: err}
	}
	return c.store.Set(ctx, c.key, raw)
}
