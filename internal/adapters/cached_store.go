package adapters

import (
	"context"
	"log/slog"
	"sync"

	"expenso/internal/cache"
	"expenso/internal/core"
	"expenso/internal/store"
)

const snapshotKey = "transactions"

// CachedStore adapts a store.Store so that repeated List calls, which every
// dashboard and insights request makes, share one snapshot until the TTL
// expires or a write invalidates it.
type CachedStore struct {
	store.Store
	snapshots cache.Cache[[]core.Transaction]

	// mu orders snapshot fills against invalidations. generation counts
	// writes; a List only stores its snapshot if no write happened while
	// it was reading the backend.
	mu         sync.Mutex
	generation uint64
}

var _ store.Store = (*CachedStore)(nil)

func NewCachedStore(s store.Store, snapshots cache.Cache[[]core.Transaction]) *CachedStore {
	return &CachedStore{Store: s, snapshots: snapshots}
}

// List returns a copy of the cached snapshot, loading it on a miss.
func (c *CachedStore) List(ctx context.Context) ([]core.Transaction, error) {
	if txs, ok := c.snapshots.Get(snapshotKey); ok {
		slog.DebugContext(ctx, "Transaction snapshot served from cache", "count", len(txs))
		return append([]core.Transaction(nil), txs...), nil
	}

	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	txs, err := c.Store.List(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	if c.generation == gen {
		c.snapshots.Set(snapshotKey, append([]core.Transaction(nil), txs...))
	} else {
		slog.DebugContext(ctx, "Discarding transaction snapshot read during a write")
	}
	c.mu.Unlock()
	return txs, nil
}

func (c *CachedStore) Create(ctx context.Context, in core.TransactionInput) (core.Transaction, error) {
	tx, err := c.Store.Create(ctx, in)
	if err == nil {
		c.invalidate()
	}
	return tx, err
}

// Delete invalidates the snapshot even on failure since the backend state is
// then unknown.
func (c *CachedStore) Delete(ctx context.Context, id string) error {
	defer c.invalidate()
	return c.Store.Delete(ctx, id)
}

func (c *CachedStore) invalidate() {
	c.mu.Lock()
	c.generation++
	c.snapshots.Delete(snapshotKey)
	c.mu.Unlock()
}

// Unwrap returns the decorated store.
func (c *CachedStore) Unwrap() store.Store {
	return c.Store
}
