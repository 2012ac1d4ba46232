// Package state owns the in-memory product collection shared by the views.
// Three writers go through it: the optimistic update of a stock mutation,
// the rollback of a failed mutation, and the realtime reconciliation feed.
// All of them are funneled through explicit entry points; nothing mutates
// the collection from the outside.
package state

import (
	"errors"
	"sort"
	"sync"

	"github.com/emreacar/kafepos/internal/domain/models"
)

// Stock at or below this count (but above zero) is flagged critical on the
// panel dashboard.
const criticalStockThreshold = 5

// ErrProductNotFound is returned when a mutation targets an unknown id.
var ErrProductNotFound = errors.New("product not found")

// Collection is the owned, identifier-indexed product set.
type Collection struct {
	mu    sync.RWMutex
	items []models.Product
	index map[int64]int
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{index: make(map[int64]int)}
}

// Replace loads a freshly fetched row set wholesale.
func (c *Collection) Replace(products []models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make([]models.Product, len(products))
	copy(c.items, products)
	c.reindex()
}

// Snapshot returns a value copy of the whole collection. Rollback restores
// the full snapshot rather than patching single fields, so concurrent
// partial writes cannot compound.
func (c *Collection) Snapshot() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := make([]models.Product, len(c.items))
	copy(snapshot, c.items)
	return snapshot
}

// Restore rolls the collection back to a previously taken snapshot.
func (c *Collection) Restore(snapshot []models.Product) {
	c.Replace(snapshot)
}

// ApplyDelta adds the signed delta to the product's displayed stock. This is
// the optimistic write only; the durable value is owned by the backend.
func (c *Collection) ApplyDelta(productID int64, delta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[productID]
	if !ok {
		return ErrProductNotFound
	}
	c.items[i].Stock += delta
	return nil
}

// Upsert replaces the matching row wholesale with the notified version, or
// appends it when unseen. Replacement is keyed by identifier and idempotent;
// a later notification always wins over an earlier one (arrival-order
// last-write-wins).
func (c *Collection) Upsert(p models.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i, ok := c.index[p.ID]; ok {
		c.items[i] = p
		return
	}
	c.items = append(c.items, p)
	c.index[p.ID] = len(c.items) - 1
}

// All returns a value copy of every product.
func (c *Collection) All() []models.Product {
	return c.Snapshot()
}

// Active returns a value copy of the active products only.
func (c *Collection) Active() []models.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Product, 0, len(c.items))
	for _, p := range c.items {
		if p.Active {
			out = append(out, p)
		}
	}
	return out
}

// Get returns the product with the given id.
func (c *Collection) Get(productID int64) (models.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[productID]
	if !ok {
		return models.Product{}, false
	}
	return c.items[i], true
}

// Categories lists the distinct category labels in sorted order.
func (c *Collection) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, p := range c.items {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

// Summary holds the panel dashboard counters.
type Summary struct {
	TotalProducts int `json:"total_products"`
	CriticalStock int `json:"critical_stock"`
	OutOfStock    int `json:"out_of_stock"`
}

// Summarize derives the dashboard counters from current stock levels.
func (c *Collection) Summarize() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Summary{TotalProducts: len(c.items)}
	for _, p := range c.items {
		switch {
		case p.Stock <= 0:
			s.OutOfStock++
		case p.Stock <= criticalStockThreshold:
			s.CriticalStock++
		}
	}
	return s
}

// reindex rebuilds the id index; callers hold the write lock.
func (c *Collection) reindex() {
	c.index = make(map[int64]int, len(c.items))
	for i, p := range c.items {
		c.index[p.ID] = i
	}
}
