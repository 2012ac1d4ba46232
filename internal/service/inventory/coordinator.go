// Package inventory coordinates stock mutations: optimistic local update,
// one durable remote call, rollback on failure.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/emreacar/kafepos/internal/state"
)

// ErrMutationInFlight is returned while a previous mutation of the same
// product is still awaiting its durable result.
var ErrMutationInFlight = errors.New("stock mutation already in flight for product")

// ErrZeroDelta rejects no-op adjustments before they reach the backend.
var ErrZeroDelta = errors.New("stock delta must be non-zero")

// StockAdjuster is the durable side of a mutation: an atomic server-side
// delta application scoped to one product.
type StockAdjuster interface {
	AdjustStock(ctx context.Context, productID int64, delta int) error
}

// Coordinator applies signed stock deltas with an optimistic-update /
// rollback discipline. Exactly one durable call is issued per invocation and
// a failed call is reported, never retried: the remote value is already
// consistent and a retry could double-apply the delta.
type Coordinator struct {
	products *state.Collection
	backend  StockAdjuster
	onSale   func()
	logger   *zap.Logger

	mu       sync.Mutex
	inFlight map[int64]struct{}
}

// NewCoordinator wires a coordinator. onSale is invoked asynchronously after
// every durably confirmed sale (negative delta) so the reporting view can
// refresh; it may be nil.
func NewCoordinator(products *state.Collection, backend StockAdjuster, onSale func(), logger *zap.Logger) *Coordinator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Coordinator{
		products: products,
		backend:  backend,
		onSale:   onSale,
		logger:   logger,
		inFlight: make(map[int64]struct{}),
	}
}

// ApplyDelta mutates the displayed stock immediately, then issues the atomic
// remote adjustment for exactly this product and exactly this delta. On
// failure the full pre-mutation snapshot is restored and the backend reason
// is surfaced to the caller.
func (c *Coordinator) ApplyDelta(ctx context.Context, productID int64, delta int) error {
	if delta == 0 {
		return ErrZeroDelta
	}

	if err := c.acquire(productID); err != nil {
		return err
	}
	defer c.release(productID)

	snapshot := c.products.Snapshot()

	if err := c.products.ApplyDelta(productID, delta); err != nil {
		return err
	}

	// Durable mutation: the delta is forwarded as-is. The local value is
	// never used to compute the new stock, so a stale display cannot leak
	// into the stored count.
	if err := c.backend.AdjustStock(ctx, productID, delta); err != nil {
		c.products.Restore(snapshot)
		c.logger.Warn("stock mutation rolled back",
			zap.Int64("product_id", productID),
			zap.Int("delta", delta),
			zap.Error(err))
		return fmt.Errorf("stock update failed: %w", err)
	}

	c.logger.Info("stock adjusted",
		zap.Int64("product_id", productID),
		zap.Int("delta", delta))

	if delta < 0 && c.onSale != nil {
		go c.onSale()
	}

	return nil
}

func (c *Coordinator) acquire(productID int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.inFlight[productID]; busy {
		return ErrMutationInFlight
	}
	c.inFlight[productID] = struct{}{}
	return nil
}

func (c *Coordinator) release(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inFlight, productID)
}
