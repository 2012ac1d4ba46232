// Package reconcile keeps the local product collection in step with the
// backend's realtime change feed.
package reconcile

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/emreacar/kafepos/internal/domain/models"
	"github.com/emreacar/kafepos/internal/state"
)

const resubscribeDelay = 5 * time.Second

// Stream is a live feed of authoritative product rows.
type Stream interface {
	Updates() <-chan models.Product
	Close() error
}

// SubscribeFunc opens a new product stream.
type SubscribeFunc func(ctx context.Context) (Stream, error)

// Reconciler consumes the realtime feed and merges every notified row into
// the collection wholesale, superseding any optimistic local guess. Rows are
// applied in arrival order; the feed carries no sequence numbers, so a later
// notification always wins.
type Reconciler struct {
	subscribe SubscribeFunc
	products  *state.Collection
	logger    *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewReconciler wires a reconciler for the given collection.
func NewReconciler(subscribe SubscribeFunc, products *state.Collection, logger *zap.Logger) *Reconciler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reconciler{subscribe: subscribe, products: products, logger: logger}
}

// Start launches the reconciliation loop in the background. A dead stream is
// reopened after a short delay.
func (r *Reconciler) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})

	go func() {
		defer close(r.done)
		for {
			if err := r.runOnce(ctx); err != nil {
				r.logger.Warn("realtime subscription failed", zap.Error(err))
			}

			select {
			case <-ctx.Done():
				return
			case <-time.After(resubscribeDelay):
			}
		}
	}()
}

// Stop tears the subscription down and waits for the loop to exit.
func (r *Reconciler) Stop() {
	if r.cancel == nil {
		return
	}
	r.cancel()
	<-r.done
}

func (r *Reconciler) runOnce(ctx context.Context) error {
	stream, err := r.subscribe(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := stream.Close(); err != nil {
			r.logger.Debug("stream close failed", zap.Error(err))
		}
	}()

	r.logger.Info("subscribed to product updates")

	for {
		select {
		case <-ctx.Done():
			return nil
		case product, ok := <-stream.Updates():
			if !ok {
				// Stream died; caller resubscribes.
				return nil
			}
			r.products.Upsert(product)
			r.logger.Debug("product reconciled",
				zap.Int64("product_id", product.ID),
				zap.Int("stock", product.Stock))
		}
	}
}
