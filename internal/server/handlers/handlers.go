// Package handlers adapts the view services onto the JSON HTTP surface.
// Every remote failure is converted into a response payload carrying the
// underlying reason string; nothing propagates as an unhandled fault.
package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/emreacar/kafepos/internal/domain/models"
)

// StatsComputer produces the financial aggregates for a report period.
type StatsComputer interface {
	ComputePeriod(ctx context.Context, period models.Period) (models.PeriodStats, error)
}

// StockMutator applies a signed stock delta with optimistic update and
// rollback semantics.
type StockMutator interface {
	ApplyDelta(ctx context.Context, productID int64, delta int) error
}

func errorBody(err error) gin.H {
	return gin.H{"error": err.Error()}
}
