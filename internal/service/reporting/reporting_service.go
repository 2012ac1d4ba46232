// Package reporting derives the financial aggregates shown on the reports
// and panel views from fresh remote reads. Nothing is cached: every call
// recomputes from the backend so concurrent cashiers are always reflected.
package reporting

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/emreacar/kafepos/internal/domain/models"
)

const topProductCount = 5

// Backend covers the two independent remote reads a report is built from.
type Backend interface {
	SalesReport(ctx context.Context, start, end time.Time) ([]models.SalesAggregateRow, error)
	ListExpenses(ctx context.Context, start, end time.Time) ([]models.Expense, error)
}

// Service computes period aggregates.
type Service struct {
	backend Backend
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a reporting service anchored to the given timezone.
func NewService(backend Backend, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Service{backend: backend, loc: loc, logger: logger, now: time.Now}
}

// ComputePeriod resolves one of the canonical windows and computes its stats.
func (s *Service) ComputePeriod(ctx context.Context, period models.Period) (models.PeriodStats, error) {
	start, end := period.Window(s.now(), s.loc)
	return s.ComputeStats(ctx, start, end)
}

// ComputeStats issues the sales aggregation and the expense range read for
// the window, waits for both, and derives the totals. A failure of either
// read yields zero-valued aggregates together with the error; a partially
// summed total is never returned.
func (s *Service) ComputeStats(ctx context.Context, start, end time.Time) (models.PeriodStats, error) {
	var (
		sales    []models.SalesAggregateRow
		expenses []models.Expense
	)

	// The two reads are independent; run them concurrently and join before
	// any total is finalized.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.backend.SalesReport(gctx, start, end)
		if err != nil {
			return err
		}
		sales = rows
		return nil
	})
	g.Go(func() error {
		rows, err := s.backend.ListExpenses(gctx, start, end)
		if err != nil {
			return err
		}
		expenses = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("report computation aborted", zap.Error(err))
		return models.EmptyPeriodStats(start, end), err
	}

	stats := models.PeriodStats{
		WindowStart:        start,
		WindowEnd:          end,
		Sales:              sales,
		Expenses:           expenses,
		TotalRevenue:       decimal.Zero,
		TotalGrossProfit:   decimal.Zero,
		TotalExpenses:      decimal.Zero,
		NetOperatingProfit: decimal.Zero,
	}

	for _, row := range sales {
		stats.TotalRevenue = stats.TotalRevenue.Add(row.Revenue)
		stats.TotalGrossProfit = stats.TotalGrossProfit.Add(row.ProfitOrZero())
		stats.TotalItemsSold += row.QuantitySold
		if row.Profit == nil {
			stats.ProfitIncomplete = true
		}
	}
	for _, expense := range expenses {
		stats.TotalExpenses = stats.TotalExpenses.Add(expense.Amount)
	}
	stats.NetOperatingProfit = stats.TotalGrossProfit.Sub(stats.TotalExpenses)

	stats.TopProducts = TopProducts(sales, topProductCount)
	stats.CategoryBreakdown = CategoryBreakdown(sales)

	return stats, nil
}

// TopProducts ranks sales rows by revenue descending and truncates to n. The
// sort is stable: ties keep the original row order.
func TopProducts(rows []models.SalesAggregateRow, n int) []models.ProductRevenue {
	ranked := make([]models.SalesAggregateRow, len(rows))
	copy(ranked, rows)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue.GreaterThan(ranked[j].Revenue)
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}

	out := make([]models.ProductRevenue, 0, len(ranked))
	for _, row := range ranked {
		out = append(out, models.ProductRevenue{ProductName: row.ProductName, Revenue: row.Revenue})
	}
	return out
}

// CategoryBreakdown groups rows by their exact category label (case
// sensitive, no normalization) and sums revenue per group, ordered by summed
// revenue descending.
func CategoryBreakdown(rows []models.SalesAggregateRow) []models.CategoryRevenue {
	sums := make(map[string]decimal.Decimal)
	var order []string
	for _, row := range rows {
		if _, seen := sums[row.Category]; !seen {
			order = append(order, row.Category)
		}
		sums[row.Category] = sums[row.Category].Add(row.Revenue)
	}

	out := make([]models.CategoryRevenue, 0, len(order))
	for _, category := range order {
		out = append(out, models.CategoryRevenue{Category: category, Revenue: sums[category]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Revenue.GreaterThan(out[j].Revenue)
	})
	return out
}
