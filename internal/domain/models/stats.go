package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRevenue is one entry of the top-product ranking.
type ProductRevenue struct {
	ProductName string          `json:"product_name"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// CategoryRevenue is one entry of the per-category revenue breakdown.
type CategoryRevenue struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// PeriodStats is the derived financial aggregate for one report window. It
// has no identity of its own and is recomputed from fresh remote reads on
// every request.
type PeriodStats struct {
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	Sales    []SalesAggregateRow `json:"sales"`
	Expenses []Expense           `json:"expenses"`

	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalGrossProfit   decimal.Decimal `json:"total_gross_profit"`
	TotalExpenses      decimal.Decimal `json:"total_expenses"`
	NetOperatingProfit decimal.Decimal `json:"net_operating_profit"`
	TotalItemsSold     int             `json:"total_items_sold"`

	// ProfitIncomplete advises the caller that at least one sales row lacked
	// a profit value and was counted as zero (backend version mismatch, not
	// a request failure).
	ProfitIncomplete bool `json:"profit_incomplete"`

	TopProducts       []ProductRevenue  `json:"top_products"`
	CategoryBreakdown []CategoryRevenue `json:"category_breakdown"`
}

// EmptyPeriodStats returns a zero-valued aggregate for the given window,
// handed to callers when a remote read fails so no partially summed total
// ever reaches the view.
func EmptyPeriodStats(start, end time.Time) PeriodStats {
	return PeriodStats{
		WindowStart:        start,
		WindowEnd:          end,
		Sales:              []SalesAggregateRow{},
		Expenses:           []Expense{},
		TotalRevenue:       decimal.Zero,
		TotalGrossProfit:   decimal.Zero,
		TotalExpenses:      decimal.Zero,
		NetOperatingProfit: decimal.Zero,
		TopProducts:        []ProductRevenue{},
		CategoryBreakdown:  []CategoryRevenue{},
	}
}

// DailyClose is the archived snapshot of one business day, produced by the
// scheduled close job. Amounts are stored as strings to keep exact decimal
// representation in the archive.
type DailyClose struct {
	Date               string    `bson:"date" json:"date"`
	TotalRevenue       string    `bson:"total_revenue" json:"total_revenue"`
	TotalGrossProfit   string    `bson:"total_gross_profit" json:"total_gross_profit"`
	TotalExpenses      string    `bson:"total_expenses" json:"total_expenses"`
	NetOperatingProfit string    `bson:"net_operating_profit" json:"net_operating_profit"`
	ItemsSold          int       `bson:"items_sold" json:"items_sold"`
	ProfitIncomplete   bool      `bson:"profit_incomplete" json:"profit_incomplete"`
	CreatedAt          time.Time `bson:"created_at" json:"created_at"`
}

// NewDailyClose snapshots the given stats for archival.
func NewDailyClose(stats PeriodStats, now time.Time) DailyClose {
	return DailyClose{
		Date:               stats.WindowStart.Format("2006-01-02"),
		TotalRevenue:       stats.TotalRevenue.String(),
		TotalGrossProfit:   stats.TotalGrossProfit.String(),
		TotalExpenses:      stats.TotalExpenses.String(),
		NetOperatingProfit: stats.NetOperatingProfit.String(),
		ItemsSold:          stats.TotalItemsSold,
		ProfitIncomplete:   stats.ProfitIncomplete,
		CreatedAt:          now,
	}
}
