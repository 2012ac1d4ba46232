package models

import "github.com/shopspring/decimal"

// SalesAggregateRow is one per-product line of the remote sales aggregation
// procedure. Profit is nil on backend versions that predate the profit column.
type SalesAggregateRow struct {
	ProductName  string           `json:"product_name" validate:"required"`
	Category     string           `json:"category"`
	QuantitySold int              `json:"quantity_sold" validate:"gte=0"`
	Revenue      decimal.Decimal  `json:"revenue" validate:"gte=0"`
	Profit       *decimal.Decimal `json:"profit"`
}

// ProfitOrZero returns the row profit, defaulting an absent value to zero.
func (r SalesAggregateRow) ProfitOrZero() decimal.Decimal {
	if r.Profit == nil {
		return decimal.Zero
	}
	return *r.Profit
}
