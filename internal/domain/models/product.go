package models

import "github.com/shopspring/decimal"

// Product mirrors a row of the remote products table. The stock field is the
// only field mutated locally (optimistic display); realtime notifications may
// replace the whole row.
type Product struct {
	ID       int64           `json:"id" validate:"required,gt=0"`
	Name     string          `json:"name" validate:"required"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price" validate:"gte=0"`
	Stock    int             `json:"stock"`
	ImageURL string          `json:"image_url"`
	Active   bool            `json:"is_active"`
}

// StockDelta is a transient per-action value: a signed quantity change for a
// single product. Negative means sale, positive means return.
type StockDelta struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"delta" binding:"required"`
}

// IsSale reports whether the delta reduces stock.
func (d StockDelta) IsSale() bool {
	return d.Quantity < 0
}
