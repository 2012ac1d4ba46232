package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is a row of the remote expense ledger. Rows are created through
// user submission and never mutated afterwards; the id and timestamp are
// assigned server-side.
type Expense struct {
	ID        int64           `json:"id" validate:"required,gt=0"`
	Name      string          `json:"name" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
	CreatedAt time.Time       `json:"created_at"`
}

// ExpenseInput is the user-submitted portion of a new expense.
type ExpenseInput struct {
	Name   string          `json:"name" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}
