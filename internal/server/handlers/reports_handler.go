package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/emreacar/kafepos/internal/domain/models"
)

// ExpenseCreator inserts a new row into the remote expense ledger.
type ExpenseCreator interface {
	CreateExpense(ctx context.Context, name string, amount decimal.Decimal) (models.Expense, error)
}

// ReportsHandler serves the financial reports view and the expense form.
type ReportsHandler struct {
	stats    StatsComputer
	expenses ExpenseCreator
	logger   *zap.Logger
}

// NewReportsHandler constructs the reports HTTP adapter.
func NewReportsHandler(stats StatsComputer, expenses ExpenseCreator, logger *zap.Logger) *ReportsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportsHandler{stats: stats, expenses: expenses, logger: logger}
}

// Report computes the aggregates for the requested period (today, week,
// month). A failed remote read returns the error with empty aggregates;
// a partially summed total is never rendered.
func (h *ReportsHandler) Report(c *gin.Context) {
	period, err := models.ParsePeriod(c.Query("period"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err))
		return
	}

	stats, err := h.stats.ComputePeriod(c.Request.Context(), period)
	if err != nil {
		h.logger.Warn("report unavailable", zap.String("period", string(period)), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error(), "stats": stats})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

// CreateExpense inserts a user-submitted expense; the caller refetches the
// report afterwards.
func (h *ReportsHandler) CreateExpense(c *gin.Context) {
	var req models.ExpenseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and amount are required"})
		return
	}
	if !req.Amount.IsPositive() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be positive"})
		return
	}

	expense, err := h.expenses.CreateExpense(c.Request.Context(), req.Name, req.Amount)
	if err != nil {
		h.logger.Warn("expense insert failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, errorBody(err))
		return
	}

	c.JSON(http.StatusCreated, gin.H{"expense": expense})
}
