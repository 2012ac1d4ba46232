package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/emreacar/kafepos/internal/domain/models"
	"github.com/emreacar/kafepos/internal/service/inventory"
	"github.com/emreacar/kafepos/internal/state"
)

// PanelHandler serves the stock adjustment panel: the full product list with
// dashboard counters, today's summary, and the stock mutation endpoint.
type PanelHandler struct {
	products *state.Collection
	mutator  StockMutator
	stats    StatsComputer
	logger   *zap.Logger
}

// NewPanelHandler constructs the panel HTTP adapter.
func NewPanelHandler(products *state.Collection, mutator StockMutator, stats StatsComputer, logger *zap.Logger) *PanelHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PanelHandler{products: products, mutator: mutator, stats: stats, logger: logger}
}

// Panel renders the inventory overview. A failing stats read degrades to a
// zero summary instead of failing the whole view.
func (h *PanelHandler) Panel(c *gin.Context) {
	products := h.products.All()
	summary := h.products.Summarize()

	daily := gin.H{"revenue": "0", "net_profit": "0"}
	stats, err := h.stats.ComputePeriod(c.Request.Context(), models.PeriodToday)
	if err != nil {
		h.logger.Warn("daily stats unavailable", zap.Error(err))
	} else {
		daily["revenue"] = stats.TotalRevenue.String()
		daily["net_profit"] = stats.NetOperatingProfit.String()
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"categories": h.products.Categories(),
		"summary":    summary,
		"daily":      daily,
	})
}

// AdjustStock applies a signed stock delta for one product. The UI disables
// the initiating control while a mutation is pending; a concurrent request
// for the same product is rejected here as well.
func (h *PanelHandler) AdjustStock(c *gin.Context) {
	var req models.StockDelta
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id and a non-zero delta are required"})
		return
	}

	err := h.mutator.ApplyDelta(c.Request.Context(), req.ProductID, req.Quantity)
	switch {
	case err == nil:
	case errors.Is(err, state.ErrProductNotFound):
		c.JSON(http.StatusNotFound, errorBody(err))
		return
	case errors.Is(err, inventory.ErrZeroDelta):
		c.JSON(http.StatusBadRequest, errorBody(err))
		return
	case errors.Is(err, inventory.ErrMutationInFlight):
		c.JSON(http.StatusConflict, errorBody(err))
		return
	default:
		c.JSON(http.StatusBadGateway, errorBody(err))
		return
	}

	product, _ := h.products.Get(req.ProductID)
	c.JSON(http.StatusOK, gin.H{"product": product})
}
