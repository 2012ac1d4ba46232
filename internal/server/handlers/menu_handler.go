package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emreacar/kafepos/internal/assets"
	"github.com/emreacar/kafepos/internal/domain/models"
	"github.com/emreacar/kafepos/internal/state"
)

// MenuHandler serves the public menu view from the live product collection.
type MenuHandler struct {
	products *state.Collection
}

// NewMenuHandler constructs the menu HTTP adapter.
func NewMenuHandler(products *state.Collection) *MenuHandler {
	return &MenuHandler{products: products}
}

type menuItem struct {
	models.Product
	Image string `json:"image"`
}

// Menu lists the active products, optionally filtered by category. The
// collection is kept current by the realtime reconciler, so stock shown here
// follows the authoritative backend rows.
func (h *MenuHandler) Menu(c *gin.Context) {
	category := c.Query("category")
	active := h.products.Active()

	seen := make(map[string]struct{})
	categories := make([]string, 0)
	items := make([]menuItem, 0, len(active))

	for _, p := range active {
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			categories = append(categories, p.Category)
		}
		if category != "" && p.Category != category {
			continue
		}
		items = append(items, menuItem{Product: p, Image: assets.ProductImage(p)})
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"items":      items,
	})
}
