package handlers

import (
	"net/http"

	"fixmate/internal/catalog"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GetCatalog lists the brand/model/issue combinations that have a price.
// A read failure yields an empty catalog rather than an error.
func (h *Handler) GetCatalog(c *gin.Context) {
	rules, err := h.Pricing.List(c.Request.Context())
	if err != nil {
		h.Log.Error("catalog read failed", zap.Error(err))
		c.JSON(http.StatusOK, catalog.Empty())
		return
	}
	c.JSON(http.StatusOK, catalog.Build(rules))
}
