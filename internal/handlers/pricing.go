package handlers

import (
	"errors"
	"net/http"
	"strings"

	"fixmate/internal/repository"

	"github.com/gin-gonic/gin"
)

type priceResponse struct {
	Price      int64  `json:"price"`
	RangePrice *int64 `json:"rangePrice,omitempty"`
	Low        *int64 `json:"low,omitempty"`
	High       *int64 `json:"high,omitempty"`
}

// GetPrice returns the stored price, in cents, for a brand/model/issue triple.
func (h *Handler) GetPrice(c *gin.Context) {
	brand := strings.TrimSpace(c.Query("brand"))
	model := strings.TrimSpace(c.Query("model"))
	issue := strings.TrimSpace(c.Query("issue"))

	if brand == "" || model == "" || issue == "" {
		respondError(c, http.StatusBadRequest, "brand, model, issue are required")
		return
	}

	rule, err := h.Pricing.Find(c.Request.Context(), brand, model, issue)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Price not found")
		return
	}
	if err != nil {
		h.internalError(c, "pricing lookup failed", err)
		return
	}

	resp := priceResponse{Price: rule.Price}
	if rule.RangePrice > 0 {
		low, high := rule.Bounds()
		resp.RangePrice = &rule.RangePrice
		resp.Low = &low
		resp.High = &high
	}
	c.JSON(http.StatusOK, resp)
}
