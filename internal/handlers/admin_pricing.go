package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"fixmate/internal/database"
	"fixmate/internal/middleware"
	"fixmate/internal/models"
	"fixmate/internal/repository"

	"github.com/gin-gonic/gin"
)

type pricingRequest struct {
	Brand      string `json:"brand" binding:"required,max=80"`
	Model      string `json:"model" binding:"required,max=120"`
	Issue      string `json:"issue" binding:"required,max=120"`
	Price      int64  `json:"price" binding:"gt=0"`
	RangePrice int64  `json:"rangePrice" binding:"gte=0"`
}

func (r *pricingRequest) rule() models.PricingRule {
	return models.PricingRule{
		Brand:      strings.TrimSpace(r.Brand),
		Model:      strings.TrimSpace(r.Model),
		Issue:      strings.TrimSpace(r.Issue),
		Price:      r.Price,
		RangePrice: r.RangePrice,
	}
}

func (h *Handler) ListPricing(c *gin.Context) {
	rules, err := h.Pricing.List(c.Request.Context())
	if err != nil {
		h.internalError(c, "list pricing failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rules": rules})
}

// UpsertPricing creates the rule or replaces the price of an existing one.
func (h *Handler) UpsertPricing(c *gin.Context) {
	var req pricingRequest
	if fe, err := decodeJSON(c, &req); err != nil {
		respondInvalid(c, fe)
		return
	}
	req.Brand, req.Model, req.Issue = strings.TrimSpace(req.Brand), strings.TrimSpace(req.Model), strings.TrimSpace(req.Issue)
	if fe := validate(&req); len(fe) > 0 {
		respondInvalid(c, fe)
		return
	}

	rule, err := h.Pricing.Upsert(c.Request.Context(), req.rule())
	if err != nil {
		h.internalError(c, "upsert pricing failed", err)
		return
	}

	h.audit(c, "pricing", strconv.FormatUint(uint64(rule.ID), 10), "upsert", describeRule(rule))
	c.JSON(http.StatusOK, gin.H{"rule": rule})
}

func (h *Handler) DeletePricing(c *gin.Context) {
	brand := strings.TrimSpace(c.Query("brand"))
	model := strings.TrimSpace(c.Query("model"))
	issue := strings.TrimSpace(c.Query("issue"))
	if brand == "" || model == "" || issue == "" {
		respondError(c, http.StatusBadRequest, "brand, model, issue are required")
		return
	}

	rule, err := h.Pricing.Delete(c.Request.Context(), brand, model, issue)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Pricing rule not found")
		return
	}
	if err != nil {
		h.internalError(c, "delete pricing failed", err)
		return
	}

	h.audit(c, "pricing", strconv.FormatUint(uint64(rule.ID), 10), "delete", describeRule(rule))
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func describeRule(r *models.PricingRule) string {
	return fmt.Sprintf("%s / %s / %s: price=%d range=%d", r.Brand, r.Model, r.Issue, r.Price, r.RangePrice)
}

func (h *Handler) audit(c *gin.Context, entity, entityID, action, details string) {
	entry := models.AuditLog{
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if claims, ok := middleware.CurrentAdmin(c); ok {
		entry.AdminID = claims.UID
		entry.Actor = claims.Username
	}
	database.CreateAuditLog(h.DB, h.Log, entry)
}
