package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fixmate/internal/models"
	"fixmate/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 25
	minPageSize     = 10
	maxPageSize     = 100
)

type leadResponse struct {
	ID             string            `json:"id"`
	Type           string            `json:"type"`
	FullName       string            `json:"fullName"`
	Email          *string           `json:"email"`
	Phone          string            `json:"phone"`
	Brand          *string           `json:"brand"`
	Model          string            `json:"model"`
	Issue          string            `json:"issue"`
	Message        *string           `json:"message"`
	PreferredDate  *string           `json:"preferredDate"`
	PreferredTime  *string           `json:"preferredTime"`
	EstimatedPrice *int64            `json:"estimatedPrice"`
	Status         models.LeadStatus `json:"status"`
	FinalQuote     *int64            `json:"finalQuote"`
	QuoteNotes     *string           `json:"quoteNotes"`
	QuotedAt       *time.Time        `json:"quotedAt"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

func toLeadResponse(l models.Lead) leadResponse {
	resp := leadResponse{
		ID:             l.ID,
		Type:           l.Type,
		FullName:       l.FullName,
		Email:          l.Email,
		Phone:          l.Phone,
		Brand:          l.Brand,
		Model:          l.Model,
		Issue:          l.Issue,
		Message:        l.Message,
		PreferredTime:  l.PreferredTime,
		EstimatedPrice: l.EstimatedPrice,
		Status:         l.Status,
		FinalQuote:     l.FinalQuote,
		QuoteNotes:     l.QuoteNotes,
		QuotedAt:       l.QuotedAt,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
	if l.PreferredDate != nil {
		d := time.Time(*l.PreferredDate).Format(time.DateOnly)
		resp.PreferredDate = &d
	}
	return resp
}

func intQuery(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

// ListLeads pages through leads, newest first, with optional search.
func (h *Handler) ListLeads(c *gin.Context) {
	page := max(1, intQuery(c, "page", 1))
	pageSize := min(maxPageSize, max(minPageSize, intQuery(c, "pageSize", defaultPageSize)))

	status := models.LeadStatus(strings.ToUpper(strings.TrimSpace(c.Query("status"))))
	switch status {
	case "", models.LeadNew, models.LeadQuoted:
	default:
		respondError(c, http.StatusBadRequest, "status must be NEW or QUOTED")
		return
	}

	result, err := h.Leads.Search(c.Request.Context(), repository.LeadFilter{
		Query:    strings.TrimSpace(c.Query("q")),
		Type:     strings.TrimSpace(c.Query("type")),
		Status:   status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		h.internalError(c, "lead search failed", err)
		return
	}

	items := make([]leadResponse, 0, len(result.Items))
	for _, l := range result.Items {
		items = append(items, toLeadResponse(l))
	}

	c.JSON(http.StatusOK, gin.H{
		"total":    result.Total,
		"page":     page,
		"pageSize": pageSize,
		"items":    items,
	})
}

func (h *Handler) GetLead(c *gin.Context) {
	lead, err := h.Leads.GetByID(c.Request.Context(), c.Param("id"))
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Lead not found")
		return
	}
	if err != nil {
		h.internalError(c, "lead lookup failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lead": toLeadResponse(*lead)})
}
