package handlers

import (
	"net/http"
	"strings"
	"time"

	"fixmate/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type leadRequest struct {
	Type          string `json:"type" binding:"required,max=60"`
	FullName      string `json:"fullName" binding:"max=255"`
	Email         string `json:"email" binding:"omitempty,email,max=255"`
	Phone         string `json:"phone" binding:"required,min=3,max=50"`
	Brand         string `json:"brand" binding:"max=80"`
	Model         string `json:"model" binding:"required,max=120"`
	Issue         string `json:"issue" binding:"required,max=120"`
	Message       string `json:"message" binding:"max=5000"`
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime" binding:"max=40"`

	EstimatedPrice *int64 `json:"estimatedPrice" binding:"omitempty,gte=0"`
	// older clients send a low/high pair instead of estimatedPrice
	EstimateLow  *int64 `json:"estimateLow" binding:"omitempty,gte=0"`
	EstimateHigh *int64 `json:"estimateHigh" binding:"omitempty,gte=0"`
}

func (r *leadRequest) trim() {
	for _, s := range []*string{
		&r.Type, &r.FullName, &r.Email, &r.Phone, &r.Brand, &r.Model,
		&r.Issue, &r.Message, &r.PreferredDate, &r.PreferredTime,
	} {
		*s = strings.TrimSpace(*s)
	}
}

func (r *leadRequest) estimate() *int64 {
	switch {
	case r.EstimatedPrice != nil:
		return r.EstimatedPrice
	case r.EstimateLow != nil:
		return r.EstimateLow
	default:
		return r.EstimateHigh
	}
}

// parsePreferredDate accepts a plain date or an RFC 3339 timestamp.
func parsePreferredDate(s string) (*datatypes.Date, bool) {
	if s == "" {
		return nil, true
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			d := datatypes.Date(t)
			return &d, true
		}
	}
	return nil, false
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// CreateLead stores a repair request and fires the notification emails.
func (h *Handler) CreateLead(c *gin.Context) {
	var req leadRequest
	if fe, err := decodeJSON(c, &req); err != nil {
		respondInvalid(c, fe)
		return
	}
	req.trim()

	fe := validate(&req)
	date, ok := parsePreferredDate(req.PreferredDate)
	if !ok {
		if fe == nil {
			fe = fieldErrors{}
		}
		fe.add("preferredDate", "Invalid date, expected YYYY-MM-DD")
	}
	if len(fe) > 0 {
		respondInvalid(c, fe)
		return
	}

	lead := models.Lead{
		Type:           req.Type,
		FullName:       req.FullName,
		Email:          optional(req.Email),
		Phone:          req.Phone,
		Brand:          optional(req.Brand),
		Model:          req.Model,
		Issue:          req.Issue,
		Message:        optional(req.Message),
		PreferredDate:  date,
		PreferredTime:  optional(req.PreferredTime),
		EstimatedPrice: req.estimate(),
		Status:         models.LeadNew,
	}

	if err := h.Leads.Create(c.Request.Context(), &lead); err != nil {
		h.internalError(c, "create lead failed", err)
		return
	}

	h.Log.Info("lead created", zap.String("lead_id", lead.ID), zap.String("type", lead.Type))
	h.Notifier.LeadReceived(lead)

	c.JSON(http.StatusCreated, gin.H{"leadId": lead.ID})
}
