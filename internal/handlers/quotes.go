package handlers

import (
	"errors"
	"net/http"
	"strings"

	"fixmate/internal/mail"
	"fixmate/internal/repository"

	"github.com/gin-gonic/gin"
)

type quoteRequest struct {
	LeadID     string `json:"leadId"`
	FinalQuote *int64 `json:"finalQuote"` // cents
	QuoteNotes string `json:"quoteNotes"`
}

// SendQuote records the final quote on a lead (NEW -> QUOTED) and emails it.
func (h *Handler) SendQuote(c *gin.Context) {
	var req quoteRequest
	if _, err := decodeJSON(c, &req); err != nil {
		respondError(c, http.StatusBadRequest, "leadId and finalQuote are required")
		return
	}
	req.LeadID = strings.TrimSpace(req.LeadID)
	if req.LeadID == "" || req.FinalQuote == nil || *req.FinalQuote < 0 {
		respondError(c, http.StatusBadRequest, "leadId and finalQuote are required")
		return
	}

	ctx := c.Request.Context()
	lead, err := h.Leads.GetByID(ctx, req.LeadID)
	if errors.Is(err, repository.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Lead not found")
		return
	}
	if err != nil {
		h.internalError(c, "lead lookup failed", err)
		return
	}
	if lead.Email == nil || *lead.Email == "" {
		respondError(c, http.StatusBadRequest, "Lead has no email")
		return
	}

	lead.MarkQuoted(*req.FinalQuote, optional(strings.TrimSpace(req.QuoteNotes)), h.now())
	if err := h.Leads.Save(ctx, lead); err != nil {
		h.internalError(c, "save quote failed", err)
		return
	}

	h.audit(c, "lead", lead.ID, "quote", "final quote "+mail.FormatCents(*req.FinalQuote))
	h.Notifier.QuoteSent(*lead)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
