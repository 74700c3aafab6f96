package handlers

import (
	"net/http"

	"fixmate/internal/database"

	"github.com/gin-gonic/gin"
)

const auditPageSize = 200

func (h *Handler) ListAuditLogs(c *gin.Context) {
	logs, err := database.ListAuditLogs(h.DB.WithContext(c.Request.Context()), auditPageSize)
	if err != nil {
		h.internalError(c, "list audit logs failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": logs})
}
