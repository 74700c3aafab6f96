package handlers

import (
	"errors"
	"net/http"
	"strings"

	"fixmate/internal/auth"
	"fixmate/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login exchanges admin credentials for a signed token. Every credential
// mismatch gets the same 401 so usernames cannot be probed.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if _, err := decodeJSON(c, &req); err != nil {
		respondError(c, http.StatusBadRequest, "Missing credentials")
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "Missing credentials")
		return
	}

	ctx := c.Request.Context()
	admin, err := h.Admins.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		h.internalError(c, "admin lookup failed", err)
		return
	}

	var hash *string
	if admin != nil {
		hash = &admin.PasswordHash
	}
	if !auth.CheckPassword(hash, req.Password) || !admin.IsActive {
		h.Log.Warn("admin login rejected", zap.String("username", username))
		respondError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expiresAt, err := h.Tokens.GenerateToken(admin)
	if err != nil {
		h.internalError(c, "token signing failed", err)
		return
	}

	if err := h.Admins.TouchLogin(ctx, admin.ID, h.now()); err != nil {
		h.Log.Warn("failed to record admin login", zap.Uint("admin_id", admin.ID), zap.Error(err))
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "expiresAt": expiresAt})
}
