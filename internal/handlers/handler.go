package handlers

import (
	"context"
	"net/http"
	"time"

	"fixmate/internal/auth"
	"fixmate/internal/models"
	"fixmate/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type pricingStore interface {
	List(ctx context.Context) ([]models.PricingRule, error)
	Find(ctx context.Context, brand, model, issue string) (*models.PricingRule, error)
	Upsert(ctx context.Context, rule models.PricingRule) (*models.PricingRule, error)
	Delete(ctx context.Context, brand, model, issue string) (*models.PricingRule, error)
}

type leadStore interface {
	Create(ctx context.Context, lead *models.Lead) error
	GetByID(ctx context.Context, id string) (*models.Lead, error)
	Save(ctx context.Context, lead *models.Lead) error
	Search(ctx context.Context, f repository.LeadFilter) (*repository.LeadPage, error)
}

type adminStore interface {
	FindByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	TouchLogin(ctx context.Context, id uint, at time.Time) error
}

// notifier sends emails in the background; it never reports failures.
type notifier interface {
	LeadReceived(lead models.Lead)
	QuoteSent(lead models.Lead)
}

type Handler struct {
	Pricing  pricingStore
	Leads    leadStore
	Admins   adminStore
	DB       *gorm.DB
	Tokens   *auth.Manager
	Notifier notifier
	Log      *zap.Logger

	now func() time.Time
}

func NewHandler(db *gorm.DB, tokens *auth.Manager, n notifier, log *zap.Logger) *Handler {
	return &Handler{
		Pricing:  repository.NewPricingRepository(db),
		Leads:    repository.NewLeadRepository(db),
		Admins:   repository.NewAdminRepository(db),
		DB:       db,
		Tokens:   tokens,
		Notifier: n,
		Log:      log,
		now:      time.Now,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// internalError logs the cause and hides it from the client.
func (h *Handler) internalError(c *gin.Context, msg string, err error) {
	h.Log.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
	_ = c.Error(err)
	respondError(c, http.StatusInternalServerError, "Internal server error")
}
