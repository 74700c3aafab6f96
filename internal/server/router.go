package server

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"fixmate/internal/auth"
	"fixmate/internal/handlers"
	"fixmate/internal/middleware"
	"fixmate/internal/models"
	"fixmate/internal/ratelimit"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// devOrigin is the local frontend dev server, always allowed.
const devOrigin = "http://localhost:5173"

type Options struct {
	CORSOrigins []string
	LeadLimiter ratelimit.Limiter
}

func allowedOrigins(configured []string) []string {
	out := []string{devOrigin}
	for _, o := range configured {
		o = strings.TrimRight(strings.TrimSpace(o), "/")
		if o != "" && !slices.Contains(out, o) {
			out = append(out, o)
		}
	}
	return out
}

func NewRouter(h *handlers.Handler, tokens *auth.Manager, opts Options, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))

	// disallowed origins get a plain 403 from the cors middleware, not a 500
	origins := allowedOrigins(opts.CORSOrigins)
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return slices.Contains(origins, origin)
		},
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))

	r.GET("/health", h.Health)

	api := r.Group("/api")

	// PUBLIC
	api.GET("/catalog", h.GetCatalog)
	api.GET("/pricing", h.GetPrice)
	api.POST("/leads", middleware.RateLimit(opts.LeadLimiter, log), h.CreateLead)

	// AUTH
	api.POST("/auth/login", h.Login)

	// ADMIN
	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(tokens), middleware.RequireRole(models.RoleAdmin))

	admin.GET("/pricing", h.ListPricing)
	admin.PUT("/pricing", h.UpsertPricing)
	admin.DELETE("/pricing", h.DeletePricing)

	admin.GET("/leads", h.ListLeads)
	admin.GET("/leads/:id", h.GetLead)

	admin.POST("/quotes/send", h.SendQuote)

	admin.GET("/audit", h.ListAuditLogs)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return r
}
