package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fixmate/internal/auth"
	"fixmate/internal/database"
	"fixmate/internal/handlers"
	"fixmate/internal/mail"
	"fixmate/internal/ratelimit"
	"fixmate/internal/server"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateServer(); err != nil {
		return err
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return err
	}
	if err := database.EnsureAdmin(db, cfg.AdminUsername, cfg.AdminPassword, logger); err != nil {
		return err
	}

	opts := server.Options{CORSOrigins: cfg.CORSOrigins}
	if cfg.RedisURL != "" {
		rdb, err := ratelimit.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		defer rdb.Close()
		opts.LeadLimiter = ratelimit.NewRedisLimiter(rdb, "leads", cfg.LeadRateLimit, cfg.LeadRateWindow)
	} else {
		logger.Warn("REDIS_URL is not set, lead submissions are not rate limited")
	}

	notifier := mail.NewNotifier(mail.NewResendSender(cfg.ResendAPIKey), mail.Options{
		From:    cfg.EmailFrom,
		OwnerTo: cfg.EmailTo,
		SiteURL: cfg.PublicSiteURL,
		Timeout: cfg.EmailTimeout,
	}, logger)

	tokens := auth.NewManager(cfg.JWTSecret, cfg.JWTTTL)
	h := handlers.NewHandler(db, tokens, notifier, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           server.NewRouter(h, tokens, opts, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := notifier.Wait(shutdownCtx); err != nil {
		logger.Warn("pending emails abandoned", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
