package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"fixmate/internal/auth"
	"fixmate/internal/database"
	"fixmate/internal/handlers"
	"fixmate/internal/mail"
	"fixmate/internal/models"
	"fixmate/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	adminUser = "owner"
	adminPass = "correct-horse"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSender struct {
	mu   sync.Mutex
	sent []mail.Message
	fail bool
}

func (s *fakeSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("provider unreachable")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSender) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.sent))
	for _, m := range s.sent {
		out = append(out, m.To)
	}
	return out
}

type testEnv struct {
	router   *gin.Engine
	db       *gorm.DB
	tokens   *auth.Manager
	sender   *fakeSender
	notifier *mail.Notifier
}

type envOption func(*Options)

func withLimiter(l ratelimit.Limiter) envOption {
	return func(o *Options) { o.LeadLimiter = l }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection keeps every query on the same in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.CreateAdmin(db, adminUser, adminPass))

	log := zap.NewNop()
	sender := &fakeSender{}
	notifier := mail.NewNotifier(sender, mail.Options{
		From:    "FixMate <noreply@fixmate.example>",
		OwnerTo: "owner@fixmate.example",
		Timeout: time.Second,
	}, log)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = notifier.Wait(ctx)
	})

	tokens := auth.NewManager("test-secret", time.Hour)
	h := handlers.NewHandler(db, tokens, notifier, log)

	o := Options{CORSOrigins: []string{"https://fixmate.example"}}
	for _, fn := range opts {
		fn(&o)
	}

	return &testEnv{
		router:   NewRouter(h, tokens, o, log),
		db:       db,
		tokens:   tokens,
		sender:   sender,
		notifier: notifier,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	w := e.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": adminUser,
		"password": adminPass,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func (e *testEnv) waitForEmails(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, e.notifier.Wait(ctx))
}

func (e *testEnv) seedPricing(t *testing.T, rules ...models.PricingRule) {
	t.Helper()
	for i := range rules {
		require.NoError(t, e.db.Create(&rules[i]).Error)
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}
