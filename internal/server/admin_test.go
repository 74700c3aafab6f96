package server

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"fixmate/internal/auth"
	"fixmate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	inactive := models.AdminUser{Username: "former", PasswordHash: "x", Role: models.RoleAdmin, IsActive: true}
	require.NoError(t, env.db.Create(&inactive).Error)
	require.NoError(t, env.db.Model(&inactive).Update("is_active", false).Error)

	tests := []struct {
		name   string
		body   any
		status int
		error  string
	}{
		{"wrong password", map[string]string{"username": adminUser, "password": "wrong"}, http.StatusUnauthorized, "Invalid credentials"},
		{"unknown user", map[string]string{"username": "nobody", "password": adminPass}, http.StatusUnauthorized, "Invalid credentials"},
		{"inactive user", map[string]string{"username": "former", "password": "x"}, http.StatusUnauthorized, "Invalid credentials"},
		{"missing password", map[string]string{"username": adminUser}, http.StatusBadRequest, "Missing credentials"},
		{"blank username", map[string]string{"username": "  ", "password": adminPass}, http.StatusBadRequest, "Missing credentials"},
		{"not json", "nope", http.StatusBadRequest, "Missing credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/auth/login", tt.body, "")
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.error), w.Body.String())
		})
	}

	token := env.adminToken(t)
	claims, err := env.tokens.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, adminUser, claims.Username)

	var admin models.AdminUser
	require.NoError(t, env.db.Where("username = ?", adminUser).First(&admin).Error)
	assert.NotNil(t, admin.LastLoginAt)
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	env := newTestEnv(t)

	var admin models.AdminUser
	require.NoError(t, env.db.Where("username = ?", adminUser).First(&admin).Error)

	expired, _, err := auth.NewManager("test-secret", -time.Minute).GenerateToken(&admin)
	require.NoError(t, err)
	forged, _, err := auth.NewManager("someone-else", time.Hour).GenerateToken(&admin)
	require.NoError(t, err)

	viewer := admin
	viewer.Role = "viewer"
	notAdmin, _, err := env.tokens.GenerateToken(&viewer)
	require.NoError(t, err)

	endpoints := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/admin/pricing"},
		{http.MethodPut, "/api/admin/pricing"},
		{http.MethodDelete, "/api/admin/pricing?brand=a&model=b&issue=c"},
		{http.MethodGet, "/api/admin/leads"},
		{http.MethodGet, "/api/admin/leads/abc"},
		{http.MethodPost, "/api/admin/quotes/send"},
		{http.MethodGet, "/api/admin/audit"},
	}

	for _, ep := range endpoints {
		t.Run(ep.method+" "+ep.path, func(t *testing.T) {
			assert.Equal(t, http.StatusUnauthorized, env.do(t, ep.method, ep.path, nil, "").Code)
			assert.Equal(t, http.StatusUnauthorized, env.do(t, ep.method, ep.path, nil, "garbage").Code)
			assert.Equal(t, http.StatusUnauthorized, env.do(t, ep.method, ep.path, nil, expired).Code)
			assert.Equal(t, http.StatusUnauthorized, env.do(t, ep.method, ep.path, nil, forged).Code)
			assert.Equal(t, http.StatusForbidden, env.do(t, ep.method, ep.path, nil, notAdmin).Code)
		})
	}
}

func TestAdminPricingUpsertAndDelete(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	put := func(body map[string]any) *models.PricingRule {
		t.Helper()
		w := env.do(t, http.MethodPut, "/api/admin/pricing", body, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp struct {
			Rule models.PricingRule `json:"rule"`
		}
		decode(t, w, &resp)
		return &resp.Rule
	}

	first := put(map[string]any{"brand": "Apple", "model": "iPhone 14", "issue": "Screen Replacement", "price": 15900})
	second := put(map[string]any{"brand": " Apple", "model": "iPhone 14 ", "issue": "Screen Replacement", "price": 17900, "rangePrice": 1000})

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(17900), second.Price)
	assert.Equal(t, int64(1000), second.RangePrice)

	var count int64
	require.NoError(t, env.db.Model(&models.PricingRule{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	w := env.do(t, http.MethodGet, "/api/pricing?brand=Apple&model=iPhone+14&issue=Screen+Replacement", nil, "")
	assert.JSONEq(t, `{"price":17900,"rangePrice":1000,"low":16900,"high":18900}`, w.Body.String())

	put(map[string]any{"brand": "Apple", "model": "iPhone 13", "issue": "Screen Replacement", "price": 12900})

	w = env.do(t, http.MethodGet, "/api/admin/pricing", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Rules []models.PricingRule `json:"rules"`
	}
	decode(t, w, &list)
	require.Len(t, list.Rules, 2)
	assert.Equal(t, "iPhone 13", list.Rules[0].Model)

	w = env.do(t, http.MethodDelete, "/api/admin/pricing?brand=Apple&model=iPhone+14&issue=Screen+Replacement", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	w = env.do(t, http.MethodDelete, "/api/admin/pricing?brand=Apple&model=iPhone+14&issue=Screen+Replacement", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Pricing rule not found"}`, w.Body.String())

	w = env.do(t, http.MethodDelete, "/api/admin/pricing?brand=Apple", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/pricing?brand=Apple&model=iPhone+14&issue=Screen+Replacement", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/audit", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var audit struct {
		Entries []models.AuditLog `json:"entries"`
	}
	decode(t, w, &audit)
	require.Len(t, audit.Entries, 4)
	assert.Equal(t, "delete", audit.Entries[0].Action)
	assert.Equal(t, adminUser, audit.Entries[0].Actor)
}

func TestAdminPricingValidation(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	tests := []struct {
		name  string
		body  map[string]any
		field string
	}{
		{"zero price", map[string]any{"brand": "Apple", "model": "iPhone 14", "issue": "Screen", "price": 0}, "price"},
		{"negative range", map[string]any{"brand": "Apple", "model": "iPhone 14", "issue": "Screen", "price": 100, "rangePrice": -1}, "rangePrice"},
		{"missing brand", map[string]any{"model": "iPhone 14", "issue": "Screen", "price": 100}, "brand"},
		{"price as string", map[string]any{"brand": "Apple", "model": "iPhone 14", "issue": "Screen", "price": "159"}, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPut, "/api/admin/pricing", tt.body, token)
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp struct {
				Details struct {
					FieldErrors map[string][]string `json:"fieldErrors"`
				} `json:"details"`
			}
			decode(t, w, &resp)
			assert.Contains(t, resp.Details.FieldErrors, tt.field)
		})
	}
}

func createLead(t *testing.T, env *testEnv, body map[string]any) string {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/leads", body, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp struct {
		LeadID string `json:"leadId"`
	}
	decode(t, w, &resp)
	return resp.LeadID
}

type leadsPage struct {
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Items    []struct {
		ID       string `json:"id"`
		FullName string `json:"fullName"`
		Type     string `json:"type"`
		Status   string `json:"status"`
	} `json:"items"`
}

func TestAdminLeadSearch(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	for i := 0; i < 12; i++ {
		createLead(t, env, map[string]any{
			"type":     "Quote Booking",
			"fullName": fmt.Sprintf("Customer %02d", i),
			"phone":    fmt.Sprintf("04000000%02d", i),
			"model":    "Galaxy S23",
			"issue":    "Battery Replacement",
		})
	}
	samID := createLead(t, env, map[string]any{
		"type":     "Contact",
		"fullName": "Sam Lee",
		"email":    "Sam.Lee@Example.com",
		"phone":    "0411111111",
		"brand":    "Apple",
		"model":    "iPhone 14",
		"issue":    "Screen Replacement",
	})

	list := func(query string) leadsPage {
		t.Helper()
		w := env.do(t, http.MethodGet, "/api/admin/leads"+query, nil, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var p leadsPage
		decode(t, w, &p)
		return p
	}

	p := list("")
	assert.Equal(t, int64(13), p.Total)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 25, p.PageSize)
	require.Len(t, p.Items, 13)
	assert.Equal(t, samID, p.Items[0].ID, "newest first")

	p = list("?q=sam.lee@EXAMPLE")
	require.Equal(t, int64(1), p.Total)
	assert.Equal(t, "Sam Lee", p.Items[0].FullName)

	p = list("?q=IPHONE")
	assert.Equal(t, int64(1), p.Total)

	p = list("?type=Quote+Booking&pageSize=5&page=2")
	assert.Equal(t, int64(12), p.Total)
	assert.Equal(t, 10, p.PageSize, "page size is clamped to the minimum")
	assert.Equal(t, 2, p.Page)
	assert.Len(t, p.Items, 2)

	p = list("?page=-3&pageSize=1000")
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 100, p.PageSize)

	p = list("?q=100%25")
	assert.Zero(t, p.Total, "LIKE wildcards in the query are literal")

	p = list("?status=quoted")
	assert.Zero(t, p.Total)

	w := env.do(t, http.MethodGet, "/api/admin/leads?status=ARCHIVED", nil, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(t, http.MethodGet, "/api/admin/leads/"+samID, nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"NEW"`)

	w = env.do(t, http.MethodGet, "/api/admin/leads/does-not-exist", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSendQuote(t *testing.T) {
	env := newTestEnv(t)
	token := env.adminToken(t)

	withEmail := createLead(t, env, map[string]any{
		"type":  "Quote Booking",
		"email": "sam@example.com",
		"phone": "0400000000",
		"model": "iPhone 14",
		"issue": "Screen Replacement",
	})
	withoutEmail := createLead(t, env, map[string]any{
		"type":  "Quote Booking",
		"phone": "0400000001",
		"model": "iPhone 14",
		"issue": "Screen Replacement",
	})
	env.waitForEmails(t)

	tests := []struct {
		name   string
		body   any
		status int
		error  string
	}{
		{"missing lead id", map[string]any{"finalQuote": 18900}, http.StatusBadRequest, "leadId and finalQuote are required"},
		{"missing quote", map[string]any{"leadId": withEmail}, http.StatusBadRequest, "leadId and finalQuote are required"},
		{"negative quote", map[string]any{"leadId": withEmail, "finalQuote": -1}, http.StatusBadRequest, "leadId and finalQuote are required"},
		{"non numeric quote", map[string]any{"leadId": withEmail, "finalQuote": "lots"}, http.StatusBadRequest, "leadId and finalQuote are required"},
		{"unknown lead", map[string]any{"leadId": "nope", "finalQuote": 18900}, http.StatusNotFound, "Lead not found"},
		{"lead without email", map[string]any{"leadId": withoutEmail, "finalQuote": 18900}, http.StatusBadRequest, "Lead has no email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/api/admin/quotes/send", tt.body, token)
			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, fmt.Sprintf(`{"error":%q}`, tt.error), w.Body.String())
		})
	}

	w := env.do(t, http.MethodPost, "/api/admin/quotes/send", map[string]any{
		"leadId":     withEmail,
		"finalQuote": 18900,
		"quoteNotes": "Includes screen protector",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"ok":true}`, w.Body.String())

	var lead models.Lead
	require.NoError(t, env.db.First(&lead, "id = ?", withEmail).Error)
	assert.Equal(t, models.LeadQuoted, lead.Status)
	require.NotNil(t, lead.FinalQuote)
	assert.Equal(t, int64(18900), *lead.FinalQuote)
	require.NotNil(t, lead.QuoteNotes)
	assert.Equal(t, "Includes screen protector", *lead.QuoteNotes)
	assert.NotNil(t, lead.QuotedAt)

	var untouched models.Lead
	require.NoError(t, env.db.First(&untouched, "id = ?", withoutEmail).Error)
	assert.Equal(t, models.LeadNew, untouched.Status)

	env.waitForEmails(t)
	recipients := env.sender.recipients()
	assert.Equal(t, "sam@example.com", recipients[len(recipients)-1])

	w = env.do(t, http.MethodGet, "/api/admin/leads?status=QUOTED", nil, token)
	var p leadsPage
	decode(t, w, &p)
	require.Equal(t, int64(1), p.Total)
	assert.Equal(t, withEmail, p.Items[0].ID)
}

func TestLeadSubmissionLeavesPricingUntouched(t *testing.T) {
	env := newTestEnv(t)
	env.seedPricing(t, models.PricingRule{Brand: "Apple", Model: "iPhone 14", Issue: "Screen Replacement", Price: 15900})
	token := env.adminToken(t)

	before := env.do(t, http.MethodGet, "/api/admin/pricing", nil, token)
	require.Equal(t, http.StatusOK, before.Code)

	createLead(t, env, map[string]any{
		"type":  "Quote Booking",
		"phone": "0400000000",
		"model": "iPhone 14",
		"issue": "Screen Replacement",
	})

	after := env.do(t, http.MethodGet, "/api/admin/pricing", nil, token)
	require.Equal(t, http.StatusOK, after.Code)
	assert.JSONEq(t, before.Body.String(), after.Body.String())
}
