package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/soldertec/site/internal/config"
	"github.com/soldertec/site/internal/database/dbtest"
	"github.com/soldertec/site/internal/pkg/blob/blobtest"
	"github.com/soldertec/site/internal/pkg/jwt"
	"github.com/soldertec/site/internal/pkg/mail/mailtest"
)

const (
	testSecret = "test-secret"
	testAdmin  = "admin@soldertec.mx"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Port:      3000,
		Env:       config.EnvTest,
		LogLevel:  "info",
		SiteURL:   "https://soldertec.test",
		Languages: []string{"es", "en"},
		Version:   "1.4.0",
		Supabase:  config.SupabaseConfig{JWTSecret: testSecret, AdminEmails: []string{testAdmin}},
		Mail:      config.MailConfig{SalesInbox: "ventas@soldertec.test"},
		Storage: config.StorageConfig{
			CatalogKeys: map[string]string{"es": "catalogo-es.pdf"},
			PresignTTL:  time.Hour,
		},
		Newsletter: config.NewsletterConfig{PendingTTL: 30 * 24 * time.Hour},
	}
}

type fixture struct {
	app   *App
	rec   *mailtest.Recorder
	store *blobtest.Memory
	token string
}

func newFixture(t *testing.T, withStorage bool) *fixture {
	t.Helper()
	f := &fixture{rec: mailtest.New()}
	deps := Deps{DB: dbtest.SQLite(t), Mail: f.rec}
	if withStorage {
		f.store = blobtest.NewMemory()
		deps.Images = f.store
		deps.Catalogs = f.store
	}
	f.app = Build(testConfig(), zap.NewNop(), deps)

	tok, err := jwt.NewVerifier(testSecret, "", nil).Sign("admin-1", testAdmin, time.Hour)
	require.NoError(t, err)
	f.token = tok
	return f
}

func (f *fixture) do(method, target, body string, admin bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}
	w := httptest.NewRecorder()
	f.app.Router().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func TestStatusAndHealth(t *testing.T) {
	f := newFixture(t, false)

	w := f.do(http.MethodGet, "/api/status", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"maintenance":false,"languages":["es","en"],"version":"1.4.0"}`, w.Body.String())

	w = f.do(http.MethodGet, "/api/health", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, map[string]any{"database": "ok", "redis": "disabled"}, body["checks"])

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/nope", "", false).Code)
}

func TestMaintenanceMode(t *testing.T) {
	f := newFixture(t, false)

	w := f.do(http.MethodPut, "/api/admin/maintenance", `{"enabled":true}`, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPut, "/api/admin/maintenance", `{"enabled":true}`, true)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPost, "/api/contact", `{"name":"Ana","email":"ana@example.com","message":"hola"}`, false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, true, decode(t, w)["maintenance"])

	assert.Equal(t, true, decode(t, f.do(http.MethodGet, "/api/status", "", false))["maintenance"])
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/admin/posts", "", true).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/newsletter/analytics", "", true).Code)
	assert.Equal(t, http.StatusServiceUnavailable, f.do(http.MethodGet, "/api/posts", "", false).Code)

	f.app.SetMaintenance(false)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/posts", "", false).Code)

	assert.Equal(t, http.StatusBadRequest, f.do(http.MethodPut, "/api/admin/maintenance", `{}`, true).Code)
}

func TestPublishedPostReachesPublicList(t *testing.T) {
	f := newFixture(t, false)

	w := f.do(http.MethodPost, "/api/admin/posts", `{
		"slug": "soldadura-tig",
		"status": "published",
		"contents": [{"language": "es", "title": "Soldadura TIG", "content": "**hola**"}]
	}`, true)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = f.do(http.MethodGet, "/api/posts?lang=es", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Soldadura TIG", data[0].(map[string]any)["title"])

	w = f.do(http.MethodGet, "/api/posts/soldadura-tig?lang=en", "", false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w)["contentHtml"], "<strong>hola</strong>")
}

func TestCronAdmin(t *testing.T) {
	f := newFixture(t, false)

	w := f.do(http.MethodGet, "/api/admin/cron", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	jobs := decode(t, w)["data"].([]any)
	require.Len(t, jobs, 2)
	assert.Equal(t, jobPublishScheduled, jobs[0].(map[string]any)["name"])
	assert.Equal(t, "Delete newsletter subscriptions never confirmed within 30 days", jobs[1].(map[string]any)["description"])

	w = f.do(http.MethodPost, "/api/admin/cron/"+jobPurgePending+"/run", "", true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])

	assert.Equal(t, http.StatusNotFound, f.do(http.MethodPost, "/api/admin/cron/missing/run", "", true).Code)
}

func TestStorageDependentRoutes(t *testing.T) {
	f := newFixture(t, false)
	w := f.do(http.MethodPost, "/api/admin/images", "", true)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	w = f.do(http.MethodPost, "/api/catalog/download", `{"name":"Ana","email":"ana@example.com"}`, false)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	f = newFixture(t, true)
	f.store.Seed("catalogo-es.pdf", []byte("%PDF-1.4"))
	w = f.do(http.MethodPost, "/api/catalog/download", `{"name":"Ana","email":"ana@example.com","language":"en"}`, false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, decode(t, w)["url"], "catalogo-es.pdf")
	_, ok := f.rec.Last()
	assert.True(t, ok)
}

func TestMatchOriginPattern(t *testing.T) {
	tests := []struct {
		pattern, origin string
		want            bool
	}{
		{"https://soldertec.mx", "https://soldertec.mx", true},
		{"soldertec.mx", "https://soldertec.mx", true},
		{"*.soldertec.mx", "https://www.soldertec.mx", true},
		{"*.soldertec.mx", "https://soldertec.mx.evil.io", false},
		{"localhost:*", "http://localhost:5173", true},
		{"soldertec.mx", "https://other.mx", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchOriginPattern(tt.pattern, extractOriginHost(tt.origin)), tt.pattern+" "+tt.origin)
	}
}

func TestHumanizeDuration(t *testing.T) {
	assert.Equal(t, "1 day", humanizeDuration(24*time.Hour))
	assert.Equal(t, "30 days", humanizeDuration(30*24*time.Hour))
	assert.Equal(t, "12h", humanizeDuration(12*time.Hour))
	assert.Equal(t, "1m30s", humanizeDuration(90*time.Second))
}
