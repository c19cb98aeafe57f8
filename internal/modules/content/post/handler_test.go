package post

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type purgeCounter struct{ n int }

func (p *purgeCounter) Purge(context.Context) error { p.n++; return nil }

type handlerFixture struct {
	svc     *Service
	router  *gin.Engine
	purger  *purgeCounter
	authed  int
	publics int
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t)
	f := &handlerFixture{svc: svc, router: gin.New(), purger: &purgeCounter{}}
	h := NewHandler(svc, zap.NewNop(), false)
	h.SetCachePurger(f.purger)
	h.RegisterRoutes(f.router.Group("/api"),
		func(c *gin.Context) { f.authed++; c.Next() },
		func(c *gin.Context) { f.publics++; c.Next() },
	)
	return f
}

func (f *handlerFixture) do(method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

const createBody = `{
	"slug": "guia-estano",
	"status": "published",
	"author": "Equipo",
	"contents": [
		{"language": "es", "title": "Guía de estaño", "content": "Elige **aleación** 60/40."},
		{"language": "en", "title": "Tin guide", "content": "Pick a **60/40** alloy."}
	]
}`

func TestHandlerPublicReads(t *testing.T) {
	f := newHandlerFixture(t)

	w, body := f.do(http.MethodPost, "/api/admin/posts", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "published", body["status"])
	assert.Len(t, body["contents"], 2)
	assert.Equal(t, 1, f.purger.n)

	w, body = f.do(http.MethodGet, "/api/posts?lang=en", "")
	require.Equal(t, http.StatusOK, w.Code)
	items := body["data"].([]any)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.Equal(t, "Tin guide", item["title"])
	assert.Equal(t, "en", item["language"])
	assert.Equal(t, float64(1), body["pagination"].(map[string]any)["total"])

	w, body = f.do(http.MethodGet, "/api/posts/guia-estano", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Guía de estaño", body["title"])
	assert.Contains(t, body["contentHtml"], "<strong>aleación</strong>")

	w, _ = f.do(http.MethodGet, "/api/posts/no-existe", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 3, f.publics)
}

func TestHandlerDraftIsHidden(t *testing.T) {
	f := newHandlerFixture(t)

	w, body := f.do(http.MethodPost, "/api/admin/posts", strings.Replace(createBody, `"published"`, `"draft"`, 1))
	require.Equal(t, http.StatusCreated, w.Code)
	id := body["id"].(string)

	w, _ = f.do(http.MethodGet, "/api/posts/guia-estano", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = f.do(http.MethodGet, "/api/admin/posts/"+id, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "draft", body["status"])

	w, body = f.do(http.MethodPatch, "/api/admin/posts/"+id+"/publish", `{"published": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "published", body["status"])

	w, _ = f.do(http.MethodGet, "/api/posts/guia-estano?lang=en", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerAdminErrors(t *testing.T) {
	f := newHandlerFixture(t)

	w, body := f.do(http.MethodPost, "/api/admin/posts", `{"slug":"sin-contenido"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []any{"contents"}, body["fields"])

	w, _ = f.do(http.MethodPost, "/api/admin/posts", `{bad json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = f.do(http.MethodPut, "/api/admin/posts/missing", `{"author":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = f.do(http.MethodDelete, "/api/admin/posts/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = f.do(http.MethodGet, "/api/admin/posts?status=archived", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "unknown status", body["message"])
	assert.Zero(t, f.purger.n)
}

func TestHandlerAdminListAndDelete(t *testing.T) {
	f := newHandlerFixture(t)
	w, body := f.do(http.MethodPost, "/api/admin/posts", createBody)
	require.Equal(t, http.StatusCreated, w.Code)
	id := body["id"].(string)

	w, body = f.do(http.MethodGet, "/api/admin/posts?search=tin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)

	w, _ = f.do(http.MethodDelete, "/api/admin/posts/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 2, f.purger.n)
	assert.Positive(t, f.authed)
}
