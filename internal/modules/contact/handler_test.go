package contact

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/soldertec/site/internal/pkg/emailsuggest"
	"github.com/soldertec/site/internal/pkg/mail/mailtest"
)

func newRouter(t *testing.T, showDetails bool) (*gin.Engine, *mailtest.Recorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, rec := newTestService()
	r := gin.New()
	NewHandler(svc, emailsuggest.New(), zap.NewNop(), showDetails).RegisterRoutes(r.Group("/api"))
	return r, rec
}

func perform(r *gin.Engine, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestHandlerSubmit(t *testing.T) {
	r, _ := newRouter(t, false)

	w, body := perform(r, http.MethodPost, "/api/contact",
		`{"name":"Ana","email":"ana@example.com","message":"Hola","language":"en"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Your message was sent. We will get back to you soon.", body["message"])
	ids := body["ids"].(map[string]any)
	assert.NotEmpty(t, ids["internal"])
	assert.NotEmpty(t, ids["client"])
}

func TestHandlerSubmitMissingMessage(t *testing.T) {
	r, rec := newRouter(t, false)

	w, body := perform(r, http.MethodPost, "/api/contact",
		`{"name":"Ana","email":"ana@example.com","message":"","language":"en"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Missing required fields: Message", body["error"])
	assert.Equal(t, []any{"message"}, body["fields"])
	assert.Empty(t, rec.Sent())

	w, body = perform(r, http.MethodPost, "/api/contact", `{"email":"ana@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Faltan campos obligatorios: Nombre, Mensaje", body["error"])
}

func TestHandlerSubmitMalformedBody(t *testing.T) {
	r, rec := newRouter(t, false)

	for _, raw := range []string{"name=Ana&email=ana@example.com", `["Ana"]`, ""} {
		w, body := perform(r, http.MethodPost, "/api/contact", raw)
		assert.Equal(t, http.StatusBadRequest, w.Code, raw)
		assert.Equal(t, "Faltan campos obligatorios: name, email, message", body["error"], raw)
		assert.Equal(t, "request body must be a JSON object", body["details"], raw)
	}
	assert.Empty(t, rec.Sent())
}

func TestHandlerSubmitBadEmailSuggests(t *testing.T) {
	r, _ := newRouter(t, false)

	w, body := perform(r, http.MethodPost, "/api/contact",
		`{"name":"Ana","email":"ana@gmail,com","message":"Hola"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "El formato del correo electrónico no es válido.", body["error"])
	assert.Equal(t, []any{"email"}, body["fields"])
	assert.Equal(t, "ana@gmail.com", body["suggestion"])

	w, body = perform(r, http.MethodPost, "/api/contact",
		`{"name":"Ana","email":"ana@nowhere","message":"Hola"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, body, "suggestion")

	// The heuristic is advisory: a typo with a valid shape still goes out.
	w, _ = perform(r, http.MethodPost, "/api/contact", `{"name":"Ana","email":"ana@gmial.com","message":"Hola"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandlerSubmitDispatchFailure(t *testing.T) {
	for _, show := range []bool{false, true} {
		r, rec := newRouter(t, show)
		rec.FailTags["contact-internal"] = true

		w, body := perform(r, http.MethodPost, "/api/contact",
			`{"name":"Ana","email":"ana@example.com","message":"Hola"}`)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "No pudimos enviar tu mensaje. Inténtalo más tarde.", body["error"])
		if show {
			assert.Contains(t, body["details"], "rejected")
		} else {
			assert.NotContains(t, body, "details")
		}
	}
}

func TestHandlerMethodNotAllowed(t *testing.T) {
	r, _ := newRouter(t, false)
	for _, m := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w, body := perform(r, m, "/api/contact", "")
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, m)
		assert.NotEmpty(t, body["error"])
	}
}

func TestHandlerSuggestEmail(t *testing.T) {
	r, _ := newRouter(t, false)

	tests := map[string]string{
		"user@gmial.com":               "user@gmail.com",
		"user@gmail.com":               "",
		"user@totallyrandomdomain.zzz": "",
		"user@hotmial.com":             "user@hotmail.com",
	}
	for in, want := range tests {
		w, body := perform(r, http.MethodGet, "/api/contact/suggest-email?email="+in, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, body["suggestion"], in)
	}
}

func TestHandlerRejectionsAreLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService()
	core, logs := observer.New(zap.DebugLevel)
	r := gin.New()
	NewHandler(svc, emailsuggest.New(), zap.New(core), false).RegisterRoutes(r.Group("/api"))

	perform(r, http.MethodPost, "/api/contact", "not json")
	assert.Equal(t, 1, logs.FilterMessage("contact body rejected").Len())

	perform(r, http.MethodPost, "/api/contact", `{"name":"Ana","email":"ana@gmail,com","message":"Hola"}`)
	entries := logs.FilterMessage("contact submission rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, []any{"email"}, entries[0].ContextMap()["fields"])
}
