package newsletter

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/i18n"
	"github.com/soldertec/site/internal/pkg/mail/mailtest"
)

type handlerFixture struct {
	router *gin.Engine
	svc    *Service
	store  *MemoryStore
	rec    *mailtest.Recorder
	logs   *observer.ObservedLogs
	guards int
}

func newHandlerFixture(t *testing.T, showDetails bool) *handlerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	svc, store, rec := newTestService(t)
	core, logs := observer.New(zap.DebugLevel)
	f := &handlerFixture{router: gin.New(), svc: svc, store: store, rec: rec, logs: logs}
	pass := func(c *gin.Context) { c.Next() }
	guard := func(c *gin.Context) { f.guards++; c.Next() }
	NewHandler(svc, zap.New(core), showDetails).RegisterRoutes(f.router.Group("/api"), pass, guard)
	return f
}

func (f *handlerFixture) do(method, target string, body string, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandlerSubscribe(t *testing.T) {
	f := newHandlerFixture(t, false)

	w := f.do(http.MethodPost, "/api/newsletter/subscribe", `{"email":"ana@example.com","language":"en"}`, "application/json")
	assert.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, i18n.T(i18n.English, i18n.MsgSubscribeCheckInbox), body["message"])

	w = f.do(http.MethodPost, "/api/newsletter/subscribe", `{"email":"ana@example.com","language":"es"}`, "application/json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, i18n.T(i18n.Spanish, i18n.MsgSubscribeResent), decode(t, w)["message"])
	assert.Len(t, f.rec.ByTag("newsletter-confirm"), 2)
}

func TestHandlerSubscribeErrors(t *testing.T) {
	f := newHandlerFixture(t, false)

	w := f.do(http.MethodGet, "/api/newsletter/subscribe", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	w = f.do(http.MethodPost, "/api/newsletter/subscribe", `{"email":"not-an-email","language":"es"}`, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, i18n.T(i18n.Spanish, i18n.MsgSubscribeInvalidEmail), body["error"])
	assert.NotEmpty(t, body["details"])

	w = f.do(http.MethodPost, "/api/newsletter/subscribe", `{"email":"a@b.co","language":"fr"}`, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, i18n.T(i18n.Spanish, i18n.MsgSubscribeInvalidLanguage), decode(t, w)["error"])

	w = f.do(http.MethodPost, "/api/newsletter/subscribe", `{`, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandlerSubscribeRejectionsAreLogged(t *testing.T) {
	f := newHandlerFixture(t, false)

	f.do(http.MethodPost, "/api/newsletter/subscribe", `not json`, "application/json")
	assert.Equal(t, 1, f.logs.FilterMessage("newsletter subscribe body rejected").Len())

	f.do(http.MethodPost, "/api/newsletter/subscribe", `{"email":"ana@example.com","language":"fr"}`, "application/json")
	entries := f.logs.FilterMessage("newsletter subscribe rejected").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zap.DebugLevel, entries[0].Level)

	sub := seed(t, f.store, models.SubscriberModel{Email: "bea@example.com", Language: "es", ConfirmationToken: "c-bea", UnsubscribeToken: "u-bea"})
	f.store.BeforeSwap = func(*models.SubscriberModel) { bumpVersion(f.store, sub.ID) }
	w := f.do(http.MethodPost, "/api/newsletter/subscribe", `{"email":"bea@example.com","language":"es"}`, "application/json")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, 1, f.logs.FilterMessage("newsletter subscribe contended").Len())
}

func TestHandlerSubscribeHidesDetailsInProduction(t *testing.T) {
	for _, show := range []bool{false, true} {
		f := newHandlerFixture(t, show)
		f.store.Err = errors.New("dial tcp: connection refused")

		w := f.do(http.MethodPost, "/api/newsletter/subscribe", `{"email":"a@b.co","language":"en"}`, "application/json")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		body := decode(t, w)
		assert.Equal(t, i18n.T(i18n.English, i18n.MsgServerError), body["error"])
		if show {
			assert.Equal(t, "dial tcp: connection refused", body["details"])
		} else {
			assert.NotContains(t, body, "details")
		}
	}
}

func TestHandlerConfirmPages(t *testing.T) {
	f := newHandlerFixture(t, false)
	sub := seed(t, f.store, models.SubscriberModel{Email: "eva@example.com"})

	w := f.do(http.MethodGet, "/api/newsletter/confirm", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), i18n.T(i18n.English, i18n.MsgPageMissingTokenTitle))

	w = f.do(http.MethodGet, "/api/newsletter/confirm?token=unknown", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), i18n.T(i18n.Spanish, i18n.MsgPageInvalidLinkTitle))

	w = f.do(http.MethodGet, "/api/newsletter/confirm?token="+sub.ConfirmationToken, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "Subscription confirmed!")
	assert.Contains(t, w.Body.String(), "Suscripción confirmada")

	w = f.do(http.MethodGet, "/api/newsletter/confirm?token="+sub.ConfirmationToken, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), i18n.T(i18n.English, i18n.MsgPageConfirmAlreadyTitle))
}

func TestHandlerUnsubscribeFlow(t *testing.T) {
	f := newHandlerFixture(t, false)
	confirmed := time.Now()
	sub := seed(t, f.store, models.SubscriberModel{Email: "raul@example.com", IsActive: true, ConfirmedAt: &confirmed})
	target := "/api/newsletter/unsubscribe?token=" + sub.UnsubscribeToken

	w := f.do(http.MethodGet, target, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `<form method="post"`)
	assert.Contains(t, w.Body.String(), "raul@example.com")
	got, _ := f.store.Get(sub.ID)
	assert.True(t, got.IsActive, "GET must not unsubscribe")

	form := url.Values{"token": {sub.UnsubscribeToken}}.Encode()
	w = f.do(http.MethodPost, "/api/newsletter/unsubscribe", form, "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), i18n.T(i18n.English, i18n.MsgPageUnsubscribeSuccessTitle))
	got, _ = f.store.Get(sub.ID)
	assert.Equal(t, models.StateUnsubscribed, got.State())

	for _, method := range []string{http.MethodPost, http.MethodGet} {
		w = f.do(method, target, "", "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), i18n.T(i18n.English, i18n.MsgPageUnsubscribeAlreadyTitle))
	}
}

func TestHandlerUnsubscribeErrors(t *testing.T) {
	f := newHandlerFixture(t, false)

	w := f.do(http.MethodPost, "/api/newsletter/unsubscribe", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodGet, "/api/newsletter/unsubscribe?token=nope", "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), i18n.T(i18n.English, i18n.MsgPageInvalidLinkBody))

	w = f.do(http.MethodDelete, "/api/newsletter/unsubscribe?token=nope", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)

	f.store.Err = errors.New("timeout")
	w = f.do(http.MethodPost, "/api/newsletter/unsubscribe?token=any", "", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), i18n.T(i18n.Spanish, i18n.MsgPageErrorTitle))
}

func TestHandlerAdminEndpoints(t *testing.T) {
	f := newHandlerFixture(t, false)
	f.svc.SetPostSource(&fakePosts{posts: map[string]*models.PostModel{"post-1": publishedPost()}, notified: map[string]time.Time{}})
	seed(t, f.store, activeSub("ana@example.com", "es"))
	seed(t, f.store, models.SubscriberModel{Email: "bob@example.com", Language: "en"})

	w := f.do(http.MethodGet, "/api/newsletter/analytics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode(t, w)
	assert.EqualValues(t, 2, stats["total"])
	assert.EqualValues(t, 1, stats["pending"])

	w = f.do(http.MethodGet, "/api/newsletter/subscribers?status=pending&size=5", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.Len(t, list["data"], 1)
	assert.EqualValues(t, 1, list["pagination"].(map[string]any)["total"])

	w = f.do(http.MethodGet, "/api/newsletter/subscribers?status=bogus", "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/api/newsletter/send-blog-notification", `{"postId":"post-1"}`, "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	res := decode(t, w)
	assert.EqualValues(t, 1, res["sent"])
	assert.EqualValues(t, 0, res["failed"])
	assert.Equal(t, 1, f.guards)

	w = f.do(http.MethodPost, "/api/newsletter/send-blog-notification", `{"postId":"missing"}`, "application/json")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
