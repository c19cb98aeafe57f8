package category

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

	"github.com/soldertec/site/internal/database/dbtest"
	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/validate"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(dbtest.SQLite(t), validate.New())
}

func TestCategoryLifecycle(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	cat, err := svc.Create(ctx, &CreateCategoryDTO{Slug: "soldadura", NameES: "Soldadura", NameEN: "Soldering"})
	require.NoError(t, err)
	assert.NotEmpty(t, cat.ID)

	_, err = svc.Create(ctx, &CreateCategoryDTO{Slug: "soldadura", NameES: "Otra", NameEN: "Other"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = svc.Create(ctx, &CreateCategoryDTO{Slug: "Bad Slug", NameES: "x", NameEN: "x"})
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, []string{"slug"}, apperr.FieldsOf(err))

	name := "Soldering supplies"
	updated, err := svc.Update(ctx, cat.ID, &UpdateCategoryDTO{NameEN: &name})
	require.NoError(t, err)
	assert.Equal(t, "Soldering supplies", updated.NameEN)
	assert.Equal(t, "Soldadura", updated.NameES)

	missing, err := svc.Update(ctx, "nope", &UpdateCategoryDTO{NameEN: &name})
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, svc.Delete(ctx, cat.ID))
	got, err := svc.GetByID(ctx, cat.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDeleteDetachesPosts(t *testing.T) {
	ctx := context.Background()
	db := dbtest.SQLite(t)
	svc := NewService(db, validate.New())

	cat, err := svc.Create(ctx, &CreateCategoryDTO{Slug: "estano", NameES: "Estaño", NameEN: "Tin"})
	require.NoError(t, err)
	post := models.PostModel{Slug: "guia", Status: models.PostDraft, CategoryID: &cat.ID}
	require.NoError(t, db.Omit("Tags", "Contents").Create(&post).Error)

	require.NoError(t, svc.Delete(ctx, cat.ID))

	var reloaded models.PostModel
	require.NoError(t, db.First(&reloaded, "id = ?", post.ID).Error)
	assert.Nil(t, reloaded.CategoryID)
}

type purgeCounter struct{ n int }

func (p *purgeCounter) Purge(context.Context) error { p.n++; return nil }

func TestHandlerRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newTestService(t)
	h := NewHandler(svc, zap.NewNop(), false)
	purger := &purgeCounter{}
	h.SetCachePurger(purger)

	authed := 0
	r := gin.New()
	h.RegisterRoutes(r.Group("/api"), func(c *gin.Context) { authed++; c.Next() })

	do := func(method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var out map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		return w, out
	}

	w, body := do(http.MethodPost, "/api/admin/categories", `{"slug":"fundentes","nameEs":"Fundentes","nameEn":"Fluxes"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	id := body["id"].(string)
	assert.Equal(t, 1, purger.n)

	w, body = do(http.MethodGet, "/api/categories?lang=en", "")
	require.Equal(t, http.StatusOK, w.Code)
	items := body["data"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Fluxes", items[0].(map[string]any)["name"])

	w, body = do(http.MethodPost, "/api/admin/categories", `{"slug":"fundentes","nameEs":"x","nameEn":"y"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "category slug already exists", body["message"])

	w, _ = do(http.MethodPut, "/api/admin/categories/missing", `{"nameEs":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = do(http.MethodDelete, "/api/admin/categories/"+id, "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 2, purger.n)
	assert.Equal(t, 4, authed)
}
