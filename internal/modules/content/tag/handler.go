package tag

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/i18n"
	"github.com/soldertec/site/internal/pkg/response"
)

type cachePurger interface {
	Purge(ctx context.Context) error
}

type Handler struct {
	svc         *Service
	cache       cachePurger
	logger      *zap.Logger
	showDetails bool
}

func NewHandler(svc *Service, logger *zap.Logger, showDetails bool) *Handler {
	return &Handler{svc: svc, logger: logger, showDetails: showDetails}
}

// SetCachePurger clears cached public responses after writes (optional).
func (h *Handler) SetCachePurger(p cachePurger) { h.cache = p }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, publicMW ...gin.HandlerFunc) {
	rg.GET("/tags", append(publicMW, h.list)...)

	admin := rg.Group("/admin/tags", authMW)
	admin.GET("", h.list)
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.DELETE("/:id", h.delete)
}

type tagResponse struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Name   string `json:"name"`
	NameES string `json:"nameEs"`
	NameEN string `json:"nameEn"`
}

func toResponse(m *models.TagModel, lang i18n.Lang) tagResponse {
	return tagResponse{ID: m.ID, Slug: m.Slug, Name: m.Name(string(lang)), NameES: m.NameES, NameEN: m.NameEN}
}

func (h *Handler) fail(c *gin.Context, err error) {
	if apperr.Status(err) >= 500 {
		h.logger.Error("tag request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	response.Error(c, err, h.showDetails)
}

func (h *Handler) purge(c *gin.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Purge(c.Request.Context()); err != nil {
		h.logger.Warn("purge http cache", zap.Error(err))
	}
}

func (h *Handler) list(c *gin.Context) {
	tags, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	lang := i18n.Normalize(c.Query("lang"))
	items := make([]tagResponse, len(tags))
	for i := range tags {
		items[i] = toResponse(&tags[i], lang)
	}
	response.OK(c, items)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateTagDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	tag, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.purge(c)
	response.Created(c, toResponse(tag, i18n.Default))
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateTagDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	tag, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	if tag == nil {
		response.NotFound(c)
		return
	}
	h.purge(c)
	response.OK(c, toResponse(tag, i18n.Default))
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	h.purge(c)
	response.NoContent(c)
}
