package post

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/i18n"
	"github.com/soldertec/site/internal/pkg/pagination"
	"github.com/soldertec/site/internal/pkg/response"
)

type cachePurger interface {
	Purge(ctx context.Context) error
}

// Handler handles post HTTP requests.
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

// RegisterRoutes mounts public and admin post routes. publicMW wraps the
// public reads only.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, publicMW ...gin.HandlerFunc) {
	posts := rg.Group("/posts", publicMW...)
	posts.GET("", h.list)
	posts.GET("/:slug", h.getBySlug)

	admin := rg.Group("/admin/posts", authMW)
	admin.GET("", h.adminList)
	admin.GET("/:id", h.adminGet)
	admin.POST("", h.create)
	admin.PUT("/:id", h.update)
	admin.PATCH("/:id/publish", h.publish)
	admin.DELETE("/:id", h.delete)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if apperr.Status(err) >= 500 {
		h.logger.Error("post request failed", zap.String("path", c.FullPath()), zap.Error(err))
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

// list GET /posts
func (h *Handler) list(c *gin.Context) {
	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	posts, pag, err := h.svc.List(c.Request.Context(), pagination.FromContext(c), lq)
	if err != nil {
		h.fail(c, err)
		return
	}
	lang := i18n.Normalize(lq.Lang).String()
	items := make([]summaryResponse, len(posts))
	for i := range posts {
		items[i] = toSummary(&posts[i], lang)
	}
	response.Paged(c, items, pag)
}

// getBySlug GET /posts/:slug
func (h *Handler) getBySlug(c *gin.Context) {
	post, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if post == nil {
		response.NotFound(c)
		return
	}
	detail, err := toDetail(post, i18n.Normalize(c.Query("lang")).String())
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, detail)
}

func toDetail(p *models.PostModel, lang string) (detailResponse, error) {
	content, _ := p.Content(lang)
	html, err := RenderMarkdown(content.Content)
	if err != nil {
		return detailResponse{}, err
	}
	return detailResponse{
		summaryResponse: toSummary(p, lang),
		Content:         content.Content,
		ContentHTML:     html,
		MetaTitle:       content.MetaTitle,
		MetaDescription: content.MetaDescription,
	}, nil
}

// adminList GET /admin/posts
func (h *Handler) adminList(c *gin.Context) {
	var aq AdminListQuery
	if err := c.ShouldBindQuery(&aq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	posts, pag, err := h.svc.ListAdmin(c.Request.Context(), pagination.FromContext(c), aq)
	if err != nil {
		h.fail(c, err)
		return
	}
	items := make([]adminResponse, len(posts))
	for i := range posts {
		items[i] = toAdmin(&posts[i])
	}
	response.Paged(c, items, pag)
}

// adminGet GET /admin/posts/:id
func (h *Handler) adminGet(c *gin.Context) {
	post, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if post == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, toAdmin(post))
}

// create POST /admin/posts
func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.svc.Create(c.Request.Context(), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.purge(c)
	response.Created(c, toAdmin(post))
}

// update PUT /admin/posts/:id
func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.svc.Update(c.Request.Context(), c.Param("id"), &dto)
	h.respondWrite(c, post, err)
}

// publish PATCH /admin/posts/:id/publish
func (h *Handler) publish(c *gin.Context) {
	var dto PublishDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.svc.Publish(c.Request.Context(), c.Param("id"), &dto)
	h.respondWrite(c, post, err)
}

func (h *Handler) respondWrite(c *gin.Context, post *models.PostModel, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	if post == nil {
		response.NotFound(c)
		return
	}
	h.purge(c)
	response.OK(c, toAdmin(post))
}

// delete DELETE /admin/posts/:id
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	h.purge(c)
	response.NoContent(c)
}
