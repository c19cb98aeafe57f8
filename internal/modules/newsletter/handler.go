package newsletter

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/soldertec/site/internal/middleware"
	"github.com/soldertec/site/internal/models"
	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/i18n"
	"github.com/soldertec/site/internal/pkg/pagination"
	"github.com/soldertec/site/internal/pkg/response"
)

type Handler struct {
	svc         *Service
	pages       pages
	logger      *zap.Logger
	showDetails bool
}

func NewHandler(svc *Service, logger *zap.Logger, showDetails bool) *Handler {
	return &Handler{
		svc:         svc,
		pages:       pages{siteURL: svc.opts.SiteURL},
		logger:      logger,
		showDetails: showDetails,
	}
}

// RegisterRoutes mounts the public and admin endpoints. notifyMW runs
// before the blog notification send, after authentication.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, notifyMW ...gin.HandlerFunc) {
	g := rg.Group("/newsletter")
	g.Any("/subscribe", h.subscribe)
	g.GET("/confirm", h.confirm)
	g.Any("/unsubscribe", h.unsubscribe)

	admin := g.Group("", authMW)
	admin.GET("/analytics", h.analytics)
	admin.GET("/subscribers", h.subscribers)
	admin.POST("/send-blog-notification", append(notifyMW, h.sendBlogNotification)...)
}

type subscribeRequest struct {
	Email    string `json:"email"`
	Language string `json:"language"`
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

func (h *Handler) subscribe(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, envelope{Error: i18n.T(i18n.Default, i18n.MsgMethodNotAllowed)})
		return
	}
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("newsletter subscribe body rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, envelope{
			Error:   i18n.T(i18n.Default, i18n.MsgSubscribeInvalidEmail),
			Details: "request body must be JSON with email and language",
		})
		return
	}
	if req.Language == "" {
		req.Language = string(i18n.Default)
	}
	lang := i18n.Normalize(req.Language)

	outcome, err := h.svc.Subscribe(c.Request.Context(), req.Email, req.Language)
	if err != nil {
		h.subscribeError(c, lang, err)
		return
	}

	status, msg := http.StatusOK, i18n.MsgSubscribeCheckInbox
	switch outcome {
	case OutcomeCreated:
		status = http.StatusCreated
	case OutcomeAlreadyActive:
		msg = i18n.MsgSubscribeAlreadyActive
	case OutcomeResent:
		msg = i18n.MsgSubscribeResent
	}
	c.JSON(status, envelope{Success: true, Message: i18n.T(lang, msg)})
}

func (h *Handler) subscribeError(c *gin.Context, lang i18n.Lang, err error) {
	status := apperr.Status(err)
	body := envelope{Error: i18n.T(lang, i18n.MsgServerError)}
	switch {
	case errors.Is(err, apperr.ErrValidation):
		h.logger.Debug("newsletter subscribe rejected", zap.Strings("fields", apperr.FieldsOf(err)), zap.Error(err))
		body.Error = i18n.T(lang, i18n.MsgSubscribeInvalidEmail)
		for _, f := range apperr.FieldsOf(err) {
			if f == "language" {
				body.Error = i18n.T(lang, i18n.MsgSubscribeInvalidLanguage)
			}
		}
		body.Details = apperr.PublicMessage(err)
	case errors.Is(err, apperr.ErrConflict):
		h.logger.Info("newsletter subscribe contended", zap.Error(err))
		body.Error = i18n.T(lang, i18n.MsgSubscribeBusy)
	default:
		h.logger.Error("newsletter subscribe failed", zap.Error(err))
		if h.showDetails {
			body.Details = response.Details(err)
		}
	}
	c.JSON(status, body)
}

func (h *Handler) confirm(c *gin.Context) {
	result, _, err := h.svc.Confirm(c.Request.Context(), c.Query("token"))
	if err != nil {
		h.pageError(c, err)
		return
	}
	title, body := i18n.MsgPageConfirmSuccessTitle, i18n.MsgPageConfirmSuccessBody
	if result == ConfirmAlready {
		title, body = i18n.MsgPageConfirmAlreadyTitle, i18n.MsgPageConfirmAlreadyBody
	}
	h.page(c, http.StatusOK, title, body)
}

func (h *Handler) unsubscribe(c *gin.Context) {
	method := c.Request.Method
	if method != http.MethodGet && method != http.MethodPost {
		h.page(c, http.StatusMethodNotAllowed, i18n.MsgPageErrorTitle, i18n.MsgPageErrorBody)
		return
	}
	tok := c.Query("token")
	if tok == "" && method == http.MethodPost {
		tok = c.PostForm("token")
	}

	var (
		result UnsubscribeResult
		sub    *models.SubscriberModel
		err    error
	)
	if method == http.MethodGet {
		result, sub, err = h.svc.UnsubscribePreview(c.Request.Context(), tok)
	} else {
		result, sub, err = h.svc.Unsubscribe(c.Request.Context(), tok)
	}
	if err != nil {
		h.pageError(c, err)
		return
	}

	switch result {
	case UnsubscribePrompt:
		page, err := h.pages.unsubscribeForm(sub.Email, tok)
		if err != nil {
			h.pageError(c, err)
			return
		}
		response.HTML(c, http.StatusOK, page)
	case UnsubscribeAlready:
		h.page(c, http.StatusOK, i18n.MsgPageUnsubscribeAlreadyTitle, i18n.MsgPageUnsubscribeAlreadyBody)
	default:
		h.page(c, http.StatusOK, i18n.MsgPageUnsubscribeSuccessTitle, i18n.MsgPageUnsubscribeSuccessBody)
	}
}

func (h *Handler) page(c *gin.Context, status int, title, body i18n.MsgID) {
	page, err := h.pages.message(title, body)
	if err != nil {
		h.logger.Error("render newsletter page", zap.Error(err))
		c.String(http.StatusInternalServerError, i18n.T(i18n.Default, i18n.MsgServerError))
		return
	}
	response.HTML(c, status, page)
}

func (h *Handler) pageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		h.page(c, http.StatusBadRequest, i18n.MsgPageMissingTokenTitle, i18n.MsgPageMissingTokenBody)
	case errors.Is(err, apperr.ErrNotFound):
		h.page(c, http.StatusNotFound, i18n.MsgPageInvalidLinkTitle, i18n.MsgPageInvalidLinkBody)
	default:
		h.logger.Error("newsletter page failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		h.page(c, apperr.Status(err), i18n.MsgPageErrorTitle, i18n.MsgPageErrorBody)
	}
}

func (h *Handler) analytics(c *gin.Context) {
	stats, err := h.svc.Analytics(c.Request.Context())
	if err != nil {
		h.logger.Error("newsletter analytics failed", zap.Error(err))
		response.Error(c, err, h.showDetails)
		return
	}
	response.OK(c, stats)
}

func (h *Handler) subscribers(c *gin.Context) {
	f := Filter{
		Status:   models.SubscriberState(c.Query("status")),
		Language: c.Query("language"),
		Search:   c.Query("search"),
	}
	subs, meta, err := h.svc.Subscribers(c.Request.Context(), f, pagination.FromContext(c))
	if err != nil {
		if apperr.Status(err) >= http.StatusInternalServerError {
			h.logger.Error("list subscribers failed", zap.Error(err))
		}
		response.Error(c, err, h.showDetails)
		return
	}
	response.Paged(c, subs, meta)
}

type notifyRequest struct {
	PostID string `json:"postId"`
}

func (h *Handler) sendBlogNotification(c *gin.Context) {
	var req notifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "request body must be JSON with postId")
		return
	}
	res, err := h.svc.NotifyPost(c.Request.Context(), req.PostID)
	if err != nil {
		if apperr.Status(err) >= http.StatusInternalServerError {
			h.logger.Error("blog notification failed", zap.String("post", req.PostID), zap.Error(err))
		} else {
			h.logger.Info("blog notification rejected", zap.String("post", req.PostID), zap.Error(err))
		}
		response.Error(c, err, h.showDetails)
		return
	}
	h.logger.Info("blog notification sent",
		zap.String("post", req.PostID),
		zap.String("by", middleware.CurrentEmail(c)))
	response.OK(c, res)
}
