package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/i18n"
	"github.com/soldertec/site/internal/pkg/response"
)

var fieldLabels = map[string]i18n.MsgID{
	"name":    i18n.MsgFieldName,
	"email":   i18n.MsgFieldEmail,
	"company": i18n.MsgFieldCompany,
	"phone":   i18n.MsgFieldPhone,
}

type Handler struct {
	svc         *Service
	logger      *zap.Logger
	showDetails bool
}

func NewHandler(svc *Service, logger *zap.Logger, showDetails bool) *Handler {
	return &Handler{svc: svc, logger: logger, showDetails: showDetails}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Any("/catalog/download", h.download)
}

type failure struct {
	Success bool     `json:"success"`
	Error   string   `json:"error"`
	Fields  []string `json:"fields,omitempty"`
	Details string   `json:"details,omitempty"`
}

func (h *Handler) download(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, failure{Error: i18n.T(i18n.Default, i18n.MsgMethodNotAllowed)})
		return
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, failure{
			Error:   i18n.Tf(i18n.Default, i18n.MsgContactMissingFields, "name, email"),
			Details: "request body must be a JSON object",
		})
		return
	}
	lang := i18n.Normalize(req.Language)

	url, err := h.svc.Download(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		h.fail(c, lang, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": i18n.T(lang, i18n.MsgCatalogSent),
		"url":     url,
	})
}

func (h *Handler) fail(c *gin.Context, lang i18n.Lang, err error) {
	status := apperr.Status(err)
	body := failure{Fields: apperr.FieldsOf(err)}
	switch {
	case apperr.IsMissingFields(err):
		labels := make([]string, 0, len(body.Fields))
		for _, f := range body.Fields {
			if id, ok := fieldLabels[f]; ok {
				labels = append(labels, i18n.T(lang, id))
			} else {
				labels = append(labels, f)
			}
		}
		body.Error = i18n.Tf(lang, i18n.MsgContactMissingFields, strings.Join(labels, ", "))
	case errors.Is(err, apperr.ErrValidation):
		body.Error = i18n.T(lang, i18n.MsgContactInvalidEmail)
		if len(body.Fields) != 1 || body.Fields[0] != "email" {
			body.Error = apperr.PublicMessage(err)
		}
	default:
		h.logger.Error("catalog download failed", zap.Int("status", status), zap.Error(err))
		body.Error = i18n.T(lang, i18n.MsgServerError)
		if h.showDetails {
			body.Details = response.Details(err)
		}
	}
	c.JSON(status, body)
}
