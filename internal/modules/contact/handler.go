package contact

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/emailsuggest"
	"github.com/soldertec/site/internal/pkg/i18n"
	"github.com/soldertec/site/internal/pkg/response"
)

var fieldLabels = map[string]i18n.MsgID{
	"name":         i18n.MsgFieldName,
	"email":        i18n.MsgFieldEmail,
	"phone":        i18n.MsgFieldPhone,
	"state":        i18n.MsgFieldState,
	"municipality": i18n.MsgFieldMunicipality,
	"company":      i18n.MsgFieldCompany,
	"position":     i18n.MsgFieldPosition,
	"industry":     i18n.MsgFieldIndustry,
	"message":      i18n.MsgFieldMessage,
}

type Handler struct {
	svc         *Service
	suggester   *emailsuggest.Suggester
	logger      *zap.Logger
	showDetails bool
}

func NewHandler(svc *Service, suggester *emailsuggest.Suggester, logger *zap.Logger, showDetails bool) *Handler {
	return &Handler{svc: svc, suggester: suggester, logger: logger, showDetails: showDetails}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.Any("/contact", h.submit)
	rg.GET("/contact/suggest-email", h.suggest)
}

type errorBody struct {
	Error      string   `json:"error"`
	Fields     []string `json:"fields,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
	Details    string   `json:"details,omitempty"`
}

func (h *Handler) submit(c *gin.Context) {
	if c.Request.Method != http.MethodPost {
		c.JSON(http.StatusMethodNotAllowed, errorBody{Error: i18n.T(i18n.Default, i18n.MsgMethodNotAllowed)})
		return
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Debug("contact body rejected", zap.Error(err))
		c.JSON(http.StatusBadRequest, errorBody{
			Error:   i18n.Tf(i18n.Default, i18n.MsgContactMissingFields, "name, email, message"),
			Details: "request body must be a JSON object",
		})
		return
	}
	lang := i18n.Normalize(req.Language)

	res, err := h.svc.Submit(c.Request.Context(), req)
	if err != nil {
		h.fail(c, lang, req.Email, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": i18n.T(lang, i18n.MsgContactSent),
		"ids":     res,
	})
}

func (h *Handler) fail(c *gin.Context, lang i18n.Lang, email string, err error) {
	if !errors.Is(err, apperr.ErrValidation) {
		h.logger.Error("contact submission failed", zap.Error(err))
		body := errorBody{Error: i18n.T(lang, i18n.MsgContactSendFailed)}
		if h.showDetails {
			body.Details = response.Details(err)
		}
		c.JSON(apperr.Status(err), body)
		return
	}

	fields := apperr.FieldsOf(err)
	h.logger.Debug("contact submission rejected", zap.Strings("fields", fields), zap.Error(err))
	body := errorBody{Fields: fields}
	if apperr.IsMissingFields(err) {
		labels := make([]string, 0, len(fields))
		for _, f := range fields {
			if id, ok := fieldLabels[f]; ok {
				labels = append(labels, i18n.T(lang, id))
			} else {
				labels = append(labels, f)
			}
		}
		body.Error = i18n.Tf(lang, i18n.MsgContactMissingFields, strings.Join(labels, ", "))
		c.JSON(http.StatusBadRequest, body)
		return
	}

	body.Error = i18n.T(lang, i18n.MsgContactInvalidEmail)
	if len(fields) != 1 || fields[0] != "email" {
		body.Error = apperr.PublicMessage(err)
	}
	if s, ok := h.suggester.Suggest(email); ok {
		body.Suggestion = s
	}
	c.JSON(http.StatusBadRequest, body)
}

func (h *Handler) suggest(c *gin.Context) {
	s, _ := h.suggester.Suggest(c.Query("email"))
	c.JSON(http.StatusOK, gin.H{"suggestion": s})
}
