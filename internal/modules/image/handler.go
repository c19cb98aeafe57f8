package image

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/soldertec/site/internal/pkg/apperr"
	"github.com/soldertec/site/internal/pkg/response"
)

// multipart framing allowance on top of the file itself
const formOverhead = 1 << 20

type Handler struct {
	svc         *Service
	logger      *zap.Logger
	showDetails bool
}

func NewHandler(svc *Service, logger *zap.Logger, showDetails bool) *Handler {
	return &Handler{svc: svc, logger: logger, showDetails: showDetails}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/admin/images", authMW)
	g.POST("", h.upload)
	g.DELETE("", h.delete)
}

func (h *Handler) fail(c *gin.Context, err error) {
	if apperr.Status(err) >= 500 {
		h.logger.Error("image request failed", zap.String("method", c.Request.Method), zap.Error(err))
	}
	response.Error(c, err, h.showDetails)
}

func tooLarge(c *gin.Context) {
	response.Abort(c, http.StatusRequestEntityTooLarge, "file exceeds 10 MiB")
}

// upload POST /admin/images
func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxUploadBytes+formOverhead)
	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			tooLarge(c)
			return
		}
		response.BadRequest(c, "file is required")
		return
	}
	if fh.Size > MaxUploadBytes {
		tooLarge(c)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "file could not be read")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, MaxUploadBytes+1))
	if err != nil {
		response.BadRequest(c, "file could not be read")
		return
	}
	if len(data) > MaxUploadBytes {
		tooLarge(c)
		return
	}

	res, err := h.svc.Upload(c.Request.Context(), data)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Info("image uploaded", zap.String("key", res.Key), zap.Int64("size", res.Size))
	response.Created(c, res)
}

// delete DELETE /admin/images?key=
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Query("key")); err != nil {
		h.fail(c, err)
		return
	}
	response.NoContent(c)
}
