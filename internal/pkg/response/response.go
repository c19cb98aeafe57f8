package response

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"

	"github.com/soldertec/site/internal/pkg/apperr"
)

// Pagination metadata returned with paginated responses.
type Pagination struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

// pagedResponse is the envelope for paginated list responses.
type pagedResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// errorResponse is the admin/blog error envelope.
type errorResponse struct {
	OK      int      `json:"ok"`
	Code    int      `json:"code"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
	Details string   `json:"details,omitempty"`
}

// OK sends a 200 response. Arrays/slices are wrapped in {data: [...]}.
func OK(c *gin.Context, data interface{}) {
	if data != nil {
		v := reflect.ValueOf(data)
		if v.Kind() == reflect.Slice {
			c.JSON(http.StatusOK, gin.H{"data": data})
			return
		}
	}
	c.JSON(http.StatusOK, data)
}

// Paged sends a paginated response.
func Paged(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, pagedResponse{
		Data:       data,
		Pagination: pagination,
	})
}

// Created sends a 201 response.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// HTML writes a rendered page.
func HTML(c *gin.Context, status int, page []byte) {
	c.Data(status, "text/html; charset=utf-8", page)
}

// Abort sends the admin error envelope with an explicit status.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Code: status, Message: message})
}

// BadRequest sends a 400 error response.
func BadRequest(c *gin.Context, message string) {
	Abort(c, http.StatusBadRequest, message)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *gin.Context) {
	Abort(c, http.StatusUnauthorized, "authentication required")
}

// Forbidden sends a 403 error response.
func Forbidden(c *gin.Context) {
	Abort(c, http.StatusForbidden, "you do not have access to this resource")
}

// NotFound sends a 404 error response.
func NotFound(c *gin.Context) {
	Abort(c, http.StatusNotFound, "not found")
}

// MethodNotAllowed sends a 405 error response.
func MethodNotAllowed(c *gin.Context) {
	Abort(c, http.StatusMethodNotAllowed, "method not allowed")
}

// Error maps err to its status and sends the admin envelope. The cause is
// attached as details only when showDetails is set.
func Error(c *gin.Context, err error, showDetails bool) {
	status := apperr.Status(err)
	body := errorResponse{
		Code:    status,
		Message: apperr.PublicMessage(err),
		Fields:  apperr.FieldsOf(err),
	}
	if showDetails {
		body.Details = Details(err)
	}
	c.AbortWithStatusJSON(status, body)
}

// Details returns the innermost cause text of err for non-production
// responses.
func Details(err error) string {
	var appErr *apperr.Error
	if errors.As(err, &appErr) && appErr.Err != nil {
		return appErr.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
