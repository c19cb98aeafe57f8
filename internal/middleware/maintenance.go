package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soldertec/site/internal/pkg/i18n"
)

// Maintenance answers 503 while enabled reports true. Paths equal to, or
// under a "*"-suffixed prefix in, skip keep working.
func Maintenance(enabled func() bool, skip ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled() || matchesAny(c.Request.URL.Path, skip) {
			c.Next()
			return
		}
		c.Header("Retry-After", "300")
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"success":     false,
			"maintenance": true,
			"error":       i18n.T(requestLang(c), i18n.MsgMaintenance),
		})
	}
}

func matchesAny(path string, patterns []string) bool {
	for _, p := range patterns {
		if prefix, ok := strings.CutSuffix(p, "*"); ok {
			if strings.HasPrefix(path, prefix) {
				return true
			}
			continue
		}
		if path == p {
			return true
		}
	}
	return false
}
