package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/soldertec/site/internal/pkg/i18n"
)

// requestLang picks ?lang, then Accept-Language, then the default.
func requestLang(c *gin.Context) i18n.Lang {
	if l, ok := i18n.ParseLang(c.Query("lang")); ok {
		return l
	}
	return i18n.FromAcceptLanguage(c.GetHeader("Accept-Language"))
}
