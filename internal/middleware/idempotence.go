package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	idempotenceHeader = "X-Idempotence"
	idempotenceTTL    = 60 * time.Second
	idempotencePrefix = "site:idempotence:"
)

// Idempotence rejects a repeated non-GET request while the first one is in
// flight or within a minute after it succeeded. Requests are keyed by the
// X-Idempotence header, or by a hash of method, URL, body and caller.
func Idempotence(kv KV) gin.HandlerFunc {
	return func(c *gin.Context) {
		if kv == nil || c.Request.Method == http.MethodGet || c.Request.Method == http.MethodHead {
			c.Next()
			return
		}
		key, err := resolveIdempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		redisKey := idempotencePrefix + key
		ctx := c.Request.Context()
		acquired, err := kv.SetNX(ctx, redisKey, "0", idempotenceTTL)
		if err != nil {
			c.Next()
			return
		}
		if !acquired {
			msg := "the same request already succeeded; wait a minute before repeating it"
			if val, _ := kv.Get(ctx, redisKey); val == "0" {
				msg = "the same request is still being processed"
			}
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"ok":      0,
				"code":    http.StatusConflict,
				"message": msg,
			})
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			_ = kv.Set(ctx, redisKey, "1", idempotenceTTL)
		} else {
			_ = kv.Del(ctx, redisKey)
		}
	}
}

// resolveIdempotenceKey returns the idempotence key for the current request.
func resolveIdempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(idempotenceHeader); hdr != "" {
		return hdr, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	caller := CurrentUserID(c)
	if caller == "" {
		caller = c.ClientIP()
	}
	raw := c.Request.Method + "|" + c.Request.URL.String() + "|" + string(body) + "|" + caller
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}
