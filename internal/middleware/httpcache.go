package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	APICachePrefix       = "site-api-cache:"
	defaultCacheTTL      = 60 * time.Second
	defaultCacheMaxBody  = 1 << 20
	staleWhileRevalidate = 60
)

type HTTPCacheOptions struct {
	TTL     time.Duration
	Disable bool
	// MaxBodyBytes bounds what is stored; larger responses pass uncached.
	MaxBodyBytes int
}

type cacheEntry struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType,omitempty"`
	Body        []byte `json:"body"`
}

// HTTPCache keeps public GET responses in redis until they expire or a
// write purges them.
type HTTPCache struct {
	kv   KV
	opts HTTPCacheOptions
}

func NewHTTPCache(kv KV, opts HTTPCacheOptions) *HTTPCache {
	if opts.TTL <= 0 {
		opts.TTL = defaultCacheTTL
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultCacheMaxBody
	}
	return &HTTPCache{kv: kv, opts: opts}
}

func (h *HTTPCache) Handler() gin.HandlerFunc {
	control := "public, s-maxage=" + strconv.Itoa(int(h.opts.TTL/time.Second)) +
		", stale-while-revalidate=" + strconv.Itoa(staleWhileRevalidate)

	return func(c *gin.Context) {
		if h.opts.Disable || h.kv == nil || bypassCache(c) {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		key := APICachePrefix + c.Request.URL.RequestURI()
		if entry, ok := h.load(ctx, key); ok {
			c.Header("X-Cache", "hit")
			if entry.Status == http.StatusOK {
				c.Header("Cache-Control", control)
			}
			c.Data(entry.Status, entry.ContentType, entry.Body)
			c.Abort()
			return
		}

		w := &captureWriter{ResponseWriter: c.Writer, limit: h.opts.MaxBodyBytes, control: control}
		c.Writer = w
		c.Header("X-Cache", "miss")
		c.Next()

		status := w.Status()
		if status != http.StatusOK || w.overflow || len(w.body) == 0 || !storable(w.Header()) {
			return
		}
		raw, err := json.Marshal(cacheEntry{
			Status:      status,
			ContentType: w.Header().Get("Content-Type"),
			Body:        w.body,
		})
		if err != nil {
			return
		}
		_ = h.kv.Set(ctx, key, string(raw), h.opts.TTL)
	}
}

// Purge drops every cached response.
func (h *HTTPCache) Purge(ctx context.Context) error {
	if h.kv == nil {
		return nil
	}
	_, err := h.kv.DelPattern(ctx, APICachePrefix+"*")
	return err
}

func (h *HTTPCache) load(ctx context.Context, key string) (cacheEntry, bool) {
	raw, err := h.kv.Get(ctx, key)
	if err != nil || raw == "" {
		return cacheEntry{}, false
	}
	var entry cacheEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.Status == 0 {
		return cacheEntry{}, false
	}
	if entry.ContentType == "" {
		entry.ContentType = "application/json; charset=utf-8"
	}
	return entry, true
}

// captureWriter copies up to limit bytes of the body and stamps
// Cache-Control on successful responses before headers are flushed.
type captureWriter struct {
	gin.ResponseWriter
	body     []byte
	limit    int
	overflow bool
	control  string
}

func (w *captureWriter) Write(data []byte) (int, error) {
	w.capture(data)
	return w.ResponseWriter.Write(data)
}

func (w *captureWriter) WriteString(s string) (int, error) {
	w.capture([]byte(s))
	return w.ResponseWriter.WriteString(s)
}

func (w *captureWriter) capture(data []byte) {
	if !w.Written() && w.Status() == http.StatusOK && w.Header().Get("Cache-Control") == "" {
		w.Header().Set("Cache-Control", w.control)
	}
	if w.overflow {
		return
	}
	if len(w.body)+len(data) > w.limit {
		w.overflow = true
		w.body = nil
		return
	}
	w.body = append(w.body, data...)
}

// bypassCache skips authenticated, non-GET and cache-busting requests.
func bypassCache(c *gin.Context) bool {
	if c.Request.Method != http.MethodGet || c.GetHeader("Authorization") != "" {
		return true
	}
	query := c.Request.URL.Query()
	for _, k := range []string{"ts", "timestamp", "_t", "t"} {
		if strings.TrimSpace(query.Get(k)) != "" {
			return true
		}
	}
	return false
}

// storable reports whether the handler allowed shared caching.
func storable(headers http.Header) bool {
	cc := strings.ToLower(headers.Get("Cache-Control"))
	return !strings.Contains(cc, "no-cache") &&
		!strings.Contains(cc, "no-store") &&
		!strings.Contains(cc, "private")
}
