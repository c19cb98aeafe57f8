package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/soldertec/site/internal/pkg/i18n"
)

const (
	defaultRateLimit       = 10
	defaultRateLimitWindow = time.Minute
	visitorIdleTTL         = time.Hour
)

type RateLimitOptions struct {
	// Limit requests per Window and client IP.
	Limit  int
	Window time.Duration
	Prefix string
}

// visitors is the in-process fallback used when redis is absent or failing.
type visitors struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	val       map[string]*visitor
	lastSweep time.Time
}

type visitor struct {
	lastSeen time.Time
	limiter  *rate.Limiter
}

func newVisitors(limit int, window time.Duration) *visitors {
	return &visitors{
		limit: rate.Every(window / time.Duration(limit)),
		burst: limit,
		val:   make(map[string]*visitor),
	}
}

func (vs *visitors) allow(ip string, now time.Time) bool {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if now.Sub(vs.lastSweep) > time.Minute {
		for k, v := range vs.val {
			if now.Sub(v.lastSeen) > visitorIdleTTL {
				delete(vs.val, k)
			}
		}
		vs.lastSweep = now
	}
	v, ok := vs.val[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(vs.limit, vs.burst)}
		vs.val[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// RateLimit caps state-changing requests per client IP. Counting happens in
// redis when kv is set, falling back to an in-process token bucket.
// GET, HEAD and OPTIONS pass through.
func RateLimit(kv KV, opts RateLimitOptions, log *zap.Logger) gin.HandlerFunc {
	if opts.Limit <= 0 {
		opts.Limit = defaultRateLimit
	}
	if opts.Window <= 0 {
		opts.Window = defaultRateLimitWindow
	}
	if opts.Prefix == "" {
		opts.Prefix = "site:rate_limit:"
	}
	if log == nil {
		log = zap.NewNop()
	}
	local := newVisitors(opts.Limit, opts.Window)
	windowSec := max(int64(opts.Window/time.Second), 1)
	retryAfter := strconv.FormatInt(windowSec, 10)

	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		ip := c.ClientIP()
		if ip == "" {
			c.Next()
			return
		}

		now := time.Now()
		allowed := true
		counted := false
		if kv != nil {
			bucket := now.Unix() / windowSec
			key := fmt.Sprintf("%s%s:%d", opts.Prefix, ip, bucket)
			count, err := kv.Incr(c.Request.Context(), key, opts.Window+time.Second)
			if err != nil {
				log.Warn("rate limit counter unavailable, using local limiter", zap.Error(err))
			} else {
				counted = true
				allowed = count <= int64(opts.Limit)
			}
		}
		if !counted {
			allowed = local.allow(ip, now)
		}
		if !allowed {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   i18n.T(requestLang(c), i18n.MsgTooManyRequests),
			})
			return
		}
		c.Next()
	}
}
