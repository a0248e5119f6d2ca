package security

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// CORS echoes whitelisted origins only and lets browsers read the request id.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	originSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originSet[o] = true
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Add("Vary", "Origin")
		if origin := c.Request.Header.Get("Origin"); origin != "" && originSet[origin] {
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Set("Access-Control-Expose-Headers", "X-Request-ID")
		}
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID, Accept, Origin, Cache-Control")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func Secure() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "no-referrer")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterStore holds one token bucket per client IP.
type limiterStore struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
}

func (s *limiterStore) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(s.limit, s.burst)}
		s.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (s *limiterStore) evict(idle time.Duration, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, v := range s.visitors {
		if now.Sub(v.lastSeen) > idle {
			delete(s.visitors, key)
		}
	}
}

// RateLimiter allows maxRequests per window to each client IP. Paths listed in
// exempt (health checks, metrics scrapes) are never limited. A non-positive
// limit or window disables limiting.
func RateLimiter(maxRequests int, window time.Duration, exempt ...string) gin.HandlerFunc {
	if maxRequests <= 0 || window <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	skip := make(map[string]bool, len(exempt))
	for _, p := range exempt {
		skip[p] = true
	}
	store := &limiterStore{
		visitors: make(map[string]*visitor),
		limit:    rate.Every(window / time.Duration(maxRequests)),
		burst:    maxRequests,
	}

	idle := 3 * window
	if idle < time.Minute {
		idle = time.Minute
	}
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for now := range ticker.C {
			store.evict(idle, now)
		}
	}()

	retryAfter := strconv.Itoa(int(math.Ceil((window / time.Duration(maxRequests)).Seconds())))

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}
		if !store.get(c.ClientIP(), time.Now()).Allow() {
			c.Header("Retry-After", retryAfter)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
