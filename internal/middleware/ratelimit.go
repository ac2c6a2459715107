package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	cache "github.com/patrickmn/go-cache"
)

// RateLimit is a fixed-window per-IP limiter backed by an expiring counter
// cache. A limit of zero disables it (tests). Request throttling is an
// external-collaborator concern; nothing in the core depends on it.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	if limit <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	counters := cache.New(window, 2*window)

	return func(c *gin.Context) {
		key := c.ClientIP()

		// Add only succeeds for a fresh window; otherwise bump the
		// existing counter without resetting its expiry. The increment can
		// still miss if the entry expires in between; start a new window.
		var count int64 = 1
		if err := counters.Add(key, int64(1), window); err != nil {
			n, incErr := counters.IncrementInt64(key, 1)
			if incErr != nil {
				counters.SetDefault(key, int64(1))
			} else {
				count = n
			}
		}

		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
