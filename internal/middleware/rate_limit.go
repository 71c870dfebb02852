package middleware

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// maxTrackedClients bounds the per-IP limiter map. When the cap is hit the
// map is dropped wholesale; affected clients simply start a fresh bucket.
const maxTrackedClients = 10000

// RateLimitPerIP limits dashboard API requests per client IP. Vendor webhooks
// are registered outside this middleware and are never throttled.
func RateLimitPerIP(r rate.Limit, burst int) gin.HandlerFunc {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	return func(c *gin.Context) {
		key := c.ClientIP()

		mu.Lock()
		limiter, exists := limiters[key]
		if !exists {
			if len(limiters) >= maxTrackedClients {
				limiters = make(map[string]*rate.Limiter)
			}
			limiter = rate.NewLimiter(r, burst)
			limiters[key] = limiter
		}
		mu.Unlock()

		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}

		c.Next()
	}
}
