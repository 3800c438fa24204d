// SPDX-License-Identifier: AGPL-3.0-only
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP and blocks an IP for a
// while once it runs dry.
type RateLimiter struct {
	limit         rate.Limit
	burst         int
	blockDuration time.Duration
	idleTTL       time.Duration

	mu        sync.Mutex
	visitors  map[string]*visitor
	blocked   map[string]time.Time
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(limit rate.Limit, burst int, blockDuration time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:         limit,
		burst:         burst,
		blockDuration: blockDuration,
		idleTTL:       10 * time.Minute,
		visitors:      make(map[string]*visitor),
		blocked:       make(map[string]time.Time),
		now:           time.Now,
	}
}

// NewAuthRateLimiter is tuned for sign-in and sign-up: one attempt every two
// seconds with a burst of five.
func NewAuthRateLimiter() *RateLimiter {
	return NewRateLimiter(rate.Every(2*time.Second), 5, 5*time.Minute)
}

func (r *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAt := r.allow(c.ClientIP())
		if !allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":      "Too many requests",
				"retryAfter": retryAt.Format(time.RFC3339),
			})
			return
		}
		c.Next()
	}
}

func (r *RateLimiter) allow(ip string) (bool, time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweep(now)

	if until, ok := r.blocked[ip]; ok {
		if now.Before(until) {
			return false, until
		}
		delete(r.blocked, ip)
		delete(r.visitors, ip)
	}

	v, ok := r.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(r.limit, r.burst)}
		r.visitors[ip] = v
	}
	v.lastSeen = now

	if !v.limiter.AllowN(now, 1) {
		until := now.Add(r.blockDuration)
		r.blocked[ip] = until
		return false, until
	}
	return true, time.Time{}
}

// sweep drops idle visitors and expired blocks at most once a minute. Caller holds mu.
func (r *RateLimiter) sweep(now time.Time) {
	if now.Sub(r.lastSweep) < time.Minute {
		return
	}
	r.lastSweep = now

	for ip, v := range r.visitors {
		if now.Sub(v.lastSeen) > r.idleTTL {
			delete(r.visitors, ip)
		}
	}
	for ip, until := range r.blocked {
		if now.After(until) {
			delete(r.blocked, ip)
		}
	}
}
