package auth

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Limiter is an in-memory fixed-window request limiter keyed by
// identity. Each key gets capacity requests per window; excess requests
// are refused until the window resets.
type Limiter struct {
	capacity    int
	window      time.Duration
	mu          sync.Mutex
	buckets     map[string]*bucket
	cleanupDone chan struct{}
}

type bucket struct {
	tokens    int
	lastReset time.Time
}

// NewLimiter builds a limiter granting capacity requests per window per
// key. Its cleanup goroutine runs until ctx is cancelled.
func NewLimiter(ctx context.Context, capacity int, window time.Duration) *Limiter {
	l := &Limiter{
		capacity:    capacity,
		window:      window,
		buckets:     make(map[string]*bucket),
		cleanupDone: make(chan struct{}),
	}
	go l.cleanup(ctx)
	return l
}

// Allow reports whether one more request is admitted for key.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	b, exists := l.buckets[key]
	if !exists || now.Sub(b.lastReset) >= l.window {
		l.buckets[key] = &bucket{tokens: l.capacity - 1, lastReset: now}
		return true
	}
	if b.tokens > 0 {
		b.tokens--
		return true
	}
	return false
}

// cleanup drops buckets idle for two windows so the map cannot grow
// without bound. Exits when ctx is cancelled.
func (l *Limiter) cleanup(ctx context.Context) {
	defer close(l.cleanupDone)

	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			now := time.Now()
			for k, b := range l.buckets {
				if now.Sub(b.lastReset) >= l.window*2 {
					delete(l.buckets, k)
				}
			}
			l.mu.Unlock()
		}
	}
}

// RateLimitMiddleware refuses requests over the request ceiling with
// 429. The key is the authenticated subject when one is already known,
// otherwise the client source IP — the usual case, since the ceiling
// guards admission ahead of authentication.
func RateLimitMiddleware(l *Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := Subject(c)
		if key == "" {
			key = c.ClientIP()
		}
		if !l.Allow(key) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
