package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"
)

const (
	maxTrackedClients = 10000
	clientIdleTTL     = time.Hour
)

// PerClient hands out one token bucket per client key. Idle keys are evicted.
type PerClient struct {
	mu        sync.Mutex
	limiters  *expirable.LRU[string, *rate.Limiter]
	perSecond float64
	burst     int
}

func NewPerClient(perSecond float64, burst int) *PerClient {
	return &PerClient{
		limiters:  expirable.NewLRU[string, *rate.Limiter](maxTrackedClients, nil, clientIdleTTL),
		perSecond: perSecond,
		burst:     burst,
	}
}

func (p *PerClient) Allow(key string) bool {
	p.mu.Lock()
	limiter, ok := p.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(p.perSecond), p.burst)
	}
	// re-adding refreshes the idle expiry
	p.limiters.Add(key, limiter)
	p.mu.Unlock()
	return limiter.Allow()
}

// RateLimit rejects requests over the client's budget with a JSON 429. The client key is the remote IP.
func RateLimit(p *PerClient) gin.HandlerFunc {
	return RateLimitWith(p, func(c *gin.Context) {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many analysis requests, slow down"})
	})
}

// RateLimitWith lets the caller write the rejection, e.g. an HTML page.
func RateLimitWith(p *PerClient, onLimit gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !p.Allow(c.ClientIP()) {
			onLimit(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
