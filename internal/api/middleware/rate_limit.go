package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/hoopiq/courtcast/pkg/utils"
)

const (
	limiterIdleTTL     = 3 * time.Minute
	limiterSweepPeriod = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type ipLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
}

func newIPLimiter(requestsPerMinute int) *ipLimiter {
	burst := requestsPerMinute / 2
	if burst < 1 {
		burst = 1
	}
	return &ipLimiter{
		clients: make(map[string]*clientLimiter),
		rate:    rate.Limit(float64(requestsPerMinute) / 60.0),
		burst:   burst,
	}
}

func (l *ipLimiter) getLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	client, exists := l.clients[ip]
	if !exists {
		client = &clientLimiter{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = time.Now()
	return client.limiter
}

// sweep drops entries idle longer than maxIdle. Without it a scan across
// spoofed source addresses would grow the map without bound.
func (l *ipLimiter) sweep(maxIdle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, client := range l.clients {
		if time.Since(client.lastSeen) > maxIdle {
			delete(l.clients, ip)
		}
	}
}

// RateLimit rejects clients exceeding requestsPerMinute with 429, using a
// per-IP token bucket. Idle client entries are evicted periodically.
func RateLimit(requestsPerMinute int) gin.HandlerFunc {
	limiter := newIPLimiter(requestsPerMinute)

	go func() {
		ticker := time.NewTicker(limiterSweepPeriod)
		defer ticker.Stop()
		for range ticker.C {
			limiter.sweep(limiterIdleTTL)
		}
	}()

	return func(c *gin.Context) {
		if !limiter.getLimiter(c.ClientIP()).Allow() {
			utils.SendError(c, http.StatusTooManyRequests,
				utils.NewAppError("RATE_LIMITED", "Too many requests"))
			c.Abort()
			return
		}
		c.Next()
	}
}
