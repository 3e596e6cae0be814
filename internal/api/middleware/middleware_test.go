package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw)
	router.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return router
}

func get(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS_AllowedOrigin(t *testing.T) {
	router := okRouter(CORS([]string{"http://localhost:3000"}))

	w := get(router, map[string]string{"Origin": "http://localhost:3000"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = get(router, map[string]string{"Origin": "http://evil.example"})
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	router := okRouter(CORS([]string{"*"}))

	w := get(router, map[string]string{"Origin": "http://anywhere.example"})
	assert.Equal(t, "http://anywhere.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightShortCircuits(t *testing.T) {
	router := okRouter(CORS([]string{"*"}))

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestRateLimit_RejectsBeyondBurst(t *testing.T) {
	// 4 rpm gives a burst of 2: two requests pass, the third is rejected.
	router := okRouter(RateLimit(4))

	require.Equal(t, http.StatusOK, get(router, nil).Code)
	require.Equal(t, http.StatusOK, get(router, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, nil).Code)
}

func TestRateLimit_MinimumBurstOfOne(t *testing.T) {
	router := okRouter(RateLimit(1))

	require.Equal(t, http.StatusOK, get(router, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, get(router, nil).Code)
}

func TestRateLimit_SweepEvictsIdleClients(t *testing.T) {
	limiter := newIPLimiter(60)

	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		limiter.getLimiter(ip)
	}
	require.Len(t, limiter.clients, 3)

	// Backdate two entries past the idle cutoff; only the fresh one
	// survives the sweep.
	limiter.clients["10.0.0.1"].lastSeen = time.Now().Add(-10 * time.Minute)
	limiter.clients["10.0.0.2"].lastSeen = time.Now().Add(-10 * time.Minute)

	limiter.sweep(limiterIdleTTL)
	require.Len(t, limiter.clients, 1)
	_, ok := limiter.clients["10.0.0.3"]
	assert.True(t, ok)

	// An evicted client that returns gets a fresh bucket.
	limiter.getLimiter("10.0.0.1")
	assert.Len(t, limiter.clients, 2)
}
