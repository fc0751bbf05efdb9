package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atelier/marketplace/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// frozenLimiter returns a limiter whose clock only moves when the test says so
func frozenLimiter(t *testing.T, requests int, window time.Duration) (*RateLimiter, func(time.Duration)) {
	t.Helper()
	rl := NewRateLimiter(requests, window)
	t.Cleanup(rl.Close)

	var mu sync.Mutex
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	return rl, func(d time.Duration) {
		mu.Lock()
		now = now.Add(d)
		mu.Unlock()
	}
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows a full burst then blocks", func(t *testing.T) {
		rl, _ := frozenLimiter(t, 3, time.Minute)

		for i := 0; i < 3; i++ {
			assert.True(t, rl.Allow("client"), "request %d should be allowed", i+1)
		}
		ok, wait := rl.Reserve("client")
		assert.False(t, ok)
		assert.InDelta(t, 20*time.Second, wait, float64(time.Second))
	})

	t.Run("separate buckets per client", func(t *testing.T) {
		rl, _ := frozenLimiter(t, 2, time.Minute)

		assert.True(t, rl.Allow("a"))
		assert.True(t, rl.Allow("a"))
		assert.False(t, rl.Allow("a"))
		assert.True(t, rl.Allow("b"))
	})

	t.Run("refills over the window", func(t *testing.T) {
		rl, advance := frozenLimiter(t, 2, time.Minute)

		assert.True(t, rl.Allow("c"))
		assert.True(t, rl.Allow("c"))
		assert.False(t, rl.Allow("c"))

		advance(30 * time.Second)
		assert.True(t, rl.Allow("c"))
		assert.False(t, rl.Allow("c"))
	})

	t.Run("rejected attempts do not consume tokens", func(t *testing.T) {
		rl, advance := frozenLimiter(t, 1, time.Minute)

		assert.True(t, rl.Allow("d"))
		for i := 0; i < 5; i++ {
			assert.False(t, rl.Allow("d"))
		}
		advance(time.Minute)
		assert.True(t, rl.Allow("d"))
	})

	t.Run("evicts idle buckets", func(t *testing.T) {
		rl, advance := frozenLimiter(t, 1, time.Minute)
		rl.Allow("idle")

		advance(3 * time.Minute)
		rl.evictIdle()

		rl.mu.Lock()
		defer rl.mu.Unlock()
		assert.Empty(t, rl.clients)
	})

	t.Run("concurrent callers never exceed the burst", func(t *testing.T) {
		rl, _ := frozenLimiter(t, 10, time.Minute)

		var allowed atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if rl.Allow("shared") {
					allowed.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(10), allowed.Load())
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	rl, _ := frozenLimiter(t, 2, time.Minute)

	router := gin.New()
	router.Use(RequestID(nil))
	router.Use(RateLimit(rl))
	router.GET("/products", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, call("10.0.0.1").Code)

	limited := call("10.0.0.1")
	require.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "30", limited.Header().Get("Retry-After"))
	assert.Equal(t, dto.ErrCodeRateLimited, errorCode(t, limited))

	assert.Equal(t, http.StatusOK, call("10.0.0.2").Code)
}

func TestRateLimitByKey(t *testing.T) {
	rl, _ := frozenLimiter(t, 1, time.Minute)

	router := gin.New()
	router.POST("/auth/login", RateLimitByKey(rl, func(c *gin.Context) string {
		return "login:" + c.GetHeader("X-Email")
	}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	login := func(email string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.Header.Set("X-Email", email)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, login("a@example.com"))
	assert.Equal(t, http.StatusTooManyRequests, login("a@example.com"))
	assert.Equal(t, http.StatusOK, login("b@example.com"))
}
