package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestRateLimitByIP_AllowsWithinBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimitByIP(10.0, 5))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Request %d: Expected status 200, got %d", i, w.Code)
		}
	}
}

func TestRateLimitByIP_BlocksBeyondBurst(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimitByIP(0.001, 2)) // effectively no refill during the test
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	var blocked *httptest.ResponseRecorder
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code == http.StatusTooManyRequests {
			blocked = w
			break
		}
	}

	if blocked == nil {
		t.Fatal("Expected a request beyond the burst to be blocked")
	}
	if blocked.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header on blocked response")
	}
}

func TestRateLimiter_PerIdentifier(t *testing.T) {
	rl := NewRateLimiter(0.001, 1, time.Minute)
	defer rl.Stop()

	if !rl.allow("10.0.0.1") {
		t.Error("Expected first request from 10.0.0.1 to be allowed")
	}
	if rl.allow("10.0.0.1") {
		t.Error("Expected second request from 10.0.0.1 to be blocked")
	}

	// A different identifier has its own bucket
	if !rl.allow("10.0.0.2") {
		t.Error("Expected first request from 10.0.0.2 to be allowed")
	}
}

func TestRateLimiter_Stop(t *testing.T) {
	rl := NewRateLimiter(10.0, 5, 10*time.Millisecond)

	// Stop should terminate the cleanup goroutine without panicking
	rl.Stop()
}
