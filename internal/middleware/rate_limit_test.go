package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func newLimitedEngine(r rate.Limit, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitPerIP(r, burst))
	router.GET("/api/conversations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return router
}

func doRequest(router *gin.Engine, remoteAddr string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	req.RemoteAddr = remoteAddr
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitAllowsBurstUnderLimit(t *testing.T) {
	router := newLimitedEngine(rate.Limit(1), 3)

	for i := 0; i < 3; i++ {
		if code := doRequest(router, "10.0.0.1:4000"); code != http.StatusOK {
			t.Fatalf("request %d within burst got %d, want 200", i+1, code)
		}
	}
	if code := doRequest(router, "10.0.0.1:4000"); code != http.StatusTooManyRequests {
		t.Errorf("request over burst got %d, want 429", code)
	}
}

func TestRateLimitIsolatesClients(t *testing.T) {
	router := newLimitedEngine(rate.Limit(1), 1)

	if code := doRequest(router, "10.0.0.1:4000"); code != http.StatusOK {
		t.Fatalf("first client first request got %d, want 200", code)
	}
	if code := doRequest(router, "10.0.0.1:4000"); code != http.StatusTooManyRequests {
		t.Fatalf("first client over burst got %d, want 429", code)
	}
	// An exhausted bucket for one IP must not affect another.
	if code := doRequest(router, "10.0.0.2:4000"); code != http.StatusOK {
		t.Errorf("second client got %d, want 200", code)
	}
}

func TestWebhookRegisteredBeforeLimiterIsNotThrottled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	// Same registration order as the application router: the webhook route
	// first, then the limiter for everything after it.
	router.POST("/api/webhook/message", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	router.Use(RateLimitPerIP(rate.Limit(1), 1))
	router.GET("/api/conversations", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	// Exhaust the bucket through the limited route.
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/conversations", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	router.ServeHTTP(w, req)

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/webhook/message", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		router.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("webhook request %d got %d, want 200", i+1, w.Code)
		}
	}
}
