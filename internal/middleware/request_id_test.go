package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func requestIDEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"requestId": c.GetString("request_id")})
	})
	return router
}

func TestRequestIDGenerated(t *testing.T) {
	router := requestIDEngine()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Header().Get("X-Request-ID")
	if id == "" {
		t.Fatal("X-Request-ID header not set")
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("generated id %q is not a UUID: %v", id, err)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	router := requestIDEngine()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	router.ServeHTTP(w, req)

	if got := w.Header().Get("X-Request-ID"); got != "caller-supplied-id" {
		t.Errorf("caller id not echoed, got %q", got)
	}
}
