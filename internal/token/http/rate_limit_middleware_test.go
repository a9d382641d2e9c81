package http

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestIssueRateLimitMiddleware_AllowsRequestsWithinLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := slog.Default()
	middleware := IssueRateLimitMiddleware(10.0, 20, logger)

	router := gin.New()
	router.Use(middleware)
	router.POST("/tokens", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tokens", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestIssueRateLimitMiddleware_BlocksRequestsExceedingLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := slog.Default()
	middleware := IssueRateLimitMiddleware(1.0, 2, logger)

	router := gin.New()
	router.Use(middleware)
	router.POST("/tokens", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Burst capacity succeeds
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/tokens", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}

	// Next request is rate limited
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tokens", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestIssueRateLimitMiddleware_IndependentLimitsPerIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	logger := slog.Default()
	middleware := IssueRateLimitMiddleware(1.0, 1, logger)

	router := gin.New()
	router.Use(middleware)
	router.POST("/tokens", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// First IP consumes its burst
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tokens", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/tokens", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// A different IP still has its own budget
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/tokens", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.2")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
