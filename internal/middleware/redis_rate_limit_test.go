package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/blogworks/postapi/internal/cache"
	"github.com/blogworks/postapi/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRedisRateLimitMiddleware(t *testing.T) {
	rc := cache.Wrap(testutil.NewRedis(t))

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RedisRateLimitMiddleware(rc, RateLimitConfig{Limit: 2, Window: time.Minute}))
	router.POST("/api/auth/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", "/api/auth/login", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRedisRateLimitMiddlewareFallsBackWithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RedisRateLimitMiddleware(nil, RateLimitConfig{Limit: 1, Window: time.Minute}))
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
