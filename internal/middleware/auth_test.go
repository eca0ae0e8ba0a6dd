package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cartel47-backend/internal/config"
	"cartel47-backend/internal/middleware"
	"cartel47-backend/internal/services"
)

func newAuthRouter(jwtService *services.JWTService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RequestLogger(zap.NewNop()))
	r.GET("/whoami", middleware.AuthMiddleware(jwtService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":  c.GetString(middleware.ContextUserID),
			"is_admin": c.GetBool(middleware.ContextIsAdmin),
		})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	jwtService := services.NewJWTService(&config.Config{JWTSecret: "s3cret", JWTExpiry: time.Hour})
	router := newAuthRouter(jwtService)

	token, _, err := jwtService.GenerateToken("alice", "0xabc", true)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{name: "bearer token", header: "Bearer " + token, status: http.StatusOK},
		{name: "query token", query: "?token=" + token, status: http.StatusOK},
		{name: "missing", status: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, status: http.StatusUnauthorized},
		{name: "bad token", header: "Bearer nope", status: http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami"+tc.query, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.JSONEq(t, `{"user_id":"alice","is_admin":true}`, w.Body.String())
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(middleware.ContextUserID, c.GetHeader("X-User"))
		c.Next()
	})
	r.POST("/bet", middleware.RateLimitMiddleware(services.NewLocalRateLimiter(1), "bet", zap.NewNop()), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	send := func(user string) int {
		req := httptest.NewRequest(http.MethodPost, "/bet", nil)
		req.Header.Set("X-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, send("alice"))
	assert.Equal(t, http.StatusTooManyRequests, send("alice"))
	assert.Equal(t, http.StatusNoContent, send("bob"))
	assert.Equal(t, http.StatusNoContent, send(""), "anonymous requests are not limited")
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.CORS())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
