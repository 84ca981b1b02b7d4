package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"opportunity_hub/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubVerifier map[string]domain.Identity

func (s stubVerifier) Verify(token string) (domain.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return domain.Identity{}, errors.New("bad token")
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(path, token string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestAuthenticateAndRequireRole(t *testing.T) {
	verifier := stubVerifier{
		"emp": {UserID: 1, Role: domain.RoleEmployer},
		"stu": {UserID: 2, Role: domain.RoleStudent},
	}
	r := gin.New()
	r.GET("/employer", Authenticate(verifier), RequireRole(domain.RoleEmployer), func(c *gin.Context) {
		id, ok := IdentityFrom(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user": id.UserID})
	})

	cases := []struct {
		name   string
		token  string
		status int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"bad token", "forged", http.StatusUnauthorized},
		{"wrong role", "stu", http.StatusUnauthorized},
		{"matching role", "emp", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serve(r, get("/employer", tc.token))
			assert.Equal(t, tc.status, w.Code)
			if tc.status != http.StatusOK {
				assert.Contains(t, w.Body.String(), `"msg"`)
			}
		})
	}
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequireRole(domain.RoleSchool), func(c *gin.Context) { c.Status(http.StatusOK) })
	assert.Equal(t, http.StatusUnauthorized, serve(r, get("/x", "")).Code)
}

func TestRequestIDGeneratedAndPropagated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), AccessLog())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := serve(r, get("/x", ""))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := get("/x", "")
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(r, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestLocalLimiterWindow(t *testing.T) {
	l := NewLocalLimiter()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(ctx, "k", 3, time.Minute))
	}
	assert.False(t, l.Allow(ctx, "k", 3, time.Minute))
	assert.True(t, l.Allow(ctx, "other", 3, time.Minute))

	now = now.Add(time.Minute)
	assert.True(t, l.Allow(ctx, "k", 3, time.Minute))
}

func TestRateLimitKeysByUser(t *testing.T) {
	verifier := stubVerifier{
		"a": {UserID: 1, Role: domain.RoleStudent},
		"b": {UserID: 2, Role: domain.RoleStudent},
	}
	l := NewLocalLimiter()
	r := gin.New()
	r.GET("/apply", Authenticate(verifier), RateLimit(l, "apply", 1, time.Hour), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, serve(r, get("/apply", "a")).Code)
	w := serve(r, get("/apply", "a"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "3600", w.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, serve(r, get("/apply", "b")).Code)
}

func TestRateLimitDisabled(t *testing.T) {
	var nilRedis *RedisLimiter
	for name, l := range map[string]Limiter{"nil limiter": nil, "nil redis": nilRedis} {
		t.Run(name, func(t *testing.T) {
			r := gin.New()
			r.GET("/x", RateLimit(l, "x", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })
			for i := 0; i < 3; i++ {
				assert.Equal(t, http.StatusOK, serve(r, get("/x", "")).Code)
			}
		})
	}
}

func TestNewRedisLimiterWithoutClient(t *testing.T) {
	assert.Nil(t, NewRedisLimiter(nil))
}
