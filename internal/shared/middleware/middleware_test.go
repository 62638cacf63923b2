package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"foodgram-backend/internal/shared"
	"foodgram-backend/pkg/jwt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeRevocations struct {
	revoked map[string]bool
}

func (f *fakeRevocations) IsRevoked(_ context.Context, id string) (bool, error) {
	return f.revoked[id], nil
}

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }

func newEngine(mw ...gin.HandlerFunc) (*gin.Engine, *shared.Actor) {
	seen := &shared.Actor{}
	r := gin.New()
	r.Use(mw...)
	r.GET("/probe", func(c *gin.Context) {
		*seen = GetActor(c)
		c.Status(http.StatusOK)
	})
	return r, seen
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	token, claims, err := manager.GenerateAccessToken(7, "a@example.com", shared.RoleUser)
	require.NoError(t, err)

	revocations := &fakeRevocations{revoked: map[string]bool{}}
	r, seen := newEngine(AuthMiddleware(manager, revocations))

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "").Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer nope").Code)
	})

	t.Run("bearer token", func(t *testing.T) {
		w := do(r, "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(7), seen.UserID)
	})

	t.Run("token scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, do(r, "Token "+token).Code)
	})

	t.Run("revoked token", func(t *testing.T) {
		revocations.revoked[claims.ID] = true
		defer delete(revocations.revoked, claims.ID)
		assert.Equal(t, http.StatusUnauthorized, do(r, "Bearer "+token).Code)
	})
}

func TestOptionalAuthMiddlewareFallsBackToAnonymous(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	r, seen := newEngine(OptionalAuthMiddleware(manager, nil))

	w := do(r, "Bearer invalid")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, seen.IsAuthenticated())

	token, _, err := manager.GenerateAccessToken(3, "b@example.com", shared.RoleAdmin)
	require.NoError(t, err)
	do(r, "Bearer "+token)
	assert.Equal(t, int64(3), seen.UserID)
	assert.True(t, seen.IsAdmin())
}

func TestAdminMiddleware(t *testing.T) {
	manager := jwt.NewManager("secret", time.Hour)
	r, _ := newEngine(AuthMiddleware(manager, nil), AdminMiddleware())

	userToken, _, _ := manager.GenerateAccessToken(1, "u@example.com", shared.RoleUser)
	adminToken, _, _ := manager.GenerateAccessToken(2, "a@example.com", shared.RoleAdmin)

	assert.Equal(t, http.StatusForbidden, do(r, "Bearer "+userToken).Code)
	assert.Equal(t, http.StatusOK, do(r, "Bearer "+adminToken).Code)
}

func TestRateLimit(t *testing.T) {
	r, _ := newEngine(RateLimit(denyAll{}))

	w := do(r, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))
}

func TestRequestIDAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Recovery())
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	r, _ := newEngine(metrics.Middleware())

	do(r, "")
	do(r, "")

	expected := `
# HELP http_requests_total Total number of HTTP requests
# TYPE http_requests_total counter
http_requests_total{method="GET",route="/probe",status="200"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "http_requests_total"))
}
