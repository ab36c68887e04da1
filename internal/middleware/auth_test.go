package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/tanque-cheio/internal/auth"
	"github.com/ukydev/tanque-cheio/internal/models"
	"github.com/ukydev/tanque-cheio/internal/monitoring"
)

func TestAuthMiddleware_Authenticate(t *testing.T) {
	authService, err := auth.NewService("middleware-test-secret", time.Hour)
	require.NoError(t, err)
	middleware := NewAuthMiddleware(authService)

	t.Run("valid token", func(t *testing.T) {
		user := &models.User{ID: "6730f1a2b3c4d5e6f7a8b9c0", Email: "ana@example.com"}
		token, _ := authService.GenerateToken(user)

		req := httptest.NewRequest("GET", "/api/dashboard", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
			claims, ok := GetUserFromContext(r.Context())
			assert.True(t, ok)
			assert.Equal(t, user.ID, claims.UserID)
			assert.Equal(t, user.Email, claims.Email)
		})

		middleware.Authenticate(handler).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("missing authorization header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/dashboard", nil)
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})

		middleware.Authenticate(handler).ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/dashboard", nil)
		req.Header.Set("Authorization", "Bearer invalid-token")
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})

		middleware.Authenticate(handler).ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid token")
	})

	for _, path := range []string{"/api/auth/login", "/api/auth/register", "/health", "/metrics"} {
		t.Run("skip auth "+path, func(t *testing.T) {
			req := httptest.NewRequest("POST", path, nil)
			w := httptest.NewRecorder()

			handlerCalled := false
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handlerCalled = true
			})

			middleware.Authenticate(handler).ServeHTTP(w, req)
			assert.True(t, handlerCalled)
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	middleware := NewRateLimitMiddleware()

	t.Run("rate limit not exceeded", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/test", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})

		middleware.RateLimit(5, time.Minute)(handler).ServeHTTP(w, req)
		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rate limit exceeded", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/api/test", nil)
		req.RemoteAddr = "192.168.1.2:12345"
		w := httptest.NewRecorder()

		handlerCalled := false
		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			handlerCalled = true
		})

		rateLimitHandler := middleware.RateLimit(1, time.Minute)(handler)

		rateLimitHandler.ServeHTTP(w, req)
		assert.True(t, handlerCalled)
		assert.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		handlerCalled = false
		rateLimitHandler.ServeHTTP(w, req)
		assert.False(t, handlerCalled)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("window slides", func(t *testing.T) {
		limiter := NewRateLimitMiddleware()
		now := time.Date(2024, time.November, 20, 10, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }

		assert.True(t, limiter.allow("10.0.0.1", 2, time.Minute))
		assert.True(t, limiter.allow("10.0.0.1", 2, time.Minute))
		assert.False(t, limiter.allow("10.0.0.1", 2, time.Minute))
		assert.True(t, limiter.allow("10.0.0.2", 2, time.Minute))

		now = now.Add(61 * time.Second)
		assert.True(t, limiter.allow("10.0.0.1", 2, time.Minute))
	})

	t.Run("idle clients are evicted", func(t *testing.T) {
		limiter := NewRateLimitMiddleware()
		now := time.Date(2024, time.November, 20, 10, 0, 0, 0, time.UTC)
		limiter.now = func() time.Time { return now }

		for i := 0; i < 100; i++ {
			require.True(t, limiter.allow(fmt.Sprintf("198.51.100.%d", i), 2, time.Minute))
		}
		require.Len(t, limiter.requests, 100)

		now = now.Add(30 * time.Second)
		assert.True(t, limiter.allow("10.0.0.1", 2, time.Minute))
		assert.Len(t, limiter.requests, 101, "clients still inside the window are kept")

		now = now.Add(45 * time.Second)
		assert.True(t, limiter.allow("10.0.0.2", 2, time.Minute))
		assert.Len(t, limiter.requests, 2)
		assert.Contains(t, limiter.requests, "10.0.0.1")
		assert.Contains(t, limiter.requests, "10.0.0.2")
	})
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.168.1.9:4000"
	assert.Equal(t, "192.168.1.9", getClientIP(req))

	req.Header.Set("X-Real-IP", "10.1.1.1")
	assert.Equal(t, "10.1.1.1", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.1.1.1")
	assert.Equal(t, "203.0.113.5", getClientIP(req))

	// a client talking to the API directly cannot pick its own bucket
	req.RemoteAddr = "198.51.100.7:5000"
	assert.Equal(t, "198.51.100.7", getClientIP(req))

	req.RemoteAddr = "[::1]:5000"
	assert.Equal(t, "203.0.113.5", getClientIP(req))
}

func TestGetUserFromContext(t *testing.T) {
	claims := &models.Claims{
		UserID: "test-id",
		Email:  "ana@example.com",
	}

	ctx := WithUser(context.Background(), claims)

	retrievedClaims, ok := GetUserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, claims.UserID, retrievedClaims.UserID)
	assert.Equal(t, claims.Email, retrievedClaims.Email)

	_, ok = GetUserFromContext(context.Background())
	assert.False(t, ok)
}

func TestRequestID(t *testing.T) {
	var captured string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
	}))

	t.Run("generates id", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		headerID := rec.Header().Get("X-Request-ID")
		_, err := uuid.Parse(headerID)
		assert.NoError(t, err)
		assert.Equal(t, headerID, captured)
	})

	t.Run("keeps valid incoming id", func(t *testing.T) {
		incoming := uuid.New().String()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", incoming)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, incoming, rec.Header().Get("X-Request-ID"))
		assert.Equal(t, incoming, captured)
	})

	t.Run("replaces invalid incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "not-a-uuid")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.NotEqual(t, "not-a-uuid", captured)
		_, err := uuid.Parse(captured)
		assert.NoError(t, err)
	})
}

func testRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	ok := func(w http.ResponseWriter, r *http.Request) {}
	mux.HandleFunc("GET /health", ok)
	mux.HandleFunc("GET /api/dashboard", ok)
	mux.HandleFunc("GET /api/vehicles/{id}/fillups", ok)
	mux.HandleFunc("GET /api/alerts/{id}/message", ok)
	return mux
}

func scrapeRequestSeries(t *testing.T, metrics *monitoring.Metrics) []string {
	t.Helper()
	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var series []string
	for _, line := range strings.Split(rec.Body.String(), "\n") {
		if strings.HasPrefix(line, "tanquecheio_http_requests_total{") {
			series = append(series, line)
		}
	}
	return series
}

func TestAccessLog(t *testing.T) {
	metrics := monitoring.NewMetrics()
	handler := AccessLog(metrics, testRoutes())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/vehicles/6730f1a2b3c4d5e6f7a8b9c0/fillups", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	series := scrapeRequestSeries(t, metrics)
	require.Len(t, series, 1)
	assert.Contains(t, series[0], `route="/api/vehicles/{id}/fillups"`)
	assert.Contains(t, series[0], `status="404"`)
}

func TestAccessLog_UnknownPathsShareOneSeries(t *testing.T) {
	metrics := monitoring.NewMetrics()
	handler := AccessLog(metrics, testRoutes())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))

	for i := 0; i < 500; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scan/"+uuid.NewString(), nil))
		require.Equal(t, http.StatusNotFound, rec.Code)
	}

	series := scrapeRequestSeries(t, metrics)
	require.Len(t, series, 1)
	assert.Contains(t, series[0], `route="unmatched"`)
	assert.True(t, strings.HasSuffix(series[0], " 500"), series[0])
}

func TestRouteLabel(t *testing.T) {
	routes := testRoutes()
	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/dashboard", "/api/dashboard"},
		{http.MethodGet, "/api/vehicles/6730f1a2b3c4d5e6f7a8b9c0/fillups", "/api/vehicles/{id}/fillups"},
		{http.MethodGet, "/api/alerts/mock-3/message", "/api/alerts/{id}/message"},
		{http.MethodGet, "/health", "/health"},
		{http.MethodGet, "/wp-admin/setup.php", unmatchedRoute},
		{http.MethodGet, "/api/vehicles/6730f1a2b3c4d5e6f7a8b9c0", unmatchedRoute},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, routeLabel(routes, httptest.NewRequest(tt.method, tt.path, nil)))
		})
	}

	assert.Equal(t, unmatchedRoute, routeLabel(nil, httptest.NewRequest(http.MethodGet, "/health", nil)))
}
