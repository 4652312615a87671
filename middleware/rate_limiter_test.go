package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func TestLimitFromEnv_Defaults(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "")
	t.Setenv("RATE_LIMIT_BURST", "")

	limit, burst := limitFromEnv()
	require.Equal(t, rate.Limit(5), limit)
	require.Equal(t, 30, burst)
}

func TestLimitFromEnv_Overrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("RATE_LIMIT_BURST", "10")

	limit, burst := limitFromEnv()
	require.Equal(t, rate.Limit(2.5), limit)
	require.Equal(t, 10, burst)

	// Junk values fall back to defaults.
	t.Setenv("RATE_LIMIT_RPS", "fast")
	t.Setenv("RATE_LIMIT_BURST", "-1")
	limit, burst = limitFromEnv()
	require.Equal(t, rate.Limit(5), limit)
	require.Equal(t, 30, burst)
}

func TestRateLimitMiddleware_RejectsBeyondBurst(t *testing.T) {
	t.Setenv("RATE_LIMIT_RPS", "1")
	t.Setenv("RATE_LIMIT_BURST", "2")

	handler := RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// Distinct IP so the shared visitor map cannot bleed between tests.
	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "203.0.113.77")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, do())
	require.Equal(t, http.StatusOK, do())
	require.Equal(t, http.StatusTooManyRequests, do())
}
