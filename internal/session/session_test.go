package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// replay builds a fresh request carrying the cookies a previous response
// set, the way a browser would on its next visit.
func replay(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func TestCompletions_EmptyByDefault(t *testing.T) {
	store := NewStore("test-secret")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, store.Completions(req))
}

func TestAddCompletion_RoundTrip(t *testing.T) {
	store := NewStore("test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, store.AddCompletion(rec, req, "ch1"))

	req = replay(t, rec)
	rec = httptest.NewRecorder()
	require.NoError(t, store.AddCompletion(rec, req, "ch3"))

	req = replay(t, rec)
	require.Equal(t, []string{"ch1", "ch3"}, store.Completions(req))
	require.True(t, store.Contains(req, "ch1"))
	require.False(t, store.Contains(req, "ch2"))
}

func TestAddCompletion_Deduplicates(t *testing.T) {
	store := NewStore("test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, store.AddCompletion(rec, req, "ch1"))

	req = replay(t, rec)
	rec = httptest.NewRecorder()
	require.NoError(t, store.AddCompletion(rec, req, "ch1"))

	// No new cookie needed, but the set must still hold a single entry.
	req = replay(t, rec)
	if len(rec.Result().Cookies()) > 0 {
		require.Equal(t, []string{"ch1"}, store.Completions(req))
	}
}

func TestSetCompletions_RewriteAndClear(t *testing.T) {
	store := NewStore("test-secret")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, store.SetCompletions(rec, req, []string{"ch1", "ch2", "ch3"}))

	// Rewrite to the retained subset, as the post-login merge does.
	req = replay(t, rec)
	rec = httptest.NewRecorder()
	require.NoError(t, store.SetCompletions(rec, req, []string{"ch2"}))

	req = replay(t, rec)
	require.Equal(t, []string{"ch2"}, store.Completions(req))

	rec = httptest.NewRecorder()
	require.NoError(t, store.ClearCompletions(rec, req))
	req = replay(t, rec)
	require.Empty(t, store.Completions(req))
}

func TestCompletions_GarbageCookieIsEmptySession(t *testing.T) {
	store := NewStore("test-secret")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: Name, Value: "not-a-real-session"})
	require.Empty(t, store.Completions(req))
}
