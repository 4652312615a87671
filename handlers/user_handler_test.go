package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"ecoSparkAPI/internal/session"
	"ecoSparkAPI/middleware"
	"ecoSparkAPI/services"
)

var stamp = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func authedRequest(t *testing.T, clerkID string, cookies []*http.Cookie) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/user/sync", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req.WithContext(context.WithValue(req.Context(), middleware.ClerkIDKey, clerkID))
}

func TestSyncSession_MergesAnonymousCompletions(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := session.NewStore("test-secret")
	h := NewUserHandler(services.NewUserService(mock), services.NewChallengeService(mock), store)

	// Seed an anonymous session holding two completions.
	seedRec := httptest.NewRecorder()
	seedReq := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, store.SetCompletions(seedRec, seedReq, []string{"ch1", "ch2"}))
	cookies := seedRec.Result().Cookies()

	userID := uuid.New()
	mock.ExpectQuery(`SELECT id, clerk_id, email, username, first_name, last_name, image_url, created_at, updated_at`).
		WithArgs("clerk_1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "clerk_id", "email", "username", "first_name", "last_name", "image_url", "created_at", "updated_at"}).
			AddRow(userID.String(), "clerk_1", "a@b.c", "ab", "", "", "", stamp, stamp))
	mock.ExpectQuery(`SELECT id FROM users WHERE clerk_id = \$1`).
		WithArgs("clerk_1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(userID))
	mock.ExpectExec(`INSERT INTO challenge_completions`).
		WithArgs(pgxmock.AnyArg(), userID, 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec(`INSERT INTO challenge_completions`).
		WithArgs(pgxmock.AnyArg(), userID, 2).
		WillReturnError(&pgconn.PgError{Code: "23505"})

	rec := httptest.NewRecorder()
	h.SyncSession(rec, authedRequest(t, "clerk_1", cookies))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		MergedCount int `json:"merged_count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, 1, resp.MergedCount)

	// The session was rewritten; a follow-up request must see no keys.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	require.Empty(t, store.Completions(next))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncSession_RetainsKeysOnWriteFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	store := session.NewStore("test-secret")
	h := NewUserHandler(services.NewUserService(mock), services.NewChallengeService(mock), store)

	seedRec := httptest.NewRecorder()
	seedReq := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, store.SetCompletions(seedRec, seedReq, []string{"ch1"}))
	cookies := seedRec.Result().Cookies()

	userID := uuid.New()
	mock.ExpectQuery(`SELECT id, clerk_id, email, username, first_name, last_name, image_url, created_at, updated_at`).
		WithArgs("clerk_1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "clerk_id", "email", "username", "first_name", "last_name", "image_url", "created_at", "updated_at"}).
			AddRow(userID.String(), "clerk_1", "", "", "", "", "", stamp, stamp))
	mock.ExpectQuery(`SELECT id FROM users WHERE clerk_id = \$1`).
		WithArgs("clerk_1").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(userID))
	mock.ExpectExec(`INSERT INTO challenge_completions`).
		WithArgs(pgxmock.AnyArg(), userID, 1).
		WillReturnError(&pgconn.PgError{Code: "57P01"}) // admin_shutdown

	rec := httptest.NewRecorder()
	h.SyncSession(rec, authedRequest(t, "clerk_1", cookies))

	// The sync itself still succeeds and the key survives for a retry.
	require.Equal(t, http.StatusOK, rec.Code)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	require.Equal(t, []string{"ch1"}, store.Completions(next))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSyncSession_RequiresAuth(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	h := NewUserHandler(services.NewUserService(mock), services.NewChallengeService(mock), session.NewStore("test-secret"))

	rec := httptest.NewRecorder()
	h.SyncSession(rec, httptest.NewRequest(http.MethodPost, "/api/v1/user/sync", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
