package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"ecoSparkAPI/internal/types/user"
)

var userCols = []string{"id", "clerk_id", "email", "username", "first_name", "last_name", "image_url", "created_at", "updated_at"}

func TestCreateUser_UniqueViolationFallsBackToLookup(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	s := NewUserService(mock)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "clerk_1", "a@b.c", "ab", "A", "B", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectQuery(`SELECT id, clerk_id, email, username, first_name, last_name, image_url, created_at, updated_at`).
		WithArgs("clerk_1").
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("uid", "clerk_1", "a@b.c", "ab", "A", "B", "", testTime(), testTime()))

	u, err := s.CreateUser(context.Background(), &user.CreateUserRequest{
		ClerkID: "clerk_1", Email: "a@b.c", Username: "ab", FirstName: "A", LastName: "B",
	})
	require.NoError(t, err)
	require.Equal(t, "clerk_1", u.ClerkID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUserByClerkID_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	s := NewUserService(mock)

	mock.ExpectQuery(`SELECT id, clerk_id, email, username, first_name, last_name, image_url, created_at, updated_at`).
		WithArgs("clerk_missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetUserByClerkID(context.Background(), "clerk_missing")
	require.EqualError(t, err, "user not found")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureUser_CreatesWhenMissing(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	s := NewUserService(mock)

	mock.ExpectQuery(`SELECT id, clerk_id, email, username, first_name, last_name, image_url, created_at, updated_at`).
		WithArgs("clerk_new").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs(pgxmock.AnyArg(), "clerk_new", "", "", "", "", "", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(userCols).
			AddRow("uid", "clerk_new", "", "", "", "", "", testTime(), testTime()))

	u, err := s.EnsureUser(context.Background(), "clerk_new")
	require.NoError(t, err)
	require.Equal(t, "clerk_new", u.ClerkID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUserByClerkID(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	s := NewUserService(mock)

	mock.ExpectExec(`DELETE FROM users WHERE clerk_id = \$1`).
		WithArgs("clerk_1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, s.DeleteUserByClerkID(context.Background(), "clerk_1"))

	mock.ExpectExec(`DELETE FROM users WHERE clerk_id = \$1`).
		WithArgs("clerk_1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.Error(t, s.DeleteUserByClerkID(context.Background(), "clerk_1"))

	require.NoError(t, mock.ExpectationsWereMet())
}
