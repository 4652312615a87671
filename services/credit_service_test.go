package services

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestDeviceByModel_NotFound(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	s := NewCreditService(mock)

	mock.ExpectQuery(`SELECT id, model_name, metal_value`).
		WithArgs("nokia 3310").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.DeviceByModel(context.Background(), "nokia 3310")
	require.ErrorIs(t, err, ErrDeviceNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEstimate_AnonymousDoesNotPersist(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	s := NewCreditService(mock)

	mock.ExpectQuery(`SELECT id, model_name, metal_value`).
		WithArgs("iPhone 12").
		WillReturnRows(pgxmock.NewRows([]string{"id", "model_name", "metal_value"}).
			AddRow("did", "iPhone 12", 1.5))

	result, err := s.Estimate(context.Background(), "", "iPhone 12")
	require.NoError(t, err)
	require.Equal(t, 15, result.PointsAwarded)
	require.False(t, result.Saved)
	require.Nil(t, result.Balance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEstimate_AuthenticatedAwardsPoints(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	s := NewCreditService(mock)

	mock.ExpectQuery(`SELECT id, model_name, metal_value`).
		WithArgs("iPhone 12").
		WillReturnRows(pgxmock.NewRows([]string{"id", "model_name", "metal_value"}).
			AddRow("did", "iPhone 12", 1.5))
	mock.ExpectQuery(`INSERT INTO user_credits`).
		WithArgs("clerk_1", 15).
		WillReturnRows(pgxmock.NewRows([]string{"points"}).AddRow(45))

	result, err := s.Estimate(context.Background(), "clerk_1", "iPhone 12")
	require.NoError(t, err)
	require.True(t, result.Saved)
	require.NotNil(t, result.Balance)
	require.Equal(t, 45, *result.Balance)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBalance_ZeroWithoutCreditRow(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	s := NewCreditService(mock)

	mock.ExpectQuery(`SELECT COALESCE\(uc.points, 0\)`).
		WithArgs("clerk_1").
		WillReturnRows(pgxmock.NewRows([]string{"points"}).AddRow(0))

	balance, err := s.Balance(context.Background(), "clerk_1")
	require.NoError(t, err)
	require.Zero(t, balance)
	require.NoError(t, mock.ExpectationsWereMet())
}
