package services

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"ecoSparkAPI/internal/types/pickup"
)

func validPickupRequest() *pickup.CreatePickupRequest {
	return &pickup.CreatePickupRequest{
		Name:       "Asha",
		Email:      "asha@example.com",
		Phone:      "9999900000",
		Address:    "12 MG Road, Pune",
		WasteType:  "laptops",
		DriveType:  "single_pickup",
		PickupDate: "2026-09-01",
		PickupTime: "10:30",
	}
}

func TestCreatePickup_OK(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	s := NewPickupService(mock)

	mock.ExpectQuery(`INSERT INTO pickups`).
		WithArgs(pgxmock.AnyArg(), "Asha", "asha@example.com", "9999900000", "12 MG Road, Pune",
			"laptops", pickup.DriveSinglePickup, pgxmock.AnyArg(), "10:30").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(testTime()))

	p, err := s.CreatePickup(context.Background(), validPickupRequest())
	require.NoError(t, err)
	require.Equal(t, pickup.DriveSinglePickup, p.DriveType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePickup_Validation(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	s := NewPickupService(mock)
	ctx := context.Background()

	req := validPickupRequest()
	req.Email = "  "
	_, err := s.CreatePickup(ctx, req)
	require.ErrorContains(t, err, "email")

	req = validPickupRequest()
	req.DriveType = "teleport"
	_, err = s.CreatePickup(ctx, req)
	require.ErrorContains(t, err, "drive_type")

	req = validPickupRequest()
	req.PickupDate = "01-09-2026"
	_, err = s.CreatePickup(ctx, req)
	require.ErrorContains(t, err, "pickup_date")

	req = validPickupRequest()
	req.PickupTime = "10:30pm"
	_, err = s.CreatePickup(ctx, req)
	require.ErrorContains(t, err, "pickup_time")

	require.NoError(t, mock.ExpectationsWereMet())
}
