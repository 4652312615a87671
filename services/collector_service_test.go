package services

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"ecoSparkAPI/internal/types/collector"
)

func TestDirectory_Filters(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	s := NewCollectorService(mock)

	all := s.Directory("", false)
	require.Len(t, all.Collectors, len(allCollectors))
	require.Contains(t, all.Cities, "Delhi")
	require.IsIncreasing(t, all.Cities)

	delhi := s.Directory("delhi", false)
	require.Len(t, delhi.Collectors, 1)
	require.Equal(t, "Delhi", delhi.Collectors[0].City)

	verified := s.Directory("", true)
	for _, c := range verified.Collectors {
		require.True(t, c.Verified)
	}
	// City list stays complete even when the rows are filtered down.
	require.Len(t, verified.Cities, len(all.Cities))
}

func TestNominate(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	s := NewCollectorService(mock)
	ctx := context.Background()

	_, err := s.Nominate(ctx, &collector.NominateRequest{Name: " ", City: "Pune"})
	require.Error(t, err)

	mock.ExpectQuery(`INSERT INTO collector_nominations`).
		WithArgs(pgxmock.AnyArg(), "ScrapKing", "Pune", "9000000000").
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(testTime()))

	n, err := s.Nominate(ctx, &collector.NominateRequest{Name: "ScrapKing", City: "Pune", Phone: "9000000000"})
	require.NoError(t, err)
	require.Equal(t, "ScrapKing", n.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
