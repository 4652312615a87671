package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBadge(t *testing.T) {
	badge, name := Badge(0)
	require.Empty(t, badge)
	require.Empty(t, name)

	_, name = Badge(1)
	require.Equal(t, "Eco Starter", name)

	_, name = Badge(3)
	require.Equal(t, "Green Influencer", name)

	_, name = Badge(5)
	require.Equal(t, "Eco Hero", name)

	_, name = Badge(12)
	require.Equal(t, "Eco Hero", name)
}
