package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDevicePoints(t *testing.T) {
	require.Equal(t, 15, DevicePoints(1.5))
	require.Equal(t, 0, DevicePoints(0))
	require.Equal(t, 13, DevicePoints(1.25))
}

func TestDepreciationFactor(t *testing.T) {
	require.Equal(t, 1.0, DepreciationFactor(0))
	require.InDelta(t, 0.85, DepreciationFactor(3), 1e-9)
	// Floored at 30% no matter how old the device is.
	require.Equal(t, 0.3, DepreciationFactor(20))
	require.Equal(t, 0.3, DepreciationFactor(100))
}
