package challenge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	require.Equal(t, "ch1", Key(1))
	require.Equal(t, "ch42", Key(42))
}

func TestParseKey(t *testing.T) {
	id, err := ParseKey("ch7")
	require.NoError(t, err)
	require.Equal(t, 7, id)

	id, err = ParseKey(Key(123))
	require.NoError(t, err)
	require.Equal(t, 123, id)
}

func TestParseKey_Malformed(t *testing.T) {
	for _, key := range []string{"", "ch", "chx", "ch0", "ch-1", "7", "CH7", "ch7x", "ch 7"} {
		_, err := ParseKey(key)
		require.Error(t, err, "key %q should not parse", key)
	}
}
