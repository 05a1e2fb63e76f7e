package esmutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestKwToW(t *testing.T) {
	require.Equal(t, uint32(1193), KwToW(1.193))
	require.Equal(t, uint32(0), KwToW(-0.5))
	require.Equal(t, uint32(0), KwToW(math.NaN()))
	require.Equal(t, uint32(math.MaxUint32), KwToW(1e12))
}

func TestM3ToDM3(t *testing.T) {
	require.Equal(t, uint32(12785123), M3ToDM3(12785.123))
}

func TestUnitConversions(t *testing.T) {
	w, ok := ToWattOrWh(123.456, "kWh")
	require.True(t, ok)
	require.Equal(t, uint32(123456), w)

	w, ok = ToWattOrWh(float32(250), "W")
	require.True(t, ok)
	require.Equal(t, uint32(250), w)

	_, ok = ToWattOrWh(1.0, "A")
	require.False(t, ok)

	dm3, ok := ToDM3(1.5, "m3")
	require.True(t, ok)
	require.Equal(t, uint32(1500), dm3)

	_, ok = ToDM3(1.5, "GJ")
	require.False(t, ok)

	s, ok := ToSeconds(int64(2), "min")
	require.True(t, ok)
	require.Equal(t, int64(120), s)

	_, ok = ToSeconds(2, "days")
	require.False(t, ok)
}
