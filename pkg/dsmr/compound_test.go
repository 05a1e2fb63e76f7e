package dsmr

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDecodeTimestamp(t *testing.T) {
	got, err := DecodeTimestamp("210101120000W", time.UTC)
	require.NoError(t, err)
	require.Equal(t, "2021-01-01T12:00:00.000Z", got)

	parsed, err := time.Parse(time.RFC3339, got)
	require.NoError(t, err)
	require.Equal(t, 2021, parsed.Year())
	require.Equal(t, time.January, parsed.Month())
	require.Equal(t, 1, parsed.Day())
	require.Equal(t, 12, parsed.Hour())
	require.Equal(t, 0, parsed.Nanosecond())
}

func TestDecodeTimestampLocation(t *testing.T) {
	cet := time.FixedZone("CET", 3600)

	got, err := DecodeTimestamp("210101120000W", cet)
	require.NoError(t, err)
	require.Equal(t, "2021-01-01T11:00:00.000Z", got)

	// the DST flag is not consulted
	summer, err := DecodeTimestamp("210101120000S", cet)
	require.NoError(t, err)
	require.Equal(t, got, summer)
}

func TestDecodeTimestampInvalid(t *testing.T) {
	for _, raw := range []string{"", "2101011200", "21010112000", "21AB01120000W"} {
		_, err := DecodeTimestamp(raw, time.UTC)
		require.True(t, errors.Is(err, ErrInvalidTimestamp), raw)
	}
}

func TestDecodePowerFailureLog(t *testing.T) {
	got := DecodePowerFailureLog("2)(0-0:96.7.19)(210101120000W)(0000000010*s)(210102130000W)(0000000020*s)", time.UTC)

	require.Equal(t, int64(2), got.Count)
	require.Len(t, got.Log, 2)

	require.Equal(t, "2021-01-01T12:00:00.000Z", *got.Log[0].EndOfFailure)
	require.Equal(t, int64(10), *got.Log[0].Duration)
	require.Equal(t, "s", got.Log[0].Unit)

	require.Equal(t, "2021-01-02T13:00:00.000Z", *got.Log[1].EndOfFailure)
	require.Equal(t, int64(20), *got.Log[1].Duration)
	require.Equal(t, "s", got.Log[1].Unit)
}

func TestDecodePowerFailureLogTruncated(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		count   int64
		entries int
	}{
		{"no body", "3", 3, 0},
		{"unpaired trailing token", "2)(0-0:96.7.19)(210101120000W)(0000000010*s)(210102130000W", 2, 1},
		{"bad count", "x)(0-0:96.7.19)(210101120000W)(0000000010*s", 0, 1},
		{"empty", "", 0, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DecodePowerFailureLog(tc.in, time.UTC)
			require.Equal(t, tc.count, got.Count)
			require.Len(t, got.Log, tc.entries)
		})
	}
}

func TestDecodePowerFailureLogBadTimestamp(t *testing.T) {
	got := DecodePowerFailureLog("1)(0-0:96.7.19)(2101)(0000000010*s", time.UTC)
	require.Len(t, got.Log, 1)
	require.Nil(t, got.Log[0].EndOfFailure)
	require.Equal(t, int64(10), *got.Log[0].Duration)
}

func TestDecodeHourlyReading(t *testing.T) {
	got, err := DecodeHourlyReading("210101080000W)(00123.456*m3)")
	require.NoError(t, err)
	require.Equal(t, HourlyReading{Timestamp: "210101080000W", Value: "00123.456", Unit: "m3"}, got)
	require.Equal(t, Float(123.456), parseFloat(got.Value))

	got, err = DecodeHourlyReading("210101080000W)(00123.456*m3")
	require.NoError(t, err)
	require.Equal(t, "m3", got.Unit)
}

func TestDecodeHourlyReadingMalformed(t *testing.T) {
	for _, in := range []string{"", "210101080000W", ")(00123.456*m3", "210101080000W)("} {
		_, err := DecodeHourlyReading(in)
		require.ErrorIs(t, err, ErrMalformedHourlyReading, in)
	}
}
