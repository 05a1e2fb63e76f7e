package dsmr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"lf", "a\n\nb", []string{"a", "", "b"}},
		{"crlf", "a\r\n\r\nb\r\n", []string{"a", "", "b", ""}},
		{"cr", "a\r\rb", []string{"a", "", "b"}},
		{"mixed", "a\r\nb\nc\rd", []string{"a", "b", "c", "d"}},
		{"empty", "", []string{""}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, splitLines(tc.in))
		})
	}
}

func TestMeterType(t *testing.T) {
	require.Equal(t, "ISk5\\2MT382-1000", meterType("/ISk5\\2MT382-1000"))
	require.Equal(t, "", meterType(""))
	require.Equal(t, "SK5", meterType("ISK5"))
}

func TestParseLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want parsedLine
		ok   bool
	}{
		{
			name: "value with unit",
			in:   "1-0:1.8.1(001234.567*kWh)",
			want: parsedLine{obisCode: "1-0:1.8.1", value: "001234.567", unit: "kWh"},
			ok:   true,
		},
		{
			name: "plain value",
			in:   "0-0:96.14.0(0002)",
			want: parsedLine{obisCode: "0-0:96.14.0", value: "0002"},
			ok:   true,
		},
		{
			name: "compound value keeps star",
			in:   "0-1:24.2.1(101209110000W)(12785.123*m3)",
			want: parsedLine{obisCode: "0-1:24.2.1", value: "101209110000W)(12785.123*m3"},
			ok:   true,
		},
		{
			name: "empty value",
			in:   "0-0:96.13.0()",
			want: parsedLine{obisCode: "0-0:96.13.0", value: ""},
			ok:   true,
		},
		{name: "no bracket", in: "!F46A"},
		{name: "no code", in: "(123)"},
		{name: "nothing after bracket", in: "1-0:1.8.1("},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := parseLine(tc.in)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestParseInt(t *testing.T) {
	tests := []struct {
		in   string
		want *int64
	}{
		{"0002", ptr(int64(2))},
		{"  42abc", ptr(int64(42))},
		{"-7", ptr(int64(-7))},
		{"12.9", ptr(int64(12))},
		{"abc", nil},
		{"", nil},
		{"-", nil},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, parseInt(tc.in), tc.in)
	}
}

func TestParseFloat(t *testing.T) {
	require.Equal(t, Float(1234.567), parseFloat("001234.567"))
	require.False(t, parseFloat("12,5").IsValid())
	require.False(t, parseFloat("").IsValid())
}

func ptr[T any](v T) *T {
	return &v
}
