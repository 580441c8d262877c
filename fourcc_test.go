package fieldmodel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFourCC(t *testing.T) {
	tests := []struct {
		s        string
		expected uint64
	}{
		{"", 0},
		{"A", 0x41},
		{"ABCD", 0x44434241},
		{"_IMG", 0x474D495F},
		{"ABCDEFGH", 0x4847464544434241},
	}
	for _, tt := range tests {
		v, err := FourCC(tt.s)
		require.NoError(t, err, tt.s)
		require.Equal(t, tt.expected, v, tt.s)
		require.Equal(t, tt.s, FourCCString(v), tt.s)
	}
}

func TestFourCC_roundTripPrintable(t *testing.T) {
	var printable []byte
	for c := byte(0x20); c <= 0x7E; c++ {
		printable = append(printable, c)
	}
	for n := 0; n <= 8; n++ {
		samples := []string{
			" " + strings.Repeat("~", max(n-1, 0)),
			strings.Repeat("!", max(n-1, 0)) + " ",
		}
		for start := 0; start+n <= len(printable); start++ {
			samples = append(samples, string(printable[start:start+n]))
		}
		for _, s := range samples {
			if len(s) != n {
				continue
			}
			v, err := FourCC(s)
			require.NoError(t, err, "%q", s)
			require.Equal(t, s, FourCCString(v), "%q", s)
		}
	}
}

func TestFourCC_tooLong(t *testing.T) {
	_, err := FourCC("ABCDEFGHI")
	require.ErrorIs(t, err, ErrFourCCTooLong)
	require.Panics(t, func() { MustFourCC("ABCDEFGHI") })
}

func TestFourCCString_skipsControlBytes(t *testing.T) {
	require.Equal(t, "AB", FourCCString(0x4200_0141))
	require.Equal(t, "A", FourCCString(0x7F41))
}
