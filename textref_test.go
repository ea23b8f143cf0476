package xmlbuild

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToSimpleIntValid(t *testing.T) {
	cases := map[string]int32{
		"0":            0,
		"42":           42,
		"-1":           -1,
		"2147483647":   math.MaxInt32,
		"-2147483647":  -math.MaxInt32,
	}
	for in, want := range cases {
		v, ok := ToSimpleInt([]byte(in))
		require.True(t, ok, in)
		require.Equal(t, want, v, in)
	}
}

func TestToSimpleIntSentinelExcluded(t *testing.T) {
	// math.MinInt32 doubles as the "not a simple int" sentinel and must
	// never be treated as an inlinable literal, even though the text
	// "-2147483648" would otherwise parse cleanly.
	v, ok := ToSimpleInt([]byte("-2147483648"))
	require.False(t, ok)
	require.Equal(t, int32(0), v)
}

func TestToSimpleIntRejects(t *testing.T) {
	for _, in := range []string{"", "-", "1.5", "+1", "01x", "99999999999999", "abc", " 1"} {
		_, ok := ToSimpleInt([]byte(in))
		require.False(t, ok, in)
	}
}

func TestPackInlineRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, -1, math.MaxInt32, math.MinInt32 + 1} {
		ref := PackInline(v)
		got, inline, _, _ := DecodeTextRef(ref)
		require.True(t, inline)
		require.Equal(t, v, got)
	}
}

func TestPackOffsetRoundTrip(t *testing.T) {
	ref := PackOffset(1<<30, true)
	_, inline, off, comp := DecodeTextRef(ref)
	require.False(t, inline)
	require.True(t, comp)
	require.Equal(t, int64(1<<30), off)

	ref = PackOffset(0, false)
	_, inline, off, comp = DecodeTextRef(ref)
	require.False(t, inline)
	require.False(t, comp)
	require.Equal(t, int64(0), off)
}
