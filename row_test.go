package xmlbuild

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDoc(t *testing.T) {
	var r Row
	EncodeDoc(r[:], PackInline(42), 7)
	require.Equal(t, KindDoc, r.Kind())
	require.Equal(t, int32(7), r.Pre())
	v, inline, _, _ := DecodeTextRef(r.TextRef())
	require.True(t, inline)
	require.Equal(t, int32(42), v)
}

func TestEncodeElemLayout(t *testing.T) {
	var r Row
	EncodeElem(r[:], 3, 12, true, 5, 2, 3, 9)
	require.Equal(t, KindElem, r.Kind())
	require.Equal(t, 3, r.ASize())
	require.Equal(t, int32(12), r.NameID())
	require.True(t, r.HasNS())
	require.Equal(t, int32(5), r.URIID())
	require.Equal(t, int32(2), r.Dist())
	require.Equal(t, int32(3), r.Size())
	require.Equal(t, int32(9), r.Pre())

	PatchSize(r[:], 40)
	require.Equal(t, int32(40), r.Size())
	// Patching the size field must not disturb any other field.
	require.Equal(t, 3, r.ASize())
	require.Equal(t, int32(12), r.NameID())
	require.Equal(t, int32(2), r.Dist())
	require.Equal(t, int32(9), r.Pre())
}

func TestEncodeElemNoNamespace(t *testing.T) {
	var r Row
	EncodeElem(r[:], 1, 3, false, 0, 1, 1, 4)
	require.False(t, r.HasNS())
	require.Equal(t, int32(3), r.NameID())
}

func TestEncodeAttr(t *testing.T) {
	var r Row
	EncodeAttr(r[:], 1, 8, PackOffset(1024, true), 2, 5)
	require.Equal(t, KindAttr, r.Kind())
	require.Equal(t, int32(1), r.Dist())
	require.Equal(t, int32(8), r.NameID())
	require.Equal(t, int32(2), r.URIID())
	require.Equal(t, int32(5), r.Pre())
	_, inline, off, comp := DecodeTextRef(r.TextRef())
	require.False(t, inline)
	require.True(t, comp)
	require.Equal(t, int64(1024), off)
}

func TestEncodeText(t *testing.T) {
	for _, kind := range []byte{KindText, KindComm, KindPI} {
		var r Row
		EncodeText(r[:], kind, PackOffset(99, false), 3, 6)
		require.Equal(t, kind, r.Kind())
		require.Equal(t, int32(3), r.Dist())
		require.Equal(t, int32(6), r.Pre())
		_, inline, off, comp := DecodeTextRef(r.TextRef())
		require.False(t, inline)
		require.False(t, comp)
		require.Equal(t, int64(99), off)
	}
}

func TestASizeAndDistShareByte0(t *testing.T) {
	// asize can occupy the full 5 bits above the 3-bit kind field.
	var r Row
	EncodeElem(r[:], MaxAtts, 0, false, 0, 0, 0, 0)
	require.Equal(t, MaxAtts, r.ASize())

	// An ATTR row's dist occupies the same 5 bits.
	var a Row
	EncodeAttr(a[:], MaxAtts, 0, 0, 0, 0)
	require.Equal(t, KindAttr, a.Kind())
	require.Equal(t, int32(MaxAtts), a.Dist())
}
