package xmlbuild

import "math"

// The 40-bit text/value reference packs one of three things: an inlined
// integer literal, a byte offset of a compressed token, or a byte
// offset of a raw token. OffNum and OffComp are the two highest bits of
// the 40-bit field; everything below them is payload.
const (
	OffNum  uint64 = 1 << 39
	OffComp uint64 = 1 << 38

	textRefMask = 1<<40 - 1
)

// ToSimpleInt parses value as a base-10 signed integer that fits in
// int32. It returns ok=false for anything that doesn't parse cleanly as
// a plain integer token, and — critically — for math.MinInt32 itself,
// which doubles as the "not a simple int" sentinel and must never be
// inlined (it would be indistinguishable from a genuine failure to
// parse on the read side).
func ToSimpleInt(value []byte) (v int32, ok bool) {
	if len(value) == 0 {
		return 0, false
	}
	neg := false
	i := 0
	if value[0] == '-' {
		neg = true
		i++
	}
	if i == len(value) {
		return 0, false
	}
	var n int64
	for ; i < len(value); i++ {
		c := value[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
		if n > math.MaxInt32+1 {
			return 0, false
		}
	}
	if neg {
		n = -n
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return 0, false
	}
	iv := int32(n)
	if iv == math.MinInt32 {
		return 0, false
	}
	return iv, true
}

// PackInline packs a simple integer literal into a text-ref, flagged
// OffNum.
func PackInline(v int32) uint64 {
	return uint64(uint32(v)) | OffNum
}

// PackOffset packs a side-file byte offset into a text-ref, optionally
// flagging it OffComp.
func PackOffset(offset int64, compressed bool) uint64 {
	ref := uint64(offset) & (textRefMask &^ (OffNum | OffComp))
	if compressed {
		ref |= OffComp
	}
	return ref
}

// DecodeTextRef unpacks a text-ref. When isInline is true, value holds
// the original integer literal. Otherwise offset (and compressed) tell
// the caller where and how to read the token from the side file.
func DecodeTextRef(ref uint64) (value int32, isInline bool, offset int64, compressed bool) {
	if ref&OffNum != 0 {
		return int32(uint32(ref)), true, 0, false
	}
	compressed = ref&OffComp != 0
	offset = int64(ref &^ (OffNum | OffComp))
	return 0, false, offset, compressed
}
