// Package compress wraps zstd for the optional per-token compression of
// text and attribute-value side-file entries.
package compress

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// minCompress is the shortest token length worth attempting to compress;
// anything shorter almost never shrinks and the ratio check below would
// just reject it, so skip the round trip entirely.
const minCompress = 32

var (
	encOnce sync.Once
	enc     *zstd.Encoder
	decOnce sync.Once
	dec     *zstd.Decoder
)

func encoder() *zstd.Encoder {
	encOnce.Do(func() {
		enc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	})
	return enc
}

func decoder() *zstd.Decoder {
	decOnce.Do(func() {
		dec, _ = zstd.NewReader(nil)
	})
	return dec
}

// Pack compresses data and returns the encoded bytes with compressed=true
// only when the result is smaller than the input; otherwise it returns
// data unchanged with compressed=false, mirroring the per-token
// patch-on-improvement policy of the side-file writer.
func Pack(data []byte) (out []byte, compressed bool) {
	if len(data) < minCompress {
		return data, false
	}
	packed := encoder().EncodeAll(data, make([]byte, 0, len(data)))
	if len(packed) >= len(data) {
		return data, false
	}
	return packed, true
}

// Unpack reverses Pack for a token known to have been compressed.
func Unpack(data []byte) ([]byte, error) {
	return decoder().DecodeAll(data, nil)
}
