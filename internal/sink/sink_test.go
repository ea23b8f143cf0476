package sink

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteNumRoundTrip(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "varint")
	require.NoError(t, err)

	s, err := New(f, 0)
	require.NoError(t, err)

	values := []uint32{0, 1, 127, 128, 16384, 1 << 28, 1<<32 - 1}
	for _, v := range values {
		require.NoError(t, s.WriteNum(v))
	}
	require.NoError(t, s.Close())

	rf, err := os.Open(f.Name())
	require.NoError(t, err)
	defer rf.Close()

	r := NewReader(rf)
	for _, want := range values {
		got, err := r.ReadNum()
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestWriteToken(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "tokens")
	require.NoError(t, err)
	s, err := New(f, 0)
	require.NoError(t, err)

	n, err := s.WriteToken([]byte("hello"))
	require.NoError(t, err)
	require.Equal(t, 6, n) // 1-byte length prefix + 5 bytes payload
	require.NoError(t, s.Close())

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	require.Equal(t, []byte{5, 'h', 'e', 'l', 'l', 'o'}, data)
}

func TestTableAccessPatch(t *testing.T) {
	path := t.TempDir() + "/tbl"
	require.NoError(t, os.WriteFile(path, make([]byte, rowSize*3), 0o644))

	ta, err := NewTableAccess(path)
	require.NoError(t, err)
	require.NoError(t, ta.Write4(1, 8, 0xdeadbeef))
	require.NoError(t, ta.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, data[rowSize+8:rowSize+12])
	// Neighboring rows are untouched.
	require.Equal(t, make([]byte, rowSize), data[:rowSize])
}

func TestBufferSize(t *testing.T) {
	require.Equal(t, BlockSize, BufferSize(100, 0))
	require.Equal(t, BlockSize*2, BufferSize(BlockSize*2, 0))
	require.Equal(t, maxBuf, BufferSize(1<<30, 0))
	require.Equal(t, 1<<20, BufferSize(1<<30, 4<<20))
}
