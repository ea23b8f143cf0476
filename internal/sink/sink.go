// Package sink implements the append-only byte writers the disk
// back-end uses to serialize rows and side-file tokens, plus a
// random-access writer for the post-pass size patch.
package sink

import (
	"bufio"
	"encoding/binary"
	"os"
)

const (
	// BlockSize is the disk allocation unit output buffers are rounded to.
	BlockSize = 4096
	maxBuf    = 4 << 20
)

// BufferSize picks an output buffer size for a side file: clamp(fileSize,
// BlockSize, min(4MiB, freeHeap/4)), rounded down to a multiple of
// BlockSize. freeHeap <= 0 disables the heap-based cap.
func BufferSize(fileSize, freeHeap int64) int {
	limit := int64(maxBuf)
	if freeHeap > 0 {
		if q := freeHeap / 4; q < limit {
			limit = q
		}
	}
	bs := fileSize
	if bs > limit {
		bs = limit
	}
	if bs < BlockSize {
		bs = BlockSize
	}
	bs -= bs % BlockSize
	if bs < BlockSize {
		bs = BlockSize
	}
	return int(bs)
}

// Sink is an append-only, buffered writer over an *os.File.
type Sink struct {
	f *os.File
	w *bufio.Writer
}

// New wraps f in a Sink with the given buffer size.
func New(f *os.File, bufSize int) (*Sink, error) {
	if bufSize <= 0 {
		bufSize = BlockSize
	}
	return &Sink{f: f, w: bufio.NewWriterSize(f, bufSize)}, nil
}

// Write1 appends one byte.
func (s *Sink) Write1(v byte) error { return s.w.WriteByte(v) }

// Write2 appends a big-endian uint16.
func (s *Sink) Write2(v uint16) error {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	_, err := s.w.Write(b[:])
	return err
}

// Write4 appends a big-endian uint32.
func (s *Sink) Write4(v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := s.w.Write(b[:])
	return err
}

// Write5 appends the low 40 bits of v, big-endian.
func (s *Sink) Write5(v uint64) error {
	var b [5]byte
	b[0] = byte(v >> 32)
	b[1] = byte(v >> 24)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 8)
	b[4] = byte(v)
	_, err := s.w.Write(b[:])
	return err
}

// WriteBytes appends b verbatim.
func (s *Sink) WriteBytes(b []byte) error {
	_, err := s.w.Write(b)
	return err
}

// WriteNum appends v as a canonical 1-5 byte varint (top bit of each
// byte is the continuation flag).
func (s *Sink) WriteNum(v uint32) error {
	var b [5]byte
	n := binary.PutUvarint(b[:], uint64(v))
	_, err := s.w.Write(b[:n])
	return err
}

// WriteToken writes a varint length prefix followed by b, returning the
// total number of bytes written (prefix + payload).
func (s *Sink) WriteToken(b []byte) (int, error) {
	var lb [5]byte
	n := binary.PutUvarint(lb[:], uint64(len(b)))
	if _, err := s.w.Write(lb[:n]); err != nil {
		return 0, err
	}
	if err := s.WriteBytes(b); err != nil {
		return 0, err
	}
	return n + len(b), nil
}

// Close flushes the buffer and closes the underlying file.
func (s *Sink) Close() error {
	if err := s.w.Flush(); err != nil {
		return err
	}
	return s.f.Close()
}

// Reader reads back values written with WriteNum, used to replay the
// temporary size-patch stream.
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps f for varint reads.
func NewReader(f *os.File) *Reader { return &Reader{r: bufio.NewReader(f)} }

// ReadNum reads one varint written by WriteNum.
func (r *Reader) ReadNum() (uint32, error) {
	v, err := binary.ReadUvarint(r.r)
	return uint32(v), err
}

// TableAccess patches already-written rows at arbitrary preorder
// positions, used for the disk back-end's post-pass size patch.
type TableAccess struct {
	f *os.File
}

// NewTableAccess opens path for random-access patching.
func NewTableAccess(path string) (*TableAccess, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	return &TableAccess{f: f}, nil
}

const rowSize = 16

// Write4 patches the big-endian uint32 at byteOffset within the row
// belonging to pre.
func (t *TableAccess) Write4(pre int32, byteOffset int, v uint32) error {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	_, err := t.f.WriteAt(b[:], int64(pre)*rowSize+int64(byteOffset))
	return err
}

// Close closes the underlying file.
func (t *TableAccess) Close() error { return t.f.Close() }
