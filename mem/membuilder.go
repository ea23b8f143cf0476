// Package mem implements the in-memory back-end: rows and text tokens
// accumulate in resident buffers and size patches write directly into
// the row buffer, with no temp file or second pass.
package mem

import (
	"context"
	"encoding/binary"

	xmlbuild "github.com/basex-go/xmlbuild"
	"github.com/basex-go/xmlbuild/internal/compress"
)

var _ xmlbuild.Backend = (*MemBuilder)(nil)

const growChunk = 64 << 10

// MemBuilder is the xmlbuild.Backend that keeps its table and text
// buffers entirely resident.
type MemBuilder struct {
	ctx     context.Context
	limiter *GrowthLimiter

	rows     []byte
	rowsHeld int64

	text     []byte
	textHeld int64

	value     []byte
	valueHeld int64
}

// NewMemBuilder returns a MemBuilder. limiter may be nil, in which case
// growth is unbounded.
func NewMemBuilder(ctx context.Context, limiter *GrowthLimiter) *MemBuilder {
	if ctx == nil {
		ctx = context.Background()
	}
	return &MemBuilder{ctx: ctx, limiter: limiter}
}

func (m *MemBuilder) grow(held *int64, need int64) error {
	for *held < need {
		want := need - *held
		if want > growChunk {
			want = growChunk
		}
		if err := m.limiter.Acquire(m.ctx, want); err != nil {
			return err
		}
		*held += want
	}
	return nil
}

func (m *MemBuilder) writeRow(pre int32, buf xmlbuild.Row) error {
	need := int64(pre+1) * xmlbuild.RowSize
	if err := m.grow(&m.rowsHeld, need); err != nil {
		return err
	}
	if need > int64(len(m.rows)) {
		m.rows = append(m.rows, make([]byte, need-int64(len(m.rows)))...)
	}
	copy(m.rows[int64(pre)*xmlbuild.RowSize:], buf[:])
	return nil
}

// AddDoc implements xmlbuild.Backend.
func (m *MemBuilder) AddDoc(pre int32, nameRef uint64) error {
	var buf xmlbuild.Row
	xmlbuild.EncodeDoc(buf[:], nameRef, pre)
	return m.writeRow(pre, buf)
}

// AddElem implements xmlbuild.Backend.
func (m *MemBuilder) AddElem(pre int32, nameID int32, ne bool, uriID int32, asize int, dist int32) error {
	var buf xmlbuild.Row
	xmlbuild.EncodeElem(buf[:], asize, nameID, ne, uriID, dist, int32(asize), pre)
	return m.writeRow(pre, buf)
}

// AddAttr implements xmlbuild.Backend.
func (m *MemBuilder) AddAttr(pre int32, nameID int32, valueRef uint64, uriID int32, dist int32) error {
	var buf xmlbuild.Row
	xmlbuild.EncodeAttr(buf[:], dist, nameID, valueRef, uriID, pre)
	return m.writeRow(pre, buf)
}

// AddText implements xmlbuild.Backend.
func (m *MemBuilder) AddText(pre int32, kind byte, textRef uint64, dist int32) error {
	var buf xmlbuild.Row
	xmlbuild.EncodeText(buf[:], kind, textRef, dist, pre)
	return m.writeRow(pre, buf)
}

// SetSize implements xmlbuild.Backend by patching the row buffer
// directly: no temp file, no second pass.
func (m *MemBuilder) SetSize(pre int32, size int32) error {
	off := int64(pre)*xmlbuild.RowSize + 8
	if off+4 > int64(len(m.rows)) {
		return nil // row not yet written; nothing to patch
	}
	binary.BigEndian.PutUint32(m.rows[off:off+4], uint32(size))
	return nil
}

// InternToken implements xmlbuild.Backend. isText selects which
// resident buffer the token is appended to: the text buffer (document
// names, element text, comments, PIs) or the attribute-value buffer.
func (m *MemBuilder) InternToken(tok []byte, isText bool) (uint64, error) {
	packed, compressed := compress.Pack(tok)
	buf, held := &m.text, &m.textHeld
	if !isText {
		buf, held = &m.value, &m.valueHeld
	}

	off := int64(len(*buf))
	var lb [5]byte
	n := binary.PutUvarint(lb[:], uint64(len(packed)))
	need := off + int64(n) + int64(len(packed))
	if err := m.grow(held, need); err != nil {
		return 0, err
	}
	*buf = append(*buf, lb[:n]...)
	*buf = append(*buf, packed...)

	return xmlbuild.PackOffset(off, compressed), nil
}

// Rows returns the accumulated row table buffer.
func (m *MemBuilder) Rows() []byte { return m.rows }

// Text returns the accumulated element text/comment/PI/name side buffer.
func (m *MemBuilder) Text() []byte { return m.text }

// Value returns the accumulated attribute-value side buffer.
func (m *MemBuilder) Value() []byte { return m.value }

// Close is a no-op: the resident buffers stay valid and owned by the
// caller, which reads them via Rows/Text. Call Release once they are no
// longer needed to return reserved growth budget to the limiter.
func (m *MemBuilder) Close(ctx context.Context) error { return nil }

// Release returns this builder's reserved growth budget to its limiter.
// It does not discard the buffers themselves.
func (m *MemBuilder) Release() {
	m.limiter.Release(m.rowsHeld)
	m.limiter.Release(m.textHeld)
	m.limiter.Release(m.valueHeld)
	m.rowsHeld, m.textHeld, m.valueHeld = 0, 0, 0
}

// Abort discards the buffers and returns any reserved growth budget.
func (m *MemBuilder) Abort() {
	m.Release()
	m.rows, m.text, m.value = nil, nil, nil
}
