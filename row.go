package xmlbuild

import "encoding/binary"

// Node kinds, stored in the low three bits of byte 0 of every row.
const (
	KindDoc  byte = 0
	KindElem byte = 1
	KindText byte = 2
	KindAttr byte = 3
	KindComm byte = 4
	KindPI   byte = 5
)

const (
	// RowSize is the fixed width of one table row, in bytes.
	RowSize = 16
	// MaxAtts is the largest attribute distance/count the 5-bit asize and
	// dist fields can hold.
	MaxAtts = 0x1F
	// MaxNames is the capacity of each name dictionary (element, attribute).
	MaxNames = 0x8000
	// MaxURIs is the capacity of the namespace uri dictionary.
	MaxURIs = 0x100
	// MaxPre is the largest preorder value the 31-bit size counter permits.
	MaxPre = 1<<31 - 1
)

// Row is one 16-byte table entry. Its layout depends on Kind(); see the
// Encode* functions for how each kind's fields are packed.
type Row [RowSize]byte

// Kind returns the node kind stored in the row.
func (r Row) Kind() byte { return r[0] & 0x7 }

// ASize returns the attribute-count field of an ELEM row.
func (r Row) ASize() int { return int(r[0] >> 3) }

// Dist returns the distance to the parent. Valid for ELEM, ATTR, TEXT,
// COMM and PI rows.
func (r Row) Dist() int32 {
	switch r.Kind() {
	case KindAttr:
		return int32(r[0] >> 3)
	case KindElem:
		return int32(binary.BigEndian.Uint32(r[4:8]))
	case KindText, KindComm, KindPI:
		return int32(binary.BigEndian.Uint32(r[8:12]))
	default:
		return 0
	}
}

// NameID returns the element or attribute name id. Valid for ELEM and
// ATTR rows.
func (r Row) NameID() int32 {
	switch r.Kind() {
	case KindElem:
		return int32(binary.BigEndian.Uint16(r[1:3]) & 0x7fff)
	case KindAttr:
		return int32(binary.BigEndian.Uint16(r[1:3]))
	default:
		return 0
	}
}

// HasNS reports whether an ELEM row introduced any namespace bindings.
func (r Row) HasNS() bool {
	return r.Kind() == KindElem && binary.BigEndian.Uint16(r[1:3])&0x8000 != 0
}

// URIID returns the namespace uri id. Valid for ELEM and ATTR rows.
func (r Row) URIID() int32 {
	switch r.Kind() {
	case KindElem:
		return int32(r[3])
	case KindAttr:
		return int32(binary.BigEndian.Uint32(r[8:12]))
	default:
		return 0
	}
}

// TextRef returns the raw 40-bit text/value reference. Valid for DOC,
// ATTR, TEXT, COMM and PI rows. See DecodeTextRef.
func (r Row) TextRef() uint64 {
	switch r.Kind() {
	case KindDoc, KindText, KindComm, KindPI, KindAttr:
		return read5(r[3:8])
	default:
		return 0
	}
}

// Size returns the subtree size. Valid for DOC and ELEM rows once
// patched; before patching it holds the placeholder value described in
// EncodeElem.
func (r Row) Size() int32 { return int32(binary.BigEndian.Uint32(r[8:12])) }

// Pre returns the row's own preorder id.
func (r Row) Pre() int32 { return int32(binary.BigEndian.Uint32(r[12:16])) }

func read5(b []byte) uint64 {
	return uint64(b[0])<<32 | uint64(b[1])<<24 | uint64(b[2])<<16 | uint64(b[3])<<8 | uint64(b[4])
}

func write5(b []byte, v uint64) {
	b[0] = byte(v >> 32)
	b[1] = byte(v >> 24)
	b[2] = byte(v >> 16)
	b[3] = byte(v >> 8)
	b[4] = byte(v)
}

// EncodeDoc packs a DOC row into buf, which must be at least RowSize
// bytes long.
func EncodeDoc(buf []byte, textRef uint64, pre int32) {
	buf[0] = KindDoc
	buf[1], buf[2] = 0, 0
	write5(buf[3:8], textRef)
	binary.BigEndian.PutUint32(buf[8:12], 0)
	binary.BigEndian.PutUint32(buf[12:16], uint32(pre))
}

// EncodeElem packs an ELEM row into buf. sizePlaceholder is the value
// initially stored in the size field; callers pass asize itself (a leaf
// element's true size equals asize, so no later patch is needed unless
// the element gains descendants or its attribute count overflowed
// MaxAtts — see builder.go).
func EncodeElem(buf []byte, asize int, nameID int32, ne bool, uriID int32, dist int32, sizePlaceholder int32, pre int32) {
	buf[0] = byte(asize<<3) | KindElem
	nameField := uint16(nameID)
	if ne {
		nameField |= 1 << 15
	}
	binary.BigEndian.PutUint16(buf[1:3], nameField)
	buf[3] = byte(uriID)
	binary.BigEndian.PutUint32(buf[4:8], uint32(dist))
	binary.BigEndian.PutUint32(buf[8:12], uint32(sizePlaceholder))
	binary.BigEndian.PutUint32(buf[12:16], uint32(pre))
}

// EncodeAttr packs an ATTR row into buf.
func EncodeAttr(buf []byte, dist int32, nameID int32, valueRef uint64, uriID int32, pre int32) {
	buf[0] = byte(dist<<3) | KindAttr
	binary.BigEndian.PutUint16(buf[1:3], uint16(nameID))
	write5(buf[3:8], valueRef)
	binary.BigEndian.PutUint32(buf[8:12], uint32(uriID))
	binary.BigEndian.PutUint32(buf[12:16], uint32(pre))
}

// EncodeText packs a TEXT, COMM or PI row into buf.
func EncodeText(buf []byte, kind byte, textRef uint64, dist int32, pre int32) {
	buf[0] = kind
	buf[1], buf[2] = 0, 0
	write5(buf[3:8], textRef)
	binary.BigEndian.PutUint32(buf[8:12], uint32(dist))
	binary.BigEndian.PutUint32(buf[12:16], uint32(pre))
}

// PatchSize overwrites the size field (byte offset 8) of a DOC or ELEM
// row already written into buf.
func PatchSize(buf []byte, size int32) {
	binary.BigEndian.PutUint32(buf[8:12], uint32(size))
}
