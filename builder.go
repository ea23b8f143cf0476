package xmlbuild

import (
	"context"
	"fmt"
	"strings"

	"github.com/basex-go/xmlbuild/builderr"
	"github.com/basex-go/xmlbuild/internal/names"
	"github.com/basex-go/xmlbuild/internal/nsscope"
	"github.com/basex-go/xmlbuild/internal/pathsummary"
)

// NSDecl is one xmlns/xmlns:prefix declaration carried by an open-element
// event.
type NSDecl struct {
	Prefix string // "" for the default namespace
	URI    string
}

// Attr is one attribute carried by an open- or empty-element event.
type Attr struct {
	Name  string // qname, e.g. "xml:id" or "id"
	Value []byte
}

type openFrame struct {
	pre    int32
	name   string
	nameID int32 // -1 for a document frame, which has no element name id
}

// Builder is the single-document-at-a-time front-end: it tracks the
// open-element/document stack, preorder and distance bookkeeping, name
// and namespace resolution, and path-summary accumulation, then drives
// a Backend to materialize rows. It holds no knowledge of whether its
// Backend writes to disk or memory.
type Builder struct {
	back Backend

	elems *names.Dictionary
	atts  *names.Dictionary
	ns    *nsscope.Scope
	paths *pathsummary.Summary

	stack []openFrame
	pre   int32
	ndocs int32

	stopped bool
	ctx     context.Context
}

// New returns a Builder driving back for one build. ctx is checked by
// CloseElem only; once it is done, that CloseElem and every later one
// returns builderr.ErrCancelled.
func New(ctx context.Context, back Backend) *Builder {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Builder{
		back:  back,
		elems: names.New(MaxNames, builderr.ErrLimitElems),
		atts:  names.New(MaxNames, builderr.ErrLimitAtts),
		// Uri id 0 is reserved, so MaxURIs-1 real uris keep every id
		// below MaxURIs (the ELEM row's one-byte uri field).
		ns:    nsscope.New(MaxURIs - 1),
		paths: pathsummary.New(),
		ctx:   ctx,
	}
}

func (b *Builder) checkStop() error {
	if b.stopped {
		return builderr.ErrCancelled
	}
	select {
	case <-b.ctx.Done():
		b.stopped = true
		return builderr.ErrCancelled
	default:
		return nil
	}
}

func (b *Builder) parentPre() int32 {
	if len(b.stack) == 0 {
		return -1
	}
	return b.stack[len(b.stack)-1].pre
}

func (b *Builder) nextPre() (int32, error) {
	if b.pre >= MaxPre {
		return 0, builderr.ErrRange
	}
	p := b.pre
	b.pre++
	return p, nil
}

// splitQName splits a qname into its prefix (possibly empty) and local
// part.
func splitQName(qname string) (prefix, local string) {
	if i := strings.IndexByte(qname, ':'); i >= 0 {
		return qname[:i], qname[i+1:]
	}
	return "", qname
}

// resolve looks up the in-scope uri id for a qname's prefix. Attributes
// never inherit the default namespace: an empty prefix on an attribute
// always has no namespace. An empty prefix on an element consults the
// bound default namespace (xmlns="uri"); if none is bound, the element
// simply has no namespace rather than an error.
func (b *Builder) resolve(prefix string, isElement bool) (int32, error) {
	if prefix == "" {
		if !isElement {
			return 0, nil
		}
		id, err := b.ns.URI("")
		if err != nil {
			return 0, nil
		}
		return id, nil
	}
	return b.ns.URI(prefix)
}

// OpenDoc starts a new document node named name (typically its source
// path or URI) and returns its pre value.
func (b *Builder) OpenDoc(name string) (int32, error) {
	ref, err := b.textRef(name)
	if err != nil {
		return 0, err
	}
	pre, err := b.nextPre()
	if err != nil {
		return 0, err
	}
	if err := b.back.AddDoc(pre, ref); err != nil {
		return 0, err
	}
	b.ns.Prepare(pre)
	b.paths.OpenDoc()
	b.stack = append(b.stack, openFrame{pre: pre, name: name, nameID: -1})
	return pre, nil
}

// CloseDoc closes the document opened by the matching OpenDoc, patching
// its final size.
func (b *Builder) CloseDoc() error {
	if len(b.stack) == 0 {
		return builderr.ErrUnexpectedEvent
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.ns.Close(top.pre)
	b.paths.Close()
	b.ndocs++
	return b.back.SetSize(top.pre, b.pre-top.pre)
}

// OpenElem opens an element named name, declaring nsDecls and carrying
// atts, and returns its pre value. Callers must later call CloseElem
// (or, for a self-closing tag, use EmptyElem instead).
func (b *Builder) OpenElem(name string, nsDecls []NSDecl, atts []Attr) (int32, error) {
	pre, nameID, err := b.openElem(name, nsDecls, atts)
	if err != nil {
		return 0, err
	}
	b.stack = append(b.stack, openFrame{pre: pre, name: name, nameID: nameID})
	return pre, nil
}

// EmptyElem writes a self-closing element in one call: no matching
// CloseElem follows.
func (b *Builder) EmptyElem(name string, nsDecls []NSDecl, atts []Attr) (int32, error) {
	pre, _, err := b.openElem(name, nsDecls, atts)
	if err != nil {
		return 0, err
	}
	b.ns.Close(pre)
	b.paths.Close()
	return pre, b.back.SetSize(pre, b.pre-pre)
}

func (b *Builder) openElem(name string, nsDecls []NSDecl, atts []Attr) (pre, nameID int32, err error) {
	pre, err = b.nextPre()
	if err != nil {
		return 0, 0, err
	}
	parent := b.parentPre()
	dist := pre - parent

	if len(b.stack) > 0 {
		top := &b.stack[len(b.stack)-1]
		if top.nameID >= 0 {
			b.elems.Touch(top.nameID, true, true, 0)
		}
	}

	b.ns.Prepare(pre)
	for _, d := range nsDecls {
		if _, err := b.ns.Add(d.Prefix, d.URI); err != nil {
			return 0, 0, err
		}
	}

	prefix, _ := splitQName(name)
	uriID, err := b.resolve(prefix, true)
	if err != nil {
		return 0, 0, err
	}
	nameID, err = b.elems.Index(name)
	if err != nil {
		return 0, 0, err
	}
	b.elems.Touch(nameID, false, true, 0)

	asize := len(atts) + 1
	truncated := asize > MaxAtts
	if truncated {
		asize = MaxAtts
	}
	ne := len(nsDecls) > 0

	b.paths.Open(nameID)

	if err := b.back.AddElem(pre, nameID, ne, uriID, asize, dist); err != nil {
		return 0, 0, err
	}

	for i, a := range atts {
		// The ATTR row's 5-bit dist field holds at most MaxAtts.
		dist := int32(i + 1)
		if dist > MaxAtts {
			dist = MaxAtts
		}
		if err := b.addAttr(pre, dist, a); err != nil {
			return 0, 0, err
		}
	}

	if truncated {
		// The asize field can't hold the true attribute-derived size once
		// it exceeds MaxAtts; stash the real value in the full-width size
		// field now. CloseElem (or EmptyElem) overwrites it again with the
		// subtree's true size once that's known.
		if err := b.back.SetSize(pre, int32(len(atts)+1)); err != nil {
			return 0, 0, err
		}
	}

	return pre, nameID, nil
}

func (b *Builder) addAttr(ownerPre, dist int32, a Attr) error {
	prefix, _ := splitQName(a.Name)
	uriID, err := b.resolve(prefix, false)
	if err != nil {
		return err
	}
	nameID, err := b.atts.Index(a.Name)
	if err != nil {
		return err
	}
	b.atts.Touch(nameID, false, false, len(a.Value))
	ref, err := b.valueRef(a.Value, false)
	if err != nil {
		return err
	}
	pre, err := b.nextPre()
	if err != nil {
		return err
	}
	b.paths.Put(nameID, KindAttr, len(a.Value))
	return b.back.AddAttr(pre, nameID, ref, uriID, dist)
}

// CloseElem closes the element opened by the matching OpenElem,
// patching its final subtree size.
func (b *Builder) CloseElem() error {
	if err := b.checkStop(); err != nil {
		return err
	}
	if len(b.stack) == 0 {
		return builderr.ErrUnexpectedEvent
	}
	top := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.ns.Close(top.pre)
	b.paths.Close()
	return b.back.SetSize(top.pre, b.pre-top.pre)
}

// Text appends a text node. An empty value is dropped entirely (no row
// is written, no pre is consumed); whitespace-only values are kept.
func (b *Builder) Text(value []byte) error {
	return b.addLeaf(KindText, value)
}

// Comment appends a comment node.
func (b *Builder) Comment(value []byte) error {
	return b.addLeaf(KindComm, value)
}

// PI appends a processing instruction node. value is the PI's full
// content (target and data already joined by the caller), matching how
// the table stores it as a single token.
func (b *Builder) PI(value []byte) error {
	return b.addLeaf(KindPI, value)
}

func (b *Builder) addLeaf(kind byte, value []byte) error {
	if len(value) == 0 {
		return nil
	}
	if len(b.stack) > 0 {
		if top := b.stack[len(b.stack)-1]; top.nameID >= 0 {
			switch kind {
			case KindText:
				// Text histogram: track the longest text value seen under
				// this element, without touching its leaf flag.
				b.elems.Touch(top.nameID, false, false, len(value))
			case KindComm, KindPI:
				b.elems.Touch(top.nameID, true, false, 0)
			}
		}
	}
	ref, err := b.valueRef(value, true)
	if err != nil {
		return err
	}
	pre, err := b.nextPre()
	if err != nil {
		return err
	}
	parent := b.parentPre()
	dist := pre - parent
	if kind == KindText {
		b.paths.Put(-1, KindText, len(value))
	}
	return b.back.AddText(pre, kind, ref, dist)
}

// textRef resolves a document name into a text-ref in the text side
// stream. Names are never integer-inlined: only text, comment, PI and
// attribute-value content is (see valueRef).
func (b *Builder) textRef(s string) (uint64, error) {
	return b.back.InternToken([]byte(s), true)
}

// valueRef resolves text/attribute-value content into a text-ref,
// inlining it when it parses as a plain int32 literal. isText selects
// the side stream non-inlined content lands in: true for element text,
// comments and PIs, false for attribute values.
func (b *Builder) valueRef(value []byte, isText bool) (uint64, error) {
	if v, ok := ToSimpleInt(value); ok {
		return PackInline(v), nil
	}
	return b.back.InternToken(value, isText)
}

// Detail returns a human-readable description of the innermost open
// node, for progress reporting.
func (b *Builder) Detail() string {
	if len(b.stack) == 0 {
		return ""
	}
	top := b.stack[len(b.stack)-1]
	return fmt.Sprintf("%s [%d]", top.name, top.pre)
}

// Progress returns how far through the build is, as a fraction of total
// (an estimate of final row count the caller supplies, e.g. source byte
// count for a streaming parser). It is purely informational.
func (b *Builder) Progress(total int32) float64 {
	if total <= 0 {
		return 0
	}
	if b.pre >= total {
		return 1
	}
	return float64(b.pre) / float64(total)
}

// Close finalizes the build: any still-open elements are force-closed in
// LIFO order (a malformed or truncated input), then the backend is
// closed.
func (b *Builder) Close(ctx context.Context) error {
	for len(b.stack) > 0 {
		top := b.stack[len(b.stack)-1]
		b.stack = b.stack[:len(b.stack)-1]
		b.ns.Close(top.pre)
		b.paths.Close()
		if top.nameID < 0 {
			b.ndocs++
		}
		if err := b.back.SetSize(top.pre, b.pre-top.pre); err != nil {
			b.back.Abort()
			return err
		}
	}
	return b.back.Close(ctx)
}

// Abort discards the build's backend outputs without finalizing them.
func (b *Builder) Abort() { b.back.Abort() }

// MetaData returns a snapshot of the dictionaries and counters
// accumulated so far, suitable for EncodeFile.
func (b *Builder) MetaData(docName, encoding string, ts int64) *MetaData {
	lastID := b.pre - 1
	if lastID < 0 {
		lastID = 0
	}
	return &MetaData{
		DocName:   docName,
		Size:      b.pre,
		NDocs:     b.ndocs,
		LastID:    lastID,
		Encoding:  encoding,
		Timestamp: ts,
		ElemNames: b.elems.Names(),
		AttrNames: b.atts.Names(),
		URIs:      b.ns.URIs(),
		PathNodes: b.paths.Size(),
	}
}
