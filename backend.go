package xmlbuild

import "context"

// Backend is the row-writing capability a build front-end drives. Both
// the disk back-end (two-pass, temp-file size patch) and the memory
// back-end (direct patch into a resident buffer) implement it; Builder
// holds one and never branches on which kind it has.
//
// Every Add* method receives the node's own pre value explicitly:
// backends are pure row writers and never own the shared pre counter,
// which belongs solely to Builder.
type Backend interface {
	// AddDoc appends a DOC row for pre, with the document's base-uri/name
	// reference already resolved into a text-ref.
	AddDoc(pre int32, nameRef uint64) error

	// AddElem appends an ELEM row for pre. asize is the clamped attribute
	// field (min(attCount+1, MaxAtts)); dist is pre's distance to its
	// parent. The backend records pre so a later SetSize call can find
	// and patch its size field.
	AddElem(pre int32, nameID int32, ne bool, uriID int32, asize int, dist int32) error

	// AddAttr appends an ATTR row for pre.
	AddAttr(pre int32, nameID int32, valueRef uint64, uriID int32, dist int32) error

	// AddText appends a TEXT, COMM or PI row for pre.
	AddText(pre int32, kind byte, textRef uint64, dist int32) error

	// InternToken writes tok to the backend's text side file (isText
	// true: document names, element text, comments, PIs) or its
	// attribute-value side file (isText false), and returns a text-ref
	// pointing at it. Callers that already hold an inlinable integer
	// literal skip this and call PackInline directly instead.
	InternToken(tok []byte, isText bool) (uint64, error)

	// SetSize patches the size field of the DOC or ELEM row at pre, once
	// that subtree's final size is known.
	SetSize(pre int32, size int32) error

	// Close finalizes and flushes every output the backend owns. After
	// Close, the backend must not be used again.
	Close(ctx context.Context) error

	// Abort discards all outputs the backend has written, best-effort.
	// Called when a build is cancelled or fails partway through.
	Abort()
}
