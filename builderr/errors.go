// Package builderr defines the sentinel errors the build core can return.
//
// Callers distinguish recoverable/expected conditions from programming
// errors with errors.Is against the values here rather than matching
// error strings.
package builderr

import "errors"

var (
	// ErrLimitElems is returned when the element name dictionary would
	// grow past its capacity.
	ErrLimitElems = errors.New("xmlbuild: element name dictionary limit exceeded")
	// ErrLimitAtts is returned when the attribute name dictionary would
	// grow past its capacity.
	ErrLimitAtts = errors.New("xmlbuild: attribute name dictionary limit exceeded")
	// ErrLimitNS is returned when the namespace URI dictionary would grow
	// past its capacity.
	ErrLimitNS = errors.New("xmlbuild: namespace uri dictionary limit exceeded")
	// ErrRange is returned when the preorder counter would overflow its
	// signed 31-bit range.
	ErrRange = errors.New("xmlbuild: pre value range exceeded")
	// ErrNamespaceBinding is returned when a prefixed name has no in-scope
	// namespace binding (the reserved "xml" prefix is exempt).
	ErrNamespaceBinding = errors.New("xmlbuild: namespace prefix has no in-scope binding")
	// ErrCancelled is returned when a host-provided stop flag was observed
	// at a checkStop point.
	ErrCancelled = errors.New("xmlbuild: build cancelled")
	// ErrUnexpectedEvent is returned when the parser drives an event the
	// state machine does not allow in the current state. This indicates a
	// bug in the driving parser, not in the document.
	ErrUnexpectedEvent = errors.New("xmlbuild: unexpected parser event")
)
