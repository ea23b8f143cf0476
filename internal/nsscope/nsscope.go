// Package nsscope tracks namespace bindings in effect at each point of a
// build: a stack of frames keyed by the preorder value of the element
// that opened them, plus a flat uri dictionary shared by the whole
// build (bounded by xmlbuild.MaxURIs).
package nsscope

import "github.com/basex-go/xmlbuild/builderr"

type frame struct {
	pre      int32
	prefixes map[string]int32 // prefix -> uri id, bindings opened at pre
}

// Scope is the namespace-binding stack for one build.
type Scope struct {
	uris   []string
	uriIdx map[string]int32
	frames []frame
	limit  int
}

// New returns an empty Scope with the given uri dictionary capacity.
// Uri id 0 is reserved to mean "no namespace" (the row format's URIID
// field is a single unsigned byte with no room for a -1 sentinel), so
// the dictionary's real entries start at id 1.
func New(maxURIs int) *Scope {
	return &Scope{
		uris:   []string{""},
		uriIdx: make(map[string]int32),
		limit:  maxURIs,
	}
}

// Prepare opens a new binding frame for the element at pre. BaseX's
// NSContext.prepare() takes no argument because it mutates a field the
// builder sets beforehand; passing pre explicitly keeps Scope a pure,
// builder-owned component with no hidden dependency on call order.
func (s *Scope) Prepare(pre int32) {
	s.frames = append(s.frames, frame{pre: pre})
}

// Add binds prefix to uri within the frame most recently opened by
// Prepare, assigning uri a dictionary id if it is new. It reports
// builderr.ErrLimitNS if the uri dictionary is full.
func (s *Scope) Add(prefix, uri string) (int32, error) {
	var id int32
	if uri == "" {
		// xmlns="" (or xmlns:p="") explicitly undeclares a namespace;
		// it resolves to the same reserved no-namespace id as an unbound
		// prefix, not a new dictionary entry.
		id = 0
	} else if existing, ok := s.uriIdx[uri]; ok {
		id = existing
	} else {
		if len(s.uris)-1 >= s.limit {
			return 0, builderr.ErrLimitNS
		}
		id = int32(len(s.uris))
		s.uris = append(s.uris, uri)
		s.uriIdx[uri] = id
	}
	if len(s.frames) == 0 {
		s.frames = append(s.frames, frame{})
	}
	top := &s.frames[len(s.frames)-1]
	if top.prefixes == nil {
		top.prefixes = make(map[string]int32)
	}
	top.prefixes[prefix] = id
	return id, nil
}

// URI resolves prefix against the in-scope bindings, innermost frame
// first. The reserved "xml" prefix always resolves to the no-namespace
// id, per the XML namespaces spec, even with no explicit binding. It
// reports builderr.ErrNamespaceBinding if prefix has no in-scope
// binding.
func (s *Scope) URI(prefix string) (int32, error) {
	if prefix == "xml" {
		return 0, nil
	}
	for i := len(s.frames) - 1; i >= 0; i-- {
		if id, ok := s.frames[i].prefixes[prefix]; ok {
			return id, nil
		}
	}
	return 0, builderr.ErrNamespaceBinding
}

// Close pops the frame opened at pre. It is a no-op if the top frame
// was opened at a different pre.
func (s *Scope) Close(pre int32) {
	if len(s.frames) == 0 {
		return
	}
	if top := s.frames[len(s.frames)-1]; top.pre == pre {
		s.frames = s.frames[:len(s.frames)-1]
	}
}

// Size returns the number of distinct, real (non-reserved) uris bound
// so far.
func (s *Scope) Size() int { return len(s.uris) - 1 }

// URIs returns the real uri dictionary in assignment order (the
// reserved no-namespace slot 0 is omitted), for persistence.
func (s *Scope) URIs() []string { return s.uris[1:] }
