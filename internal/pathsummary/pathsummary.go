// Package pathsummary builds the distinct-path index: a tree of
// root-to-node label paths (by name id and kind), each node carrying
// aggregate stats over every document node that path matched.
package pathsummary

// key identifies one path-summary node: its parent in the path tree,
// the name dictionary id of the step (meaningless for kinds without a
// name, e.g. TEXT), and the node kind.
type key struct {
	parent int32
	nameID int32
	kind   byte
}

type node struct {
	key
	count  int32
	leaf   bool
	minLen int32
	maxLen int32
}

// Summary is the distinct-path tree accumulated over a build.
type Summary struct {
	nodes []node
	index map[key]int32
	// stack holds, for each currently-open element depth, the path node id
	// of that element's own path-summary entry, so children can parent
	// themselves correctly without needing to re-walk from the root.
	stack []int32
}

// New returns an empty Summary.
func New() *Summary {
	return &Summary{index: make(map[key]int32)}
}

// root is the implicit path-summary root, parent of every document node.
const root int32 = -1

// OpenDoc records a DOC step at the current depth and pushes it as the
// parent for subsequent Open/Put calls until Close.
func (s *Summary) OpenDoc() int32 {
	id := s.put(s.top(), 0, 'D', 0)
	s.stack = append(s.stack, id)
	return id
}

// Open records an ELEM step at the current depth and pushes it as the
// parent for subsequent Open/Put calls until Close.
func (s *Summary) Open(nameID int32) int32 {
	id := s.put(s.top(), nameID, 'E', 0)
	s.stack = append(s.stack, id)
	return id
}

// Close pops the frame pushed by the matching Open or OpenDoc.
func (s *Summary) Close() {
	if len(s.stack) > 0 {
		s.stack = s.stack[:len(s.stack)-1]
	}
}

// Put records a leaf step (attribute, text, comment or PI) under the
// current parent, with valueLen used to maintain the node's min/max
// observed length.
func (s *Summary) Put(nameID int32, kind byte, valueLen int) {
	s.put(s.top(), nameID, kind, valueLen)
}

func (s *Summary) top() int32 {
	if len(s.stack) == 0 {
		return root
	}
	return s.stack[len(s.stack)-1]
}

func (s *Summary) put(parent, nameID int32, kind byte, valueLen int) int32 {
	k := key{parent: parent, nameID: nameID, kind: kind}
	if id, ok := s.index[k]; ok {
		n := &s.nodes[id]
		n.count++
		if n.count == 1 || int32(valueLen) < n.minLen {
			n.minLen = int32(valueLen)
		}
		if int32(valueLen) > n.maxLen {
			n.maxLen = int32(valueLen)
		}
		return id
	}
	id := int32(len(s.nodes))
	s.nodes = append(s.nodes, node{key: k, count: 1, leaf: true, minLen: int32(valueLen), maxLen: int32(valueLen)})
	s.index[k] = id
	if parent >= 0 {
		s.nodes[parent].leaf = false
	}
	return id
}

// Size returns the number of distinct path-summary nodes accumulated.
func (s *Summary) Size() int { return len(s.nodes) }
