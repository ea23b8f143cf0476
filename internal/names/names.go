// Package names implements the element/attribute name dictionaries: an
// insertion-ordered id table plus an xxh3-bucketed lookup index, each
// entry carrying the per-name usage stats BaseX calls "name summary" data
// (used kind counts and a leaf flag used to skip path-summary fan-out for
// names that only ever occur on leaves).
package names

import (
	"github.com/zeebo/xxh3"
)

// Stat tracks aggregate facts about one name across a build.
type Stat struct {
	Leaf    bool  // true until this name is seen with at least one child
	Count   int32 // number of occurrences
	MaxLen  int32 // longest text/value length seen under this name
	Elemish bool  // true if this name was ever used as an element (vs attribute)
}

// Dictionary is an append-only, capacity-bounded name table.
type Dictionary struct {
	names []string
	stats []Stat
	index map[uint64][]int32 // xxh3 bucket -> candidate ids
	cap   int
	limit error
}

// New returns an empty Dictionary. limit is the sentinel error Index
// returns once cap names have been assigned; the builder passes
// xmlbuild.MaxNames for both of its dictionaries.
func New(cap int, limit error) *Dictionary {
	return &Dictionary{
		index: make(map[uint64][]int32),
		cap:   cap,
		limit: limit,
	}
}

// Index returns the id for name, assigning a new one if name is unseen.
// It reports builderr.ErrLimit* (via the limit passed to New) if the
// dictionary is full and name is not already present.
func (d *Dictionary) Index(name string) (int32, error) {
	h := xxh3.HashString(name)
	for _, id := range d.index[h] {
		if d.names[id] == name {
			d.stats[id].Count++
			return id, nil
		}
	}
	if len(d.names) >= d.cap {
		return 0, d.limit
	}
	id := int32(len(d.names))
	d.names = append(d.names, name)
	d.stats = append(d.stats, Stat{Leaf: true, Count: 1})
	d.index[h] = append(d.index[h], id)
	return id, nil
}

// Touch records that id gained a child (clearing its leaf flag), was
// used as an element, and/or produced a value of length n.
func (d *Dictionary) Touch(id int32, gotChild, elem bool, n int) {
	if id < 0 || int(id) >= len(d.stats) {
		return
	}
	s := &d.stats[id]
	if gotChild {
		s.Leaf = false
	}
	if elem {
		s.Elemish = true
	}
	if int32(n) > s.MaxLen {
		s.MaxLen = int32(n)
	}
}

// Name returns the name string stored at id.
func (d *Dictionary) Name(id int32) string {
	if id < 0 || int(id) >= len(d.names) {
		return ""
	}
	return d.names[id]
}

// Stat returns the accumulated stats for id.
func (d *Dictionary) Stat(id int32) Stat {
	if id < 0 || int(id) >= len(d.stats) {
		return Stat{}
	}
	return d.stats[id]
}

// Size returns the number of distinct names assigned so far.
func (d *Dictionary) Size() int { return len(d.names) }

// Names returns the dictionary's entries in assignment order, for
// persistence by the caller.
func (d *Dictionary) Names() []string { return d.names }
