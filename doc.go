// Package xmlbuild implements the build core of an XML-native database:
// it turns a stream of parser events (open/close document, open/close
// element, attribute, text, comment, processing instruction) into a
// fixed-width preorder row table plus its side files, with no
// intermediate in-memory tree.
//
// A Builder is the single front-end: it tracks the open-element stack,
// assigns preorder ids and parent-distances, resolves qnames against
// in-scope namespace bindings, maintains the element/attribute name
// dictionaries and the path summary, and packs text and attribute
// values into 40-bit references (an inlined integer literal, or an
// offset into a side file, optionally compressed).
//
// The front-end drives a Backend, of which there are two: disk (package
// disk), which streams rows to an append-only table file and defers
// subtree-size patches to a second pass over a temporary file, and mem
// (package mem), which keeps its buffers resident and patches sizes in
// place. Builder itself never branches on which kind of backend it has;
// see backend.go.
//
// A subtree's size is not known until it closes, so every DOC and ELEM
// row is written with a placeholder in its size field and patched once
// its subtree is complete (at CloseDoc, CloseElem or EmptyElem). See
// row.go for the row layout: the DOC/ELEM size field lives at the same
// byte offset (8) for both kinds, which is what lets one patch routine
// serve every row.
package xmlbuild
