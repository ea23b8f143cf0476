package pathsummary

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistinctPathsAggregate(t *testing.T) {
	s := New()
	// <book><title>a</title></book>
	s.Open(1) // book
	s.Open(2) // title
	s.Put(-1, 'T', 1)
	s.Close() // title
	s.Close() // book

	// A second <book><title>bb</title></book> shares both path nodes.
	s.Open(1)
	s.Open(2)
	s.Put(-1, 'T', 2)
	s.Close()
	s.Close()

	// book -> title -> text is 3 distinct nodes total.
	require.Equal(t, 3, s.Size())
}

func TestSiblingNamesStayDistinct(t *testing.T) {
	s := New()
	s.Open(1) // book
	s.Open(2) // title
	s.Close()
	s.Open(3) // author, different name, same parent
	s.Close()
	s.Close()

	require.Equal(t, 3, s.Size()) // book, title, author
}

func TestAttributeUnderElement(t *testing.T) {
	s := New()
	s.Open(1)
	s.Put(5, 'A', 3)
	s.Close()

	require.Equal(t, 2, s.Size())
}

func TestOpenDocRecordsRootAndNestsElements(t *testing.T) {
	s := New()
	s.OpenDoc()
	s.Open(1) // book, parented under the doc node, not the tree root
	s.Close()
	s.Close()

	require.Equal(t, 2, s.Size()) // doc, book

	// A second document with the same top-level element shares the doc
	// node, since both are keyed by (root, DOC).
	s.OpenDoc()
	s.Open(1)
	s.Close()
	s.Close()

	require.Equal(t, 2, s.Size())
}
