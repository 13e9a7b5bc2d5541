package relief

import (
	"strconv"
	"strings"
)

// Path addresses an element inside a tree as a list of integers. A mapping
// entry at position i contributes i followed by 0 for its key element or 1
// for its value element; sequences contribute the bare child index.
type Path []int

// Child returns a new path extended by i. The backing array is never shared
// with the receiver, so paths handed out during traversal stay stable.
func (p Path) Child(i int) Path {
	return append(append(Path{}, p...), i)
}

// Pointer renders the path in JSON Pointer style; the empty path renders
// as "/".
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, i := range p {
		b.WriteByte('/')
		b.WriteString(strconv.Itoa(i))
	}
	return b.String()
}

func (p Path) Equal(o Path) bool {
	if len(p) != len(o) {
		return false
	}
	for i := range p {
		if p[i] != o[i] {
			return false
		}
	}
	return true
}

func (p Path) String() string { return p.Pointer() }

// Leaf pairs a traversed element with its path.
type Leaf struct {
	Path    Path
	Element Element
}
