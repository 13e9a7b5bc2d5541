package relief

import (
	"errors"
	"fmt"
	"iter"
	"strings"
)

// Errors returned for caller mistakes. Data problems never produce Go
// errors; they surface as sentinels and element error lists.
var (
	// ErrEmpty reports PopItem on a container without entries.
	ErrEmpty = errors.New("dictionary is empty")
	// ErrTooManySources reports more than one positional source passed to
	// Update.
	ErrTooManySources = errors.New("update accepts at most one source")
	// ErrTooManyFallbacks reports more than one fallback passed to Pop.
	ErrTooManyFallbacks = errors.New("pop accepts at most one fallback")
	// ErrUnusableSource reports an Update source that is not mapping-shaped.
	ErrUnusableSource = errors.New("update source is not mapping-shaped")
	// ErrUnusableKey reports an Update override whose key cannot back a map
	// entry.
	ErrUnusableKey = errors.New("key is not comparable")
)

// NotFoundError reports a keyed operation that had no entry and no fallback.
type NotFoundError struct {
	Key any
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("key not found: %v", e.Key) }

// Issue is one noted message located by the traversal path of the element
// that carries it.
type Issue struct {
	Path    string `json:"path"` // Pointer-rendered path (for example: /1/0).
	Message string `json:"message"`
}

// Issues is a collection of located messages that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. May not be blank. at /0/1
		fmt.Fprintf(b, "%s at %s", it.Message, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssues appends issues to the destination, initializing the slice
// when needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// CollectIssues flattens every error list in the tree under el into
// path-addressed issues, in traversal order. Containers implementing
// NodeWalker contribute their own errors; other elements contribute their
// leaves.
func CollectIssues(el Element) Issues {
	var iss Issues
	for leaf := range nodesOf(el, nil) {
		for _, msg := range leaf.Element.Errors() {
			iss = AppendIssues(iss, Issue{Path: leaf.Path.Pointer(), Message: msg})
		}
	}
	return iss
}

func nodesOf(el Element, prefix Path) iter.Seq[Leaf] {
	if w, ok := el.(NodeWalker); ok {
		return w.Nodes(prefix)
	}
	return el.Traverse(prefix)
}
