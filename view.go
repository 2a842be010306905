package lazydi

import (
	"reflect"

	"github.com/junioryono/lazydi/internal/tree"
)

// Getter reads a path from a container view.
type Getter interface {
	Get(path string) (any, error)
}

var _ Getter = (*View)(nil)

// View is a read-only, lazily evaluated window over one level of a container
// merged with a mapping. Nothing read through a View is cached by it.
type View struct {
	source  *Node // the level as registered
	mapping *Node // the top-level mapping, shared by every descendant view
	base    *Node // source merged with mapping
}

// NewView creates a view over source with mapping merged into every level.
// Neither tree is modified.
func NewView(source, mapping Tree) *View {
	if source == nil {
		source = Tree{}
	}
	return newView(tree.Compile(source), compileMapping(mapping))
}

func newView(source, mapping *Node) *View {
	return &View{
		source:  source,
		mapping: mapping,
		base:    tree.Merge(source, mapping),
	}
}

func compileMapping(mapping Tree) *Node {
	if mapping == nil {
		return nil
	}
	return tree.Compile(mapping)
}

// Get reads path from the merged level. An object-shaped value is returned
// as a *View carrying the same mapping, a resolver is invoked with the
// un-merged level and path, and anything else is returned verbatim.
func (v *View) Get(path string) (any, error) {
	n, ok := v.base.Lookup(path)
	if !ok {
		return nil, nil
	}

	switch n.Kind() {
	case tree.Object:
		return newView(n, v.mapping), nil
	case tree.Invocable:
		return n.Func()(v.source, path)
	default:
		return n.Value(), nil
	}
}

// Walk reads path one segment at a time, as a chain of Get calls on nested
// views, so a resolver at the end of the path receives its own level and
// key. A literal key equal to path is read directly. Leaves met on the way
// (slices, typed maps) are indexed with the remaining segments.
func (v *View) Walk(path string) (any, error) {
	if _, ok := v.base.Child(path); ok {
		return v.Get(path)
	}

	segs := tree.Split(path)
	if len(segs) == 0 {
		return nil, nil
	}

	cur := v
	for i, seg := range segs {
		value, err := cur.Get(seg)
		if err != nil || value == nil || i == len(segs)-1 {
			return value, err
		}

		next, ok := value.(*View)
		if !ok {
			return cur.index(value, segs[i+1:])
		}
		cur = next
	}

	return nil, nil
}

// index continues a walk inside a leaf value.
func (v *View) index(value any, segs []string) (any, error) {
	leaf := tree.CompileScoped(value, v.source.Scope())

	n := leaf
	for _, seg := range segs[:len(segs)-1] {
		next, ok := n.Lookup(seg)
		if !ok {
			return nil, nil
		}
		n = next
	}

	last := segs[len(segs)-1]
	found, ok := n.Lookup(last)
	if !ok {
		return nil, nil
	}

	switch found.Kind() {
	case tree.Object:
		return newView(found, v.mapping), nil
	case tree.Invocable:
		return found.Func()(n, last)
	default:
		return found.Value(), nil
	}
}

// Has reports whether path exists in the merged level.
func (v *View) Has(path string) bool {
	_, ok := v.base.Lookup(path)
	return ok
}

// Keys returns the keys of the merged level in sorted order.
func (v *View) Keys() []string {
	return v.base.Keys()
}

// Source returns the level as registered, before the mapping was merged.
func (v *View) Source() *Node {
	return v.source
}

// Materialize returns a copy of the merged level as a plain Tree without
// invoking anything.
func (v *View) Materialize() Tree {
	m, _ := tree.AsMap(v.base.Plain())
	return m
}

// Get reads path from g and asserts it to T. A nil value yields the zero T.
//
// Example:
//
//	port, err := lazydi.Get[int](view, "db.port")
func Get[T any](g Getter, path string) (T, error) {
	var zero T

	v, err := g.Get(path)
	if err != nil || v == nil {
		return zero, err
	}

	t, ok := v.(T)
	if !ok {
		return zero, TypeMismatchError{
			Path:     path,
			Expected: reflect.TypeFor[T](),
			Actual:   reflect.TypeOf(v),
		}
	}
	return t, nil
}
