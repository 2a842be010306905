package tree

import (
	"fmt"
	"maps"
	"slices"

	"github.com/google/uuid"
)

// Kind classifies a node. It is decided once, when the node is compiled.
type Kind uint8

const (
	// Leaf holds any value that is neither object-shaped nor invocable.
	Leaf Kind = iota

	// Object holds named children.
	Object

	// Invocable holds a Func.
	Invocable
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case Leaf:
		return "Leaf"
	case Object:
		return "Object"
	case Invocable:
		return "Invocable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Func is the single invocable shape. src is the level the function was
// reached through and key is the accessed key.
type Func func(src *Node, key string) (any, error)

// Node is an immutable, compiled tree node.
type Node struct {
	kind     Kind
	scope    string
	value    any
	fn       Func
	children map[string]*Node
	keys     []string
}

// Compile classifies v and, for object-shaped values, every descendant.
// All nodes share a freshly generated scope ID.
func Compile(v any) *Node {
	return CompileScoped(v, uuid.NewString())
}

// CompileScoped is Compile with an explicit scope ID.
func CompileScoped(v any, scope string) *Node {
	if n, ok := v.(*Node); ok && n != nil {
		return n
	}

	if m, ok := AsMap(v); ok {
		n := &Node{
			kind:     Object,
			scope:    scope,
			value:    v,
			children: make(map[string]*Node, len(m)),
			keys:     slices.Sorted(maps.Keys(m)),
		}
		for _, k := range n.keys {
			n.children[k] = CompileScoped(m[k], scope)
		}
		return n
	}

	if fn, ok := AsFunc(v); ok {
		return &Node{kind: Invocable, scope: scope, value: v, fn: fn}
	}

	return &Node{kind: Leaf, scope: scope, value: v}
}

// AsMap reports whether v is object-shaped and returns it as a plain map.
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, m != nil
	default:
		return nil, false
	}
}

// Adapter turns a value of a type the tree does not know into a Func.
type Adapter func(v any) (Func, bool)

var adapters []Adapter

// RegisterAdapter adds an adapter consulted by AsFunc. It must be called
// during package initialization.
func RegisterAdapter(a Adapter) {
	adapters = append(adapters, a)
}

// AsFunc reports whether v is invocable.
func AsFunc(v any) (Func, bool) {
	switch fn := v.(type) {
	case Func:
		return fn, fn != nil
	case func(*Node, string) (any, error):
		return fn, fn != nil
	}

	for _, a := range adapters {
		if fn, ok := a(v); ok {
			return fn, true
		}
	}
	return nil, false
}

// Kind returns the node's kind. A nil node is a Leaf holding nil.
func (n *Node) Kind() Kind {
	if n == nil {
		return Leaf
	}
	return n.kind
}

// Scope returns the ID of the tree the node was compiled in.
func (n *Node) Scope() string {
	if n == nil {
		return ""
	}
	return n.scope
}

// Func returns the node's function, or nil if it is not invocable.
func (n *Node) Func() Func {
	if n == nil {
		return nil
	}
	return n.fn
}

// Keys returns the child keys of an object node in sorted order.
func (n *Node) Keys() []string {
	if n == nil || n.kind != Object {
		return nil
	}
	return slices.Clone(n.keys)
}

// Child returns the direct child stored under key.
func (n *Node) Child(key string) (*Node, bool) {
	if n == nil || n.kind != Object {
		return nil, false
	}
	c, ok := n.children[key]
	return c, ok
}

// Value returns the raw value the node was compiled from. Object nodes
// built by Merge have no raw value, so one is assembled from the children.
func (n *Node) Value() any {
	if n == nil {
		return nil
	}
	if n.kind != Object || n.value != nil {
		return n.value
	}
	return n.Plain()
}

// Plain returns a fresh copy of an object node as nested plain maps. Leaves
// and invocables are returned as their raw values.
func (n *Node) Plain() any {
	if n == nil {
		return nil
	}
	if n.kind != Object {
		return n.value
	}

	m := make(map[string]any, len(n.keys))
	for _, k := range n.keys {
		m[k] = n.children[k].Plain()
	}
	return m
}
