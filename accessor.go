package lazydi

import (
	"github.com/junioryono/lazydi/internal/tree"
)

// GetFromContainer returns an accessor for path. The accessor looks path up
// in a container; a resolver found there is called with the container and an
// empty key, anything else is returned as is. A missing path yields nil.
//
// Example:
//
//	port, err := lazydi.GetFromContainer("db.port")(container)
func GetFromContainer(path string) func(Tree) (any, error) {
	return func(container Tree) (any, error) {
		return Lookup(Compile(container), path)
	}
}

// Compile compiles a container once for repeated Lookup calls.
func Compile(container Tree) *Node {
	if container == nil {
		container = Tree{}
	}
	return tree.Compile(container)
}

// Lookup reads path from a compiled container with the rules of
// GetFromContainer.
func Lookup(root *Node, path string) (any, error) {
	n, ok := root.Lookup(path)
	if !ok {
		return nil, nil
	}

	if fn := n.Func(); fn != nil {
		return fn(root, "")
	}
	return n.Value(), nil
}
