package lazydi

import (
	"github.com/junioryono/lazydi/internal/tree"
)

// Tree is a definition, a mapping or an assembled container. A nested value
// is object-shaped when it is itself a Tree (map[string]any); every other map
// type is a leaf.
type Tree = map[string]any

// Node is a compiled tree node. A resolver receives the node of the level it
// was reached through.
type Node = tree.Node

// Resolver is the single invocable shape in a definition. src is the
// un-merged level the resolver was read from and key is the key that was
// read. A Resolver must not modify src.
type Resolver = tree.Func

// Kind classifies a Node.
type Kind = tree.Kind

const (
	KindLeaf      = tree.Leaf
	KindObject    = tree.Object
	KindInvocable = tree.Invocable
)
