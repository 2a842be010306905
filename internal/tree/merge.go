package tree

import (
	"slices"
)

// Merge overlays mapping onto base without touching either. When both are
// objects the children merge key by key; otherwise a present mapping
// replaces base. The result keeps base's scope.
func Merge(base, mapping *Node) *Node {
	if mapping == nil {
		return base
	}
	if base == nil {
		return mapping
	}
	if base.kind != Object || mapping.kind != Object {
		return mapping
	}

	out := &Node{
		kind:     Object,
		scope:    base.scope,
		children: make(map[string]*Node, len(base.keys)+len(mapping.keys)),
		keys:     slices.Clone(base.keys),
	}
	for _, k := range base.keys {
		out.children[k] = base.children[k]
	}
	for _, k := range mapping.keys {
		if prev, ok := out.children[k]; ok {
			out.children[k] = Merge(prev, mapping.children[k])
			continue
		}
		out.children[k] = mapping.children[k]
		out.keys = append(out.keys, k)
	}
	slices.Sort(out.keys)

	return out
}
