package tree

import (
	"fmt"
	"io"
	"strings"
)

// Visualizer renders a compiled tree.
type Visualizer struct {
	root *Node
}

// NewVisualizer creates a new tree visualizer.
func NewVisualizer(root *Node) *Visualizer {
	return &Visualizer{root: root}
}

// WriteDOT writes the tree in Graphviz DOT format. Every node is labelled
// with its key and colored by kind.
func (v *Visualizer) WriteDOT(w io.Writer) error {
	ew := &errWriter{w: w}

	ew.println("digraph definition {")
	ew.println("  rankdir=LR;")
	ew.println("  node [shape=box];")

	ids := 0
	var walk func(n *Node, label string) string
	walk = func(n *Node, label string) string {
		id := fmt.Sprintf("n%d", ids)
		ids++

		ew.printf("  %s [label=\"%s\", fillcolor=\"%s\", style=filled];\n",
			id, escapeLabel(v.formatLabel(n, label)), kindColor(n.Kind()))

		for _, k := range n.Keys() {
			child, _ := n.Child(k)
			childID := walk(child, k)
			ew.printf("  %s -> %s;\n", id, childID)
		}
		return id
	}
	walk(v.root, ".")

	ew.println("}")
	return ew.err
}

// WriteText writes an indented listing followed by per-kind statistics.
func (v *Visualizer) WriteText(w io.Writer) error {
	ew := &errWriter{w: w}
	counts := make(map[Kind]int)

	var walk func(n *Node, key string, depth int)
	walk = func(n *Node, key string, depth int) {
		counts[n.Kind()]++
		if depth > 0 {
			ew.printf("%s%s\n", strings.Repeat("  ", depth-1), v.formatLabel(n, key))
		}
		for _, k := range n.Keys() {
			child, _ := n.Child(k)
			walk(child, k, depth+1)
		}
	}
	walk(v.root, ".", 0)

	ew.println()
	ew.println("Statistics:")
	ew.println("-----------")
	ew.printf("  Objects: %d\n", counts[Object])
	ew.printf("  Invocables: %d\n", counts[Invocable])
	ew.printf("  Leaves: %d\n", counts[Leaf])

	return ew.err
}

// formatLabel creates a label for a node.
func (v *Visualizer) formatLabel(n *Node, key string) string {
	switch n.Kind() {
	case Object:
		return fmt.Sprintf("%s/", key)
	case Invocable:
		return fmt.Sprintf("%s()", key)
	default:
		return fmt.Sprintf("%s: %T", key, n.Value())
	}
}

func kindColor(k Kind) string {
	switch k {
	case Object:
		return "lightblue"
	case Invocable:
		return "lightgreen"
	default:
		return "lightyellow"
	}
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}

// errWriter keeps the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...any) {
	if e.err == nil {
		_, e.err = fmt.Fprintf(e.w, format, args...)
	}
}

func (e *errWriter) println(args ...any) {
	if e.err == nil {
		_, e.err = fmt.Fprintln(e.w, args...)
	}
}
