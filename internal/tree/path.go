package tree

import (
	"reflect"
	"strconv"
	"strings"
)

// Split parses a dotted path with optional bracket indices into segments:
// "a.b[0].c" becomes ["a", "b", "0", "c"]. Quoted bracket keys are
// unquoted, so `a["x.y"]` becomes ["a", "x.y"].
func Split(path string) []string {
	if path == "" {
		return nil
	}

	var (
		segs []string
		cur  strings.Builder
	)
	flush := func() {
		if cur.Len() > 0 {
			segs = append(segs, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(path); i++ {
		switch c := path[i]; c {
		case '.':
			flush()
		case '[':
			flush()
			end := strings.IndexByte(path[i:], ']')
			if end < 0 {
				cur.WriteString(path[i:])
				i = len(path)
				continue
			}
			seg := path[i+1 : i+end]
			if unq, err := strconv.Unquote(seg); err == nil {
				seg = unq
			}
			segs = append(segs, seg)
			i += end
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	return segs
}

// Lookup resolves path below n. A literal child key equal to the whole path
// is preferred over splitting it. A miss returns nil, false.
func (n *Node) Lookup(path string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	if c, ok := n.Child(path); ok {
		return c, true
	}

	segs := Split(path)
	if len(segs) == 0 {
		return nil, false
	}

	cur := n
	for _, seg := range segs {
		next, ok := cur.step(seg)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// step descends one segment. Leaves holding slices, arrays or string-keyed
// maps are indexed through reflection; the element found is compiled into
// the current scope.
func (n *Node) step(seg string) (*Node, bool) {
	switch n.kind {
	case Object:
		return n.Child(seg)
	case Leaf:
		v, ok := index(n.value, seg)
		if !ok {
			return nil, false
		}
		return CompileScoped(v, n.scope), true
	default:
		return nil, false
	}
}

func index(v any, seg string) (any, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(seg)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		e := rv.MapIndex(reflect.ValueOf(seg).Convert(rv.Type().Key()))
		if !e.IsValid() {
			return nil, false
		}
		return e.Interface(), true
	default:
		return nil, false
	}
}
