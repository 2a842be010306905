package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/junioryono/lazydi"
	"gopkg.in/yaml.v3"
)

// write encodes v to w in format.
func write(w io.Writer, format string, v any) error {
	v = plain(v)

	switch format {
	case "json", "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// plain replaces views left in an assembled container by their contents.
func plain(v any) any {
	switch v := v.(type) {
	case *lazydi.View:
		return plain(v.Materialize())
	case lazydi.Tree:
		out := make(lazydi.Tree, len(v))
		for k, child := range v {
			out[k] = plain(child)
		}
		return out
	default:
		return v
	}
}
