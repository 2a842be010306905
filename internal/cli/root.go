// Package cli implements the lazydi command line tool.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/junioryono/lazydi"
	"github.com/junioryono/lazydi/loader"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var version = "dev"

// SetVersion sets the version string reported by --version.
func SetVersion(v string) {
	version = v
}

// flags shared by every command.
type flags struct {
	cwd       string
	format    string
	overrides []string
	verbose   bool
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:   "lazydi",
		Short: "Inspect lazydi definitions built from data files",
		Long: `Load a directory of data files (.json, .yaml, .yml, .toml, .env) as a
lazydi definition, assemble it into a container and print the result.

Examples:
  # Print the container built from ./config
  lazydi inspect config

  # Override a value before assembly
  lazydi inspect config --set db.port=6543

  # Read a single value as YAML
  lazydi get db config -o yaml

  # Show the definition structure as Graphviz DOT
  lazydi tree config --dot | dot -Tsvg > config.svg`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&f.cwd, "cwd", "C", "", "working directory (default: current directory)")
	root.PersistentFlags().StringVarP(&f.format, "output", "o", "json", "output format: json or yaml")
	root.PersistentFlags().StringArrayVar(&f.overrides, "set", nil, "override a value before assembly, as path=value (repeatable)")
	root.PersistentFlags().BoolVar(&f.verbose, "verbose", false, "log resolution to stderr")

	root.AddCommand(newInspectCommand(f), newGetCommand(f), newTreeCommand(f))
	return root
}

// Execute runs the tool with os.Args.
func Execute() error {
	cmd := NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
		return err
	}
	return nil
}

func (f *flags) logger(w io.Writer) zerolog.Logger {
	if !f.verbose {
		return zerolog.Nop()
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
}

func (f *flags) loader(w io.Writer) (*loader.Loader, error) {
	cwd := f.cwd
	if cwd == "" {
		var err error
		cwd, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}
	return loader.NewDir(cwd, loader.WithLogger(f.logger(w))), nil
}

// assemble loads root and builds its container.
func (f *flags) assemble(cmd *cobra.Command, root string) (lazydi.Tree, error) {
	overrides, err := parseOverrides(f.overrides)
	if err != nil {
		return nil, err
	}

	l, err := f.loader(cmd.ErrOrStderr())
	if err != nil {
		return nil, err
	}

	def, err := l.Load(cmd.Context(), root)
	if err != nil {
		return nil, err
	}

	container, err := lazydi.CreateContainer(def, lazydi.WithLogger(f.logger(cmd.ErrOrStderr())))
	if err != nil {
		return nil, err
	}
	return overlay(container, overrides), nil
}

// overlay returns a copy of container with overrides merged into it key by
// key. Data files are registered as single values, so the overrides are
// applied to the assembled output rather than to the definition.
func overlay(container, overrides lazydi.Tree) lazydi.Tree {
	if len(overrides) == 0 {
		return container
	}

	out := make(lazydi.Tree, len(container)+len(overrides))
	for k, v := range container {
		out[k] = v
	}
	for k, v := range overrides {
		base, baseOK := asTree(out[k])
		next, nextOK := v.(lazydi.Tree)
		if baseOK && nextOK {
			out[k] = overlay(base, next)
			continue
		}
		out[k] = v
	}
	return out
}

func asTree(v any) (lazydi.Tree, bool) {
	switch v := v.(type) {
	case lazydi.Tree:
		return v, v != nil
	case *lazydi.View:
		return v.Materialize(), true
	default:
		return nil, false
	}
}

// parseOverrides turns path=value pairs into a tree. Values are read as
// YAML scalars, so 8080 is a number and true a boolean.
func parseOverrides(pairs []string) (lazydi.Tree, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	out := lazydi.Tree{}
	for _, pair := range pairs {
		p, raw, ok := strings.Cut(pair, "=")
		if !ok || p == "" {
			return nil, fmt.Errorf("invalid override %q: want path=value", pair)
		}

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
			return nil, fmt.Errorf("invalid override %q: %w", pair, err)
		}

		segs := strings.Split(p, ".")
		level := out
		for _, seg := range segs[:len(segs)-1] {
			next, ok := level[seg].(lazydi.Tree)
			if !ok {
				next = lazydi.Tree{}
				level[seg] = next
			}
			level = next
		}
		level[segs[len(segs)-1]] = value
	}
	return out, nil
}
