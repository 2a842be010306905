package loader

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/junioryono/lazydi"
	"github.com/rs/zerolog"
)

// DefinitionLoader loads a definition from the directory root.
type DefinitionLoader interface {
	Load(ctx context.Context, root string, opts ...Option) (lazydi.Tree, error)
}

var _ DefinitionLoader = (*Loader)(nil)

// Loader builds definitions from a file system. It is safe for concurrent use.
type Loader struct {
	fsys fs.FS
	dir  string
	opts options
}

// New creates a loader reading from fsys.
func New(fsys fs.FS, opts ...Option) *Loader {
	return &Loader{
		fsys: fsys,
		opts: defaultOptions().with(opts),
	}
}

// NewDir creates a loader reading the directory cwd. Roots passed to Load
// and Watch are relative to cwd.
func NewDir(cwd string, opts ...Option) *Loader {
	l := New(os.DirFS(cwd), opts...)
	l.dir = cwd
	return l
}

// Load scans root and returns its definition. root is a slash-separated path
// relative to the loader's file system; "" and "." name the top. opts apply
// to this call only, on top of the loader's options.
//
// A cancelled context returns ctx.Err(). Every other failure is a
// *ModuleError.
func (l *Loader) Load(ctx context.Context, root string, opts ...Option) (lazydi.Tree, error) {
	root, err := cleanRoot(root)
	if err != nil {
		return nil, err
	}

	o := l.opts.with(opts)
	s := &scan{
		fsys:   l.fsys,
		root:   root,
		opts:   o,
		logger: o.logger.With().Str("root", root).Logger(),
	}

	def, err := s.dir(ctx, root)
	if err != nil {
		return nil, err
	}

	t, ok := def.(lazydi.Tree)
	if !ok {
		return nil, &ModuleError{Module: "index", Cause: ErrRootNotObject}
	}
	return t, nil
}

func cleanRoot(root string) (string, error) {
	if root == "" {
		return ".", nil
	}

	cleaned := path.Clean(filepath.ToSlash(root))
	if !fs.ValidPath(cleaned) {
		return "", &ModuleError{Module: root, Cause: ErrInvalidRoot}
	}
	return cleaned, nil
}

// scan holds the state of one Load call.
type scan struct {
	fsys   fs.FS
	root   string
	opts   options
	logger zerolog.Logger
}

// module returns the module name of p, a path below the root.
func (s *scan) module(p string) string {
	if s.root == "." {
		return p
	}
	if p == s.root {
		return "."
	}
	return strings.TrimPrefix(p, s.root+"/")
}

// dir loads one directory. The result is a lazydi.Tree, or a single
// registration when the directory has an index entry.
func (s *scan) dir(ctx context.Context, dir string) (any, error) {
	entries, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		return nil, &ModuleError{Module: s.module(dir), Cause: err}
	}

	index, found, err := s.findIndex(dir, entries)
	if err != nil {
		return nil, err
	}
	if found {
		return s.index(path.Join(dir, "index"), index), nil
	}

	out := make(lazydi.Tree)
	sources := make(map[string]string)

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := entry.Name()
		full := path.Join(dir, name)

		if isHidden(name) {
			s.skip(full, "hidden")
			continue
		}

		var (
			key   string
			value any
		)

		if entry.IsDir() {
			key = name
			value, err = s.dir(ctx, full)
			if err != nil {
				return nil, err
			}
		} else {
			stem, ext := splitExt(name)
			if strings.HasSuffix(stem, "_test") {
				s.skip(full, "test file")
				continue
			}

			module := s.module(path.Join(dir, stem))
			export, ok, err := s.export(module, full, ext)
			if err != nil {
				return nil, err
			}
			if !ok {
				s.skip(full, "no export")
				continue
			}

			key = stem
			value = s.register(module, export)
		}

		if prev, ok := sources[key]; ok {
			return nil, &ModuleError{
				Module: s.module(path.Join(dir, key)),
				Cause:  fmt.Errorf("%w: %s and %s", ErrDuplicateModule, prev, name),
			}
		}
		sources[key] = name
		out[key] = value
	}

	return out, nil
}

// findIndex returns the export of the directory's index entry, if any.
func (s *scan) findIndex(dir string, entries []fs.DirEntry) (any, bool, error) {
	var (
		export any
		source string
	)

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || isHidden(name) {
			continue
		}

		stem, ext := splitExt(name)
		if stem != "index" {
			continue
		}

		v, ok, err := s.export(s.module(path.Join(dir, stem)), path.Join(dir, name), ext)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}

		if source != "" {
			return nil, false, &ModuleError{
				Module: s.module(path.Join(dir, stem)),
				Cause:  fmt.Errorf("%w: %s and %s", ErrDuplicateModule, source, name),
			}
		}
		export, source = v, name
	}

	return export, source != "", nil
}

// export returns the value registered for module or, for data files, the
// decoded contents of file.
func (s *scan) export(module, file, ext string) (any, bool, error) {
	if v, ok := s.opts.modules[module]; ok {
		return v, true, nil
	}

	if !isDataFile(ext) {
		return nil, false, nil
	}

	data, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		return nil, false, &ModuleError{Module: module, Cause: err}
	}

	settings, err := decode(data, ext)
	if err != nil {
		return nil, false, &ModuleError{Module: module, Cause: err}
	}
	return settings, true, nil
}

// index registers the export of an index entry. A mapping export
// contributes one registration per property.
func (s *scan) index(module string, export any) any {
	props, ok := export.(lazydi.Tree)
	if !ok {
		return s.register(s.module(module), export)
	}

	out := make(lazydi.Tree, len(props))
	for key, v := range props {
		out[key] = s.register(s.module(module)+"."+key, v)
	}
	return out
}

// register turns an export into a registration.
func (s *scan) register(module string, export any) lazydi.Resolver {
	var (
		kind string
		r    lazydi.Resolver
	)

	mapping := lazydi.WithMapping(s.opts.mapping)

	switch fn := export.(type) {
	case lazydi.Resolver:
		kind, r = "resolver", fn
	case func(*lazydi.Node, string) (any, error):
		kind, r = "resolver", fn
	case lazydi.Func:
		kind, r = "function", lazydi.AsFunction(fn, mapping)
	case func(*lazydi.View) (any, error):
		kind, r = "function", lazydi.AsFunction(fn, mapping)
	default:
		if export != nil && reflect.TypeOf(export).Kind() == reflect.Func {
			kind, r = "constructor", lazydi.AsClass(export, mapping)
		} else {
			kind, r = "value", lazydi.AsValue(export)
		}
	}

	s.logger.Debug().Str("module", module).Str("kind", kind).Msg("registered")
	return r
}

func (s *scan) skip(file, reason string) {
	s.logger.Debug().Str("file", file).Str("reason", reason).Msg("skipped")
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// splitExt splits name into its stem and its extension without the dot.
func splitExt(name string) (string, string) {
	ext := path.Ext(name)
	return strings.TrimSuffix(name, ext), strings.TrimPrefix(ext, ".")
}
