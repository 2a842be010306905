package lazydi

import (
	"reflect"

	"github.com/junioryono/lazydi/internal/reflection"
	"github.com/junioryono/lazydi/internal/tree"
)

// Func is a plain function registration. It receives a view over the level
// it was registered in.
type Func func(*View) (any, error)

var (
	viewType         = reflect.TypeOf((*View)(nil))
	constructorCache = reflection.New(viewType)
)

func init() {
	tree.RegisterAdapter(adaptFunc)
}

// adaptFunc lets a Func placed directly in a tree act as if it were
// registered with AsFunction.
func adaptFunc(v any) (Resolver, bool) {
	switch fn := v.(type) {
	case Func:
		return AsFunction(fn), true
	case func(*View) (any, error):
		return AsFunction(fn), true
	default:
		return nil, false
	}
}

// AsValue registers v. The resolver ignores the container and always returns v.
func AsValue(v any) Resolver {
	return func(*Node, string) (any, error) {
		return v, nil
	}
}

// AsFunction registers fn. The resolver invokes fn with a view over the
// level it is read from, merged with the WithMapping tree, and memoizes the
// result by resolution key. Errors returned by fn are passed through unchanged.
//
// Example:
//
//	"greeting": lazydi.AsFunction(func(v *lazydi.View) (any, error) {
//	    name, err := lazydi.Get[string](v, "name")
//	    return "hi " + name, err
//	})
func AsFunction(fn Func, opts ...Option) Resolver {
	if fn == nil {
		return failed(RegistrationError{Operation: "register function", Cause: ErrNilFunction})
	}

	o := newRegistrationOptions(opts)
	mapping := compileMapping(o.mapping)

	return Memoize(func(src *Node, _ string) (any, error) {
		return fn(newView(src, mapping))
	}, o.keyFn)
}

// AsClass registers a constructor. The constructor takes exactly one
// argument, which is one of:
//   - *View
//   - an interface *View implements, such as Getter
//   - a struct embedding In, whose fields are read from the view
//
// and returns T or (T, error). The constructor is analyzed once; an invalid
// one yields a resolver that fails with a RegistrationError every time it is
// invoked. Resolution is wired and memoized exactly like AsFunction.
//
// Example:
//
//	type RepoParams struct {
//	    lazydi.In
//
//	    DB *sql.DB `name:"db.connect"`
//	}
//
//	"repo": lazydi.AsClass(func(p RepoParams) *Repo { return &Repo{db: p.DB} })
func AsClass(ctor any, opts ...Option) Resolver {
	info, err := constructorCache.Analyze(ctor)
	if err != nil {
		return failed(RegistrationError{
			Operation: "analyze constructor",
			Target:    reflect.TypeOf(ctor),
			Cause:     err,
		})
	}

	o := newRegistrationOptions(opts)
	mapping := compileMapping(o.mapping)

	return Memoize(func(src *Node, _ string) (any, error) {
		return reflection.Invoke(info, newView(src, mapping))
	}, o.keyFn)
}

// AsObject registers every function of obj with AsFunction and the same
// options, returning a Tree with the same keys.
func AsObject(obj map[string]Func, opts ...Option) Tree {
	out := make(Tree, len(obj))
	for key, fn := range obj {
		out[key] = AsFunction(fn, opts...)
	}
	return out
}

// failed returns a resolver that always fails with err.
func failed(err error) Resolver {
	return func(*Node, string) (any, error) {
		return nil, err
	}
}
