// Package lazydi provides a lazy, view-based dependency injection container
// for Go applications. A definition is a plain tree of values, functions and
// constructors; assembling it produces a tree of the same shape in which every
// function has been resolved against the rest of the tree, on demand and at
// most once per resolution key.
//
// # Overview
//
// lazydi keeps the wiring declarative. The library provides:
//   - Four registration variants: AsValue, AsFunction, AsClass and AsObject
//   - Lazy views that resolve dependencies only when they are read
//   - Deep overrides (mappings) merged into every level a resolver can see
//   - Memoized resolvers, keyed by resolution key or by container
//   - A bridge into go.uber.org/dig for composition roots built on dig
//   - A filesystem loader (package loader) producing definitions from a directory
//
// # Basic Usage
//
// Declare a definition and assemble it:
//
//	def := lazydi.Tree{
//	    "name": "Ann",
//	    "greeting": lazydi.AsFunction(func(v *lazydi.View) (any, error) {
//	        name, err := lazydi.Get[string](v, "name")
//	        return "hi " + name, err
//	    }),
//	}
//
//	resolved, err := lazydi.CreateContainer(def)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(resolved["greeting"]) // hi Ann
//
// # Views
//
// A View is a read-through window over one level of the container. Reading a
// nested object returns another View, reading a leaf returns it verbatim and
// reading a resolver invokes it with the level it was reached through and the
// key that was read:
//
//	v := lazydi.NewView(def, nil)
//	greeting, err := v.Get("greeting")
//	port, err := lazydi.Get[int](v, "db.port")
//
// Paths use dots and optional bracket indices ("servers[0].host"). A missing
// path reads as nil; it is not an error.
//
// # Mappings
//
// A mapping is an override tree with the same shape as the definition. It is
// merged into the view of every resolver registered with it: nested objects
// merge key by key, anything else replaces the base entry, and an override
// resolver is invoked with the base level so it can compute from it:
//
//	client := lazydi.AsFunction(newClient, lazydi.WithMapping(lazydi.Tree{
//	    "db": lazydi.Tree{"port": lazydi.AsValue(6543)},
//	}))
//
// # Constructors
//
// AsClass registers a constructor taking the View, an interface the View
// implements (such as Getter), or a parameter object embedding lazydi.In:
//
//	type RepoParams struct {
//	    lazydi.In
//
//	    Connect *sql.DB `name:"db.connect"`
//	    Logger  Logger  `optional:"true"`
//	}
//
//	func NewRepo(p RepoParams) (*Repo, error)
//
//	def["repo"] = lazydi.AsClass(NewRepo)
//
// # Memoization
//
// Function and class registrations compute once per resolution key. By
// default the key is the key that was read, so the cached value is shared by
// every container reading the same key through the same registration. Use
// WithCacheScope(CacheByContainer) to cache per assembled container instead.
//
// # Error Handling
//
// Errors returned by registered functions and constructors propagate unchanged
// and abort container assembly; no partial container is returned. lazydi's own
// failures are typed:
//   - RegistrationError: a registration could not be built or provided
//   - TypeMismatchError: a value is not of the requested type
//   - MissingValueError: a required parameter object field has no value
package lazydi
