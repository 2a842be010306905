// Package loader builds lazydi definitions from a directory tree.
//
// Go has no dynamic import, so the value a file contributes is the one
// registered for its module name with WithModules. The module name of a file
// is its path relative to the scanned root, without extension and with
// forward slashes: "db/connect" for db/connect.go. Data files (.json, .yaml,
// .yml, .toml, .env) without a registered value are decoded and their
// settings are used instead.
//
// A directory becomes an object with one key per file stem and
// subdirectory, unless it holds an index entry, which then defines the
// whole directory:
//
//	app/
//	  config.yaml        -> "config": settings of config.yaml
//	  db/
//	    index.go         -> "db": Modules["db/index"]
//	  repo.go            -> "repo": Modules["repo"]
//
// Functions become Function registrations, other Go functions are treated
// as constructors, and anything else is registered as a value.
package loader
