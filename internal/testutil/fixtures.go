package testutil

import (
	"github.com/junioryono/lazydi"
)

// GreetingDefinition is the smallest definition with a sibling dependency.
func GreetingDefinition() lazydi.Tree {
	return lazydi.Tree{
		"name": "Ann",
		"greeting": lazydi.Resolver(func(src *lazydi.Node, _ string) (any, error) {
			n, _ := src.Lookup("name")
			return "hi " + n.Value().(string), nil
		}),
	}
}

// ApplicationDefinition mirrors a directory-shaped application: a db
// package with settings and a connect constructor, and a repository that
// reaches the connection through the root.
func ApplicationDefinition() lazydi.Tree {
	return lazydi.Tree{
		"db": lazydi.Tree{
			"host":    "localhost",
			"port":    5432,
			"connect": lazydi.AsClass(NewTestDatabase),
		},
		"repo":    lazydi.AsClass(NewTestRepository),
		"version": "1.0.0",
	}
}
