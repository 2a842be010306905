package testutil

import (
	"errors"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/junioryono/lazydi"
)

// Common test errors
var (
	ErrTest        = errors.New("test error")
	ErrIntentional = errors.New("intentional error")
	ErrConstructor = errors.New("constructor error")
)

// TestDatabase is a stand-in for a connection handle.
type TestDatabase struct {
	ID   string
	Host string
	Port int
}

// NewTestDatabase reads db settings from v.
func NewTestDatabase(v lazydi.Getter) (*TestDatabase, error) {
	host, err := lazydi.Get[string](v, "host")
	if err != nil {
		return nil, err
	}
	port, err := lazydi.Get[int](v, "port")
	if err != nil {
		return nil, err
	}
	return &TestDatabase{ID: uuid.NewString(), Host: host, Port: port}, nil
}

// TestRepository depends on a database living elsewhere in the tree.
type TestRepository struct {
	DB    *TestDatabase
	Table string
}

// TestRepositoryParams is the parameter object for NewTestRepository.
type TestRepositoryParams struct {
	lazydi.In

	DB    *TestDatabase `name:"db.connect"`
	Table string        `optional:"true"`
}

// NewTestRepository builds a repository from its parameter object.
func NewTestRepository(p TestRepositoryParams) *TestRepository {
	table := p.Table
	if table == "" {
		table = "default"
	}
	return &TestRepository{DB: p.DB, Table: table}
}

// Counter counts calls of the functions it wraps.
type Counter struct {
	calls atomic.Int64
}

// Wrap returns fn instrumented with the counter.
func (c *Counter) Wrap(fn lazydi.Func) lazydi.Func {
	return func(v *lazydi.View) (any, error) {
		c.calls.Add(1)
		return fn(v)
	}
}

// WrapResolver returns r instrumented with the counter.
func (c *Counter) WrapResolver(r lazydi.Resolver) lazydi.Resolver {
	return func(src *lazydi.Node, key string) (any, error) {
		c.calls.Add(1)
		return r(src, key)
	}
}

// Calls returns the number of recorded calls.
func (c *Counter) Calls() int {
	return int(c.calls.Load())
}

// Failing returns a function that always fails with err.
func Failing(err error) lazydi.Func {
	return func(*lazydi.View) (any, error) {
		return nil, err
	}
}
