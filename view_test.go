package lazydi_test

import (
	"errors"
	"testing"

	"github.com/junioryono/lazydi"
	"github.com/junioryono/lazydi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_Get(t *testing.T) {
	var (
		gotKey   string
		gotLevel []string
	)
	def := lazydi.Tree{
		"name":  "Ann",
		"ports": []int{80, 443},
		"db":    lazydi.Tree{"host": "localhost"},
		"probe": lazydi.Resolver(func(src *lazydi.Node, key string) (any, error) {
			gotKey = key
			gotLevel = src.Keys()
			return "probed", nil
		}),
	}

	v := lazydi.NewView(def, nil)

	t.Run("leaf", func(t *testing.T) {
		got, err := v.Get("name")
		require.NoError(t, err)
		assert.Equal(t, "Ann", got)
	})

	t.Run("slice passes through", func(t *testing.T) {
		got, err := v.Get("ports")
		require.NoError(t, err)
		assert.Equal(t, []int{80, 443}, got)
	})

	t.Run("nested object is a view", func(t *testing.T) {
		got, err := v.Get("db")
		require.NoError(t, err)
		db := testutil.AssertView(t, got)

		host, err := db.Get("host")
		require.NoError(t, err)
		assert.Equal(t, "localhost", host)
	})

	t.Run("dotted path", func(t *testing.T) {
		got, err := v.Get("db.host")
		require.NoError(t, err)
		assert.Equal(t, "localhost", got)
	})

	t.Run("resolver receives level and key", func(t *testing.T) {
		got, err := v.Get("probe")
		require.NoError(t, err)
		assert.Equal(t, "probed", got)
		assert.Equal(t, "probe", gotKey)
		assert.Equal(t, []string{"db", "name", "ports", "probe"}, gotLevel)
	})

	t.Run("missing path is nil", func(t *testing.T) {
		for _, path := range []string{"nope", "db.nope", "name.deeper", ""} {
			got, err := v.Get(path)
			assert.NoError(t, err, path)
			assert.Nil(t, got, path)
		}
	})
}

func TestView_GetIsNotCached(t *testing.T) {
	var counter testutil.Counter
	def := lazydi.Tree{
		"raw": counter.WrapResolver(lazydi.AsValue(1)),
	}

	v := lazydi.NewView(def, nil)
	for range 3 {
		_, err := v.Get("raw")
		require.NoError(t, err)
	}

	assert.Equal(t, 3, counter.Calls())
}

func TestView_OverridePrecedence(t *testing.T) {
	base := lazydi.Tree{"a": lazydi.Tree{"b": 1, "c": 3}}
	mapping := lazydi.Tree{"a": lazydi.Tree{"b": lazydi.AsValue(2)}}

	v := lazydi.NewView(base, mapping)

	a, err := v.Get("a")
	require.NoError(t, err)
	b, err := testutil.AssertView(t, a).Get("b")
	require.NoError(t, err)
	assert.Equal(t, 2, b)

	viaPath, err := v.Get("a.b")
	require.NoError(t, err)
	assert.Equal(t, 2, viaPath)

	c, err := v.Get("a.c")
	require.NoError(t, err)
	assert.Equal(t, 3, c, "siblings survive the merge")
}

func TestView_OverrideComputedFromBase(t *testing.T) {
	base := lazydi.Tree{"port": 5432}
	mapping := lazydi.Tree{
		"port": lazydi.Resolver(func(src *lazydi.Node, key string) (any, error) {
			orig, ok := src.Lookup(key)
			if !ok {
				return nil, errors.New("no base value")
			}
			return orig.Value().(int) + 1, nil
		}),
	}

	got, err := lazydi.NewView(base, mapping).Get("port")
	require.NoError(t, err)
	assert.Equal(t, 5433, got)
}

func TestView_MappingReachesEveryLevel(t *testing.T) {
	base := lazydi.Tree{"a": lazydi.Tree{"x": 1}}
	mapping := lazydi.Tree{"y": 2}

	a, err := lazydi.NewView(base, mapping).Get("a")
	require.NoError(t, err)

	nested := testutil.AssertView(t, a)
	assert.Equal(t, []string{"x", "y"}, nested.Keys())

	y, err := nested.Get("y")
	require.NoError(t, err)
	assert.Equal(t, 2, y)
}

func TestView_MappingReplacesLeafWithObject(t *testing.T) {
	base := lazydi.Tree{"db": "postgres://"}
	mapping := lazydi.Tree{"db": lazydi.Tree{"host": "h"}}

	got, err := lazydi.NewView(base, mapping).Get("db")
	require.NoError(t, err)

	host, err := testutil.AssertView(t, got).Get("host")
	require.NoError(t, err)
	assert.Equal(t, "h", host)
}

func TestView_DoesNotModifyInputs(t *testing.T) {
	base := lazydi.Tree{"a": lazydi.Tree{"b": 1}}
	mapping := lazydi.Tree{"a": lazydi.Tree{"b": 2, "c": 3}}

	v := lazydi.NewView(base, mapping)
	_, err := v.Get("a.b")
	require.NoError(t, err)

	m := v.Materialize()
	m["a"].(lazydi.Tree)["b"] = 99

	assert.Equal(t, lazydi.Tree{"a": lazydi.Tree{"b": 1}}, base)
	assert.Equal(t, lazydi.Tree{"a": lazydi.Tree{"b": 2, "c": 3}}, mapping)
}

func TestView_Materialize(t *testing.T) {
	v := lazydi.NewView(
		lazydi.Tree{"a": 1, "n": lazydi.Tree{"b": 2}},
		lazydi.Tree{"n": lazydi.Tree{"c": 3}},
	)

	assert.Equal(t, lazydi.Tree{"a": 1, "n": lazydi.Tree{"b": 2, "c": 3}}, v.Materialize())
}

func TestView_HasAndSource(t *testing.T) {
	v := lazydi.NewView(lazydi.Tree{"a": lazydi.Tree{"b": 1}}, lazydi.Tree{"z": 0})

	assert.True(t, v.Has("a.b"))
	assert.True(t, v.Has("z"))
	assert.False(t, v.Has("a.c"))
	assert.Equal(t, []string{"a"}, v.Source().Keys())
}

func TestView_NilSource(t *testing.T) {
	v := lazydi.NewView(nil, nil)

	got, err := v.Get("anything")
	assert.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, v.Keys())
}

func TestView_Walk(t *testing.T) {
	var level []string
	def := lazydi.Tree{
		"db": lazydi.Tree{
			"host": "localhost",
			"connect": lazydi.Resolver(func(src *lazydi.Node, key string) (any, error) {
				level = src.Keys()
				return key, nil
			}),
		},
		"servers": []any{
			lazydi.Tree{"host": "a"},
			lazydi.Tree{"host": "b"},
		},
		"x.y": "literal",
	}
	v := lazydi.NewView(def, nil)

	t.Run("resolver sees its own level", func(t *testing.T) {
		got, err := v.Walk("db.connect")
		require.NoError(t, err)
		assert.Equal(t, "connect", got)
		assert.Equal(t, []string{"connect", "host"}, level)
	})

	t.Run("get uses the reading level", func(t *testing.T) {
		got, err := v.Get("db.connect")
		require.NoError(t, err)
		assert.Equal(t, "db.connect", got)
		assert.Equal(t, []string{"db", "servers", "x.y"}, level)
	})

	t.Run("indexes into slices", func(t *testing.T) {
		got, err := v.Walk("servers[1].host")
		require.NoError(t, err)
		assert.Equal(t, "b", got)
	})

	t.Run("slice element object is a view", func(t *testing.T) {
		got, err := v.Walk("servers.0")
		require.NoError(t, err)
		host, err := testutil.AssertView(t, got).Get("host")
		require.NoError(t, err)
		assert.Equal(t, "a", host)
	})

	t.Run("literal key", func(t *testing.T) {
		got, err := v.Walk("x.y")
		require.NoError(t, err)
		assert.Equal(t, "literal", got)
	})

	t.Run("missing", func(t *testing.T) {
		for _, path := range []string{"", "db.nope.deeper", "servers[5].host", "db.host.deeper"} {
			got, err := v.Walk(path)
			assert.NoError(t, err, path)
			assert.Nil(t, got, path)
		}
	})

	t.Run("error stops the walk", func(t *testing.T) {
		failing := lazydi.NewView(lazydi.Tree{
			"a": lazydi.AsFunction(testutil.Failing(testutil.ErrTest)),
		}, nil)
		_, err := failing.Walk("a.b")
		assert.ErrorIs(t, err, testutil.ErrTest)
	})
}

func TestGet_Typed(t *testing.T) {
	v := lazydi.NewView(lazydi.Tree{"port": 5432, "name": "db"}, nil)

	port, err := lazydi.Get[int](v, "port")
	require.NoError(t, err)
	assert.Equal(t, 5432, port)

	missing, err := lazydi.Get[int](v, "missing")
	require.NoError(t, err)
	assert.Zero(t, missing)

	_, err = lazydi.Get[int](v, "name")
	var mismatch lazydi.TypeMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "name", mismatch.Path)
	assert.Contains(t, err.Error(), `value at "name": expected int, got string`)

	var getter lazydi.Getter = v
	name, err := lazydi.Get[string](getter, "name")
	require.NoError(t, err)
	assert.Equal(t, "db", name)
}
