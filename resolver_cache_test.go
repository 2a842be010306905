package lazydi_test

import (
	"sync"
	"testing"

	"github.com/junioryono/lazydi"
	"github.com/junioryono/lazydi/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceOf(t lazydi.Tree) *lazydi.Node {
	return lazydi.NewView(t, nil).Source()
}

func TestMemoize_SameKeyComputesOnce(t *testing.T) {
	var counter testutil.Counter
	r := lazydi.Memoize(counter.WrapResolver(func(src *lazydi.Node, key string) (any, error) {
		n, _ := src.Lookup("v")
		return n.Value(), nil
	}), lazydi.ResolutionKey)

	first, err := r(sourceOf(lazydi.Tree{"v": "first"}), "k")
	require.NoError(t, err)

	// a different container, same key: the cached value wins
	second, err := r(sourceOf(lazydi.Tree{"v": "second"}), "k")
	require.NoError(t, err)

	assert.Equal(t, "first", first)
	assert.Equal(t, "first", second)
	assert.Equal(t, 1, counter.Calls())

	third, err := r(sourceOf(lazydi.Tree{"v": "third"}), "other")
	require.NoError(t, err)
	assert.Equal(t, "third", third)
	assert.Equal(t, 2, counter.Calls())
}

func TestMemoize_ContainerKey(t *testing.T) {
	var counter testutil.Counter
	r := lazydi.Memoize(counter.WrapResolver(func(src *lazydi.Node, key string) (any, error) {
		n, _ := src.Lookup("v")
		return n.Value(), nil
	}), lazydi.ContainerKey)

	a := sourceOf(lazydi.Tree{"v": "a"})
	b := sourceOf(lazydi.Tree{"v": "b"})

	gotA, err := r(a, "k")
	require.NoError(t, err)
	gotB, err := r(b, "k")
	require.NoError(t, err)
	again, err := r(a, "k")
	require.NoError(t, err)

	assert.Equal(t, "a", gotA)
	assert.Equal(t, "b", gotB)
	assert.Equal(t, "a", again)
	assert.Equal(t, 2, counter.Calls())
}

func TestMemoize_ErrorsAreNotCached(t *testing.T) {
	calls := 0
	r := lazydi.Memoize(func(*lazydi.Node, string) (any, error) {
		calls++
		if calls == 1 {
			return nil, testutil.ErrTest
		}
		return "ok", nil
	}, nil)

	_, err := r(nil, "k")
	assert.ErrorIs(t, err, testutil.ErrTest)

	got, err := r(nil, "k")
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
}

func TestMemoizer_Statistics(t *testing.T) {
	m := lazydi.NewMemoizer(lazydi.AsValue(1), nil)

	for _, key := range []string{"a", "a", "b", "a"} {
		_, err := m.Resolve(nil, key)
		require.NoError(t, err)
	}

	assert.Equal(t, lazydi.CacheStatistics{Hits: 2, Misses: 2, Entries: 2}, m.Statistics())
}

func TestMemoizer_Concurrent(t *testing.T) {
	m := lazydi.NewMemoizer(func(*lazydi.Node, string) (any, error) {
		return new(int), nil
	}, nil)

	var wg sync.WaitGroup
	results := make([]any, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = m.Resolve(nil, "k")
		}(i)
	}
	wg.Wait()

	for _, r := range results {
		assert.Same(t, results[0], r)
	}
}

func TestAsFunction_CacheSharedAcrossContainers(t *testing.T) {
	var counter testutil.Counter
	greeting := lazydi.AsFunction(counter.Wrap(func(v *lazydi.View) (any, error) {
		name, err := lazydi.Get[string](v, "name")
		return "hi " + name, err
	}))

	first, err := lazydi.CreateContainer(lazydi.Tree{"name": "Ann", "greeting": greeting})
	require.NoError(t, err)
	second, err := lazydi.CreateContainer(lazydi.Tree{"name": "Bob", "greeting": greeting})
	require.NoError(t, err)

	assert.Equal(t, "hi Ann", first["greeting"])
	assert.Equal(t, "hi Ann", second["greeting"], "the cache is keyed by resolution key only")
	assert.Equal(t, 1, counter.Calls())
}

func TestAsFunction_CacheByContainer(t *testing.T) {
	var counter testutil.Counter
	greeting := lazydi.AsFunction(counter.Wrap(func(v *lazydi.View) (any, error) {
		name, err := lazydi.Get[string](v, "name")
		return "hi " + name, err
	}), lazydi.WithCacheScope(lazydi.CacheByContainer))

	first, err := lazydi.CreateContainer(lazydi.Tree{"name": "Ann", "greeting": greeting})
	require.NoError(t, err)
	second, err := lazydi.CreateContainer(lazydi.Tree{"name": "Bob", "greeting": greeting})
	require.NoError(t, err)

	assert.Equal(t, "hi Ann", first["greeting"])
	assert.Equal(t, "hi Bob", second["greeting"])
	assert.Equal(t, 2, counter.Calls())
}

func TestWithKeyFunc(t *testing.T) {
	var counter testutil.Counter
	r := lazydi.AsFunction(counter.Wrap(func(*lazydi.View) (any, error) {
		return "v", nil
	}), lazydi.WithKeyFunc(func(*lazydi.Node, string) string { return "constant" }))

	for _, key := range []string{"a", "b", "c"} {
		_, err := r(nil, key)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, counter.Calls())
}

func TestWithCacheScope_ByKey(t *testing.T) {
	var counter testutil.Counter
	r := lazydi.AsFunction(counter.Wrap(func(*lazydi.View) (any, error) {
		return "v", nil
	}), lazydi.WithCacheScope(lazydi.CacheByKey))

	_, err := r(sourceOf(lazydi.Tree{}), "k")
	require.NoError(t, err)
	_, err = r(sourceOf(lazydi.Tree{}), "k")
	require.NoError(t, err)

	assert.Equal(t, 1, counter.Calls())
}
