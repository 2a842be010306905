package memo

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCache_GetStore(t *testing.T) {
	c := New()

	_, ok := c.Get("a")
	assert.False(t, ok)

	assert.Equal(t, 1, c.Store("a", 1))
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	// first stored value wins
	assert.Equal(t, 1, c.Store("a", 2))
	v, _ = c.Get("a")
	assert.Equal(t, 1, v)

	assert.Equal(t, Statistics{Hits: 2, Misses: 1, Entries: 1}, c.Statistics())
	assert.Equal(t, 1, c.Len())
}

func TestCache_NilValue(t *testing.T) {
	c := New()
	assert.Nil(t, c.Store("nil", nil))

	v, ok := c.Get("nil")
	assert.True(t, ok)
	assert.Nil(t, v)
}

func TestCache_ConcurrentStore(t *testing.T) {
	c := New()

	var wg sync.WaitGroup
	results := make([]any, 50)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = c.Store("k", i)
		}(i)
	}
	wg.Wait()

	winner, ok := c.Get("k")
	assert.True(t, ok)
	for _, r := range results {
		assert.Equal(t, winner, r)
	}
}
