package testutil

import (
	"maps"
	"slices"
	"testing"

	"github.com/junioryono/lazydi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSameShape checks that got has exactly the nested key shape of def.
func AssertSameShape(t *testing.T, def, got lazydi.Tree) {
	t.Helper()
	require.NotNil(t, got, "assembled container is nil")
	assert.Equal(t, slices.Sorted(maps.Keys(def)), slices.Sorted(maps.Keys(got)), "keys differ")

	for key, d := range def {
		nestedDef, ok := d.(lazydi.Tree)
		if !ok {
			continue
		}
		nestedGot, ok := got[key].(lazydi.Tree)
		if assert.True(t, ok, "value at %q is %T, expected a nested tree", key, got[key]) {
			AssertSameShape(t, nestedDef, nestedGot)
		}
	}
}

// AssertView checks that v is a view and returns it.
func AssertView(t *testing.T, v any) *lazydi.View {
	t.Helper()
	view, ok := v.(*lazydi.View)
	require.True(t, ok, "expected *lazydi.View, got %T", v)
	return view
}
