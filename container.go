package lazydi

import (
	"github.com/junioryono/lazydi/internal/tree"
	"github.com/rs/zerolog"
)

// CreateContainer assembles def. Every key of def is read through one view
// over the whole definition, so each resolver can reach its siblings and
// their descendants. The result has exactly the key shape of def.
//
// WithOverrides trees are merged into the definition before assembly, so
// resolvers read overridden siblings. Keys the definition lacks are not
// part of the result.
//
// The first error aborts assembly and is returned unchanged, with a nil
// Tree. def is never modified.
func CreateContainer(def Tree, opts ...ContainerOption) (Tree, error) {
	o := newContainerOptions(opts)

	if def == nil {
		def = Tree{}
	}

	shape := tree.Compile(def)
	logger := o.logger.With().Str("scope", shape.Scope()).Logger()

	// Overrides are folded into the level every resolver is invoked with.
	root := tree.Merge(shape, compileMapping(o.overrides))

	resolved, err := resolveContainer(shape, newView(root, nil), "", logger)
	if err != nil {
		return nil, err
	}

	logger.Debug().Int("keys", len(resolved)).Msg("container assembled")
	return resolved, nil
}

// resolveContainer walks def's own keys, reads each through view and
// returns a new tree; nested definitions recurse through the nested view.
func resolveContainer(def *Node, view *View, prefix string, logger zerolog.Logger) (Tree, error) {
	keys := def.Keys()
	out := make(Tree, len(keys))

	for _, key := range keys {
		path := joinPath(prefix, key)

		value, err := view.Get(key)
		if err != nil {
			logger.Error().Err(err).Str("path", path).Msg("container assembly aborted")
			return nil, err
		}

		child, _ := def.Child(key)
		if nested, ok := value.(*View); ok && child.Kind() == tree.Object {
			value, err = resolveContainer(child, nested, path, logger)
			if err != nil {
				return nil, err
			}
		}

		logger.Debug().Str("path", path).Msg("resolved")
		out[key] = value
	}

	return out, nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
