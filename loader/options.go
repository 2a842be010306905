package loader

import (
	"maps"
	"time"

	"github.com/junioryono/lazydi"
	"github.com/rs/zerolog"
)

// Modules maps module names to the values their files export.
type Modules map[string]any

// Option configures a Loader or a single Load call.
type Option interface {
	apply(*options)
}

type options struct {
	modules  Modules
	mapping  lazydi.Tree
	logger   zerolog.Logger
	debounce time.Duration
}

type optionFunc func(*options)

func (f optionFunc) apply(opts *options) {
	f(opts)
}

// WithModules registers module exports. Later calls add to earlier ones.
func WithModules(modules Modules) Option {
	return optionFunc(func(opts *options) {
		if opts.modules == nil {
			opts.modules = make(Modules, len(modules))
		}
		maps.Copy(opts.modules, modules)
	})
}

// WithMapping is passed to every Function and constructor registration the
// loader creates.
func WithMapping(mapping lazydi.Tree) Option {
	return optionFunc(func(opts *options) {
		opts.mapping = mapping
	})
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return optionFunc(func(opts *options) {
		opts.logger = logger
	})
}

// WithDebounce sets how long Watch waits for changes to settle before
// reloading. The default is 250ms.
func WithDebounce(d time.Duration) Option {
	return optionFunc(func(opts *options) {
		if d > 0 {
			opts.debounce = d
		}
	})
}

const defaultDebounce = 250 * time.Millisecond

func defaultOptions() options {
	return options{
		logger:   zerolog.Nop(),
		debounce: defaultDebounce,
	}
}

// with returns a copy of o with opts applied. o is not modified.
func (o options) with(opts []Option) options {
	o.modules = maps.Clone(o.modules)
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&o)
		}
	}
	return o
}
