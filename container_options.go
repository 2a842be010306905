package lazydi

import (
	"github.com/rs/zerolog"
)

// CacheScope selects how a registration's resolution cache is keyed.
type CacheScope int

const (
	// CacheByKey keys the cache by the key that was read alone. Containers
	// reading the same key through the same registration share one value.
	CacheByKey CacheScope = iota

	// CacheByContainer keys the cache by the assembled container and the key.
	CacheByContainer
)

// Option configures a registration.
type Option interface {
	apply(*registrationOptions)
}

// registrationOptions holds registration configuration.
type registrationOptions struct {
	mapping Tree
	keyFn   KeyFunc
}

// optionFunc adapts a function to Option.
type optionFunc func(*registrationOptions)

func (f optionFunc) apply(opts *registrationOptions) {
	f(opts)
}

// WithMapping merges mapping into every view the registration sees.
func WithMapping(mapping Tree) Option {
	return optionFunc(func(opts *registrationOptions) {
		opts.mapping = mapping
	})
}

// WithCacheScope selects one of the predefined cache key functions.
func WithCacheScope(scope CacheScope) Option {
	return optionFunc(func(opts *registrationOptions) {
		switch scope {
		case CacheByContainer:
			opts.keyFn = ContainerKey
		default:
			opts.keyFn = ResolutionKey
		}
	})
}

// WithKeyFunc sets a custom cache key function.
func WithKeyFunc(keyFn KeyFunc) Option {
	return optionFunc(func(opts *registrationOptions) {
		if keyFn != nil {
			opts.keyFn = keyFn
		}
	})
}

func newRegistrationOptions(opts []Option) *registrationOptions {
	o := &registrationOptions{keyFn: ResolutionKey}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(o)
		}
	}
	return o
}

// ContainerOption configures CreateContainer.
type ContainerOption interface {
	apply(*containerOptions)
}

// containerOptions holds container configuration.
type containerOptions struct {
	logger    zerolog.Logger
	overrides Tree
}

// containerOptionFunc adapts a function to ContainerOption.
type containerOptionFunc func(*containerOptions)

func (f containerOptionFunc) apply(opts *containerOptions) {
	f(opts)
}

// WithLogger sets the logger used while assembling. The default discards everything.
func WithLogger(logger zerolog.Logger) ContainerOption {
	return containerOptionFunc(func(opts *containerOptions) {
		opts.logger = logger
	})
}

// WithOverrides merges overrides into the definition before assembly.
func WithOverrides(overrides Tree) ContainerOption {
	return containerOptionFunc(func(opts *containerOptions) {
		opts.overrides = overrides
	})
}

func newContainerOptions(opts []ContainerOption) *containerOptions {
	o := &containerOptions{logger: zerolog.Nop()}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(o)
		}
	}
	return o
}
