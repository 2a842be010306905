// Package http exposes an assembled lazydi container to net/http handlers.
//
// This package provides middleware that attaches a container to each
// request and type-safe handler wrappers that read a controller from it.
//
// Example usage:
//
//	container, _ := lazydi.CreateContainer(def)
//
//	mux := http.NewServeMux()
//	mux.Handle("GET /users/{id}", lazydihttp.Handle("controllers.users", UserController.GetByID))
//
//	http.ListenAndServe(":8080", lazydihttp.ContainerMiddleware(container)(mux))
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/junioryono/lazydi"
	"github.com/rs/zerolog"
)

var (
	// ErrNoContainer is returned when a request carries no container.
	ErrNoContainer = errors.New("no container in request context")

	// ErrNotFound is returned when the container has no value at a path.
	ErrNotFound = errors.New("no value in container")
)

type contextKey struct{}

// attached is a container with its compiled form, so paths are looked up
// without recompiling the container on every request.
type attached struct {
	container lazydi.Tree
	root      *lazydi.Node
}

func attach(container lazydi.Tree) *attached {
	return &attached{container: container, root: lazydi.Compile(container)}
}

// NewContext returns a copy of ctx carrying container.
func NewContext(ctx context.Context, container lazydi.Tree) context.Context {
	return context.WithValue(ctx, contextKey{}, attach(container))
}

func fromContext(ctx context.Context) (*attached, error) {
	a, ok := ctx.Value(contextKey{}).(*attached)
	if !ok {
		return nil, ErrNoContainer
	}
	return a, nil
}

// FromContext returns the container attached to ctx.
func FromContext(ctx context.Context) (lazydi.Tree, error) {
	a, err := fromContext(ctx)
	if err != nil {
		return nil, err
	}
	return a.container, nil
}

// ContainerMiddleware attaches container to every request context. The
// container is compiled once, when the middleware is created.
func ContainerMiddleware(container lazydi.Tree) func(http.Handler) http.Handler {
	a := attach(container)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, a)))
		})
	}
}

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(http.ResponseWriter, *http.Request, any)

	// ResolutionErrorHandler is called when the controller cannot be read.
	ResolutionErrorHandler func(http.ResponseWriter, *http.Request, error)

	// Logger is used by the default handlers.
	Logger zerolog.Logger
}

// HandlerOption configures the Handle wrapper.
type HandlerOption func(*HandlerConfig)

// WithPanicRecovery enables or disables panic recovery in the handler.
func WithPanicRecovery(enabled bool) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicRecovery = enabled
	}
}

// WithPanicHandler sets the handler for panics.
func WithPanicHandler(h func(http.ResponseWriter, *http.Request, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for resolution failures.
func WithResolutionErrorHandler(h func(http.ResponseWriter, *http.Request, error)) HandlerOption {
	return func(c *HandlerConfig) {
		c.ResolutionErrorHandler = h
	}
}

// WithLogger sets the logger used by the default handlers.
func WithLogger(logger zerolog.Logger) HandlerOption {
	return func(c *HandlerConfig) {
		c.Logger = logger
	}
}

func newHandlerConfig(opts []HandlerOption) *HandlerConfig {
	cfg := &HandlerConfig{Logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.PanicHandler == nil {
		cfg.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
			cfg.Logger.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("panic in handler")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
	if cfg.ResolutionErrorHandler == nil {
		cfg.ResolutionErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
			cfg.Logger.Error().Err(err).Str("path", r.URL.Path).Msg("failed to resolve controller")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
	}
	return cfg
}

// Resolve reads the value at path from the request's container as T.
func Resolve[T any](r *http.Request, path string) (T, error) {
	var zero T

	a, err := fromContext(r.Context())
	if err != nil {
		return zero, err
	}

	v, err := lazydi.Lookup(a.root, path)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, fmt.Errorf("%w at %q", ErrNotFound, path)
	}

	t, ok := v.(T)
	if !ok {
		return zero, lazydi.TypeMismatchError{Path: path, Expected: reflect.TypeFor[T](), Actual: reflect.TypeOf(v)}
	}
	return t, nil
}

// Handle wraps a controller method. The controller is read from the
// request's container at path.
//
// Example:
//
//	mux.Handle("GET /users/{id}", lazydihttp.Handle("controllers.users", UserController.GetByID))
func Handle[T any](path string, method func(T, http.ResponseWriter, *http.Request), opts ...HandlerOption) http.HandlerFunc {
	cfg := newHandlerConfig(opts)

	return func(w http.ResponseWriter, r *http.Request) {
		if cfg.PanicRecovery {
			defer func() {
				if v := recover(); v != nil {
					cfg.PanicHandler(w, r, v)
				}
			}()
		}

		controller, err := Resolve[T](r, path)
		if err != nil {
			cfg.ResolutionErrorHandler(w, r, err)
			return
		}

		method(controller, w, r)
	}
}
