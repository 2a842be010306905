// Package gin exposes an assembled lazydi container to Gin handlers.
//
// This package provides middleware that attaches a container to each
// request and type-safe handler wrappers that read a controller from it.
//
// Example usage:
//
//	container, _ := lazydi.CreateContainer(def)
//
//	g := gin.New()
//	g.Use(lazydigin.ContainerMiddleware(container))
//
//	g.POST("/login", lazydigin.Handle("controllers.auth", AuthController.Login))
//	g.GET("/users/:id", lazydigin.Handle("controllers.users", UserController.GetByID))
package gin

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/junioryono/lazydi"
	"github.com/rs/zerolog"
)

// ContainerKey is the gin context key the container is stored under.
const ContainerKey = "lazydi.container"

const compiledKey = "lazydi.compiled"

var (
	// ErrNoContainer is returned when a request carries no container.
	ErrNoContainer = errors.New("no container in gin context")

	// ErrNotFound is returned when the container has no value at a path.
	ErrNotFound = errors.New("no value in container")
)

// ContainerMiddleware attaches container to every request.
//
// Example:
//
//	g := gin.New()
//	g.Use(lazydigin.ContainerMiddleware(container))
//
// The container is compiled once, when the middleware is created.
func ContainerMiddleware(container lazydi.Tree) gin.HandlerFunc {
	root := lazydi.Compile(container)

	return func(c *gin.Context) {
		c.Set(ContainerKey, container)
		c.Set(compiledKey, root)
		c.Next()
	}
}

// FromContext returns the container attached to c.
func FromContext(c *gin.Context) (lazydi.Tree, error) {
	v, ok := c.Get(ContainerKey)
	if !ok {
		return nil, ErrNoContainer
	}

	container, ok := v.(lazydi.Tree)
	if !ok {
		return nil, ErrNoContainer
	}
	return container, nil
}

// compiled returns the compiled container of c. A container stored under
// ContainerKey by other means is compiled on first use and kept on c.
func compiled(c *gin.Context) (*lazydi.Node, error) {
	if v, ok := c.Get(compiledKey); ok {
		if root, ok := v.(*lazydi.Node); ok {
			return root, nil
		}
	}

	container, err := FromContext(c)
	if err != nil {
		return nil, err
	}
	root := lazydi.Compile(container)
	c.Set(compiledKey, root)
	return root, nil
}

// Resolve reads the value at path from the request's container as T.
func Resolve[T any](c *gin.Context, path string) (T, error) {
	var zero T

	root, err := compiled(c)
	if err != nil {
		return zero, err
	}

	v, err := lazydi.Lookup(root, path)
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

// HandlerConfig holds configuration for the Handle wrapper.
type HandlerConfig struct {
	// PanicRecovery enables panic recovery in the handler.
	PanicRecovery bool

	// PanicHandler is called when a panic occurs (if PanicRecovery is true).
	PanicHandler func(*gin.Context, any)

	// ResolutionErrorHandler is called when the controller cannot be read.
	ResolutionErrorHandler func(*gin.Context, error)

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
func WithPanicHandler(h func(*gin.Context, any)) HandlerOption {
	return func(c *HandlerConfig) {
		c.PanicHandler = h
	}
}

// WithResolutionErrorHandler sets the error handler for resolution failures.
func WithResolutionErrorHandler(h func(*gin.Context, error)) HandlerOption {
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
		cfg.PanicHandler = func(c *gin.Context, r any) {
			cfg.Logger.Error().Interface("panic", r).Str("route", c.FullPath()).Msg("panic in handler")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal Server Error",
			})
		}
	}
	if cfg.ResolutionErrorHandler == nil {
		cfg.ResolutionErrorHandler = func(c *gin.Context, err error) {
			cfg.Logger.Error().Err(err).Str("route", c.FullPath()).Msg("failed to resolve controller")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "Internal Server Error",
			})
		}
	}
	return cfg
}

// Handle wraps a controller method. The controller is read from the
// request's container at path.
//
// The method signature should be: func(T, *gin.Context)
//
// Example:
//
//	g.GET("/users/:id", lazydigin.Handle("controllers.users", UserController.GetByID))
func Handle[T any](path string, method func(T, *gin.Context), opts ...HandlerOption) gin.HandlerFunc {
	cfg := newHandlerConfig(opts)

	return func(c *gin.Context) {
		if cfg.PanicRecovery {
			defer func() {
				if r := recover(); r != nil {
					cfg.PanicHandler(c, r)
				}
			}()
		}

		controller, err := Resolve[T](c, path)
		if err != nil {
			cfg.ResolutionErrorHandler(c, err)
			return
		}

		method(controller, c)
	}
}
