package lazydi

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/junioryono/lazydi/internal/reflection"
)

// ========================================
// Core Error Values (Sentinel Errors)
// ========================================

var (
	// Registration errors.
	ErrNilFunction = errors.New("function cannot be nil")

	// Constructor analysis errors.
	ErrConstructorNil                 = reflection.ErrConstructorNil
	ErrConstructorNotFunction         = reflection.ErrConstructorNotFunction
	ErrConstructorParams              = reflection.ErrConstructorParams
	ErrConstructorReturns             = reflection.ErrConstructorReturns
	ErrConstructorInvalidSecondReturn = reflection.ErrConstructorInvalidSecondReturn
	ErrParamObject                    = reflection.ErrParamObject
)

var (
	_ error = RegistrationError{}
	_ error = TypeMismatchError{}
	_ error = MissingValueError{}
)

// ========================================
// Typed Errors for Rich Context
// ========================================

// RegistrationError wraps errors raised while building or providing a registration.
type RegistrationError struct {
	Operation string       // "register function", "analyze constructor", "provide", ...
	Target    reflect.Type // nil when there is nothing to name
	Cause     error
}

func (e RegistrationError) Error() string {
	if e.Target == nil {
		return fmt.Sprintf("failed to %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("failed to %s %v: %v", e.Operation, e.Target, e.Cause)
}

func (e RegistrationError) Unwrap() error {
	return e.Cause
}

// TypeMismatchError indicates a value read from a view is not of the requested type.
type TypeMismatchError = reflection.TypeMismatchError

// MissingValueError indicates a required parameter object field has no value.
type MissingValueError = reflection.MissingValueError
