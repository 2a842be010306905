package loader

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRoot     = errors.New("invalid root path")
	ErrDuplicateModule = errors.New("two entries define the same key")
	ErrRootNotObject   = errors.New("root index must export an object")
	ErrNotWatchable    = errors.New("loader has no directory to watch")
)

var _ error = (*ModuleError)(nil)

// ModuleError reports the module that could not be loaded.
type ModuleError struct {
	Module string
	Cause  error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("load module %q: %v", e.Module, e.Cause)
}

func (e *ModuleError) Unwrap() error {
	return e.Cause
}
