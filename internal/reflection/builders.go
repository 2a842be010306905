package reflection

import (
	"fmt"
	"reflect"
)

// Getter is the read side of a view.
type Getter interface {
	Get(path string) (any, error)
}

// Walker reads a path as a chain of single-segment reads. Parameter objects
// prefer it over Getter when the view provides it.
type Walker interface {
	Walk(path string) (any, error)
}

// TypeMismatchError indicates a resolved value cannot be used as the
// requested type.
type TypeMismatchError struct {
	Path     string
	Expected reflect.Type
	Actual   reflect.Type
}

func (e TypeMismatchError) Error() string {
	return fmt.Sprintf("value at %q: expected %v, got %v", e.Path, e.Expected, e.Actual)
}

// MissingValueError indicates a required parameter object field resolved to nothing.
type MissingValueError struct {
	Path  string
	Field string
}

func (e MissingValueError) Error() string {
	return fmt.Sprintf("no value at %q for required field %s", e.Path, e.Field)
}

// Invoke calls the analyzed constructor with an argument derived from view.
// Errors returned by the constructor are passed through unchanged.
func Invoke(info *ConstructorInfo, view Getter) (any, error) {
	arg, err := buildArgument(info, view)
	if err != nil {
		return nil, err
	}

	results := info.Value.Call([]reflect.Value{arg})

	if info.HasErrorReturn {
		if errVal := results[1]; !errVal.IsNil() {
			return nil, errVal.Interface().(error)
		}
	}

	return results[0].Interface(), nil
}

func buildArgument(info *ConstructorInfo, view Getter) (reflect.Value, error) {
	switch info.ParamKind {
	case ParamView, ParamInterface:
		return reflect.ValueOf(view).Convert(info.ParamType), nil
	default:
		return BuildParamObject(info, view)
	}
}

// BuildParamObject creates and populates an In struct from view.
func BuildParamObject(info *ConstructorInfo, view Getter) (reflect.Value, error) {
	structValue := reflect.New(info.ParamType).Elem()

	read := view.Get
	if w, ok := view.(Walker); ok {
		read = w.Walk
	}

	for _, field := range info.Fields {
		v, err := read(field.Path)
		if err != nil {
			return reflect.Value{}, err
		}

		if v == nil {
			if field.Optional {
				continue
			}
			return reflect.Value{}, MissingValueError{Path: field.Path, Field: field.Name}
		}

		rv := reflect.ValueOf(v)
		if !rv.Type().AssignableTo(field.Type) {
			return reflect.Value{}, TypeMismatchError{Path: field.Path, Expected: field.Type, Actual: rv.Type()}
		}

		structValue.Field(field.Index).Set(rv)
	}

	return structValue, nil
}
