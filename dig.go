package lazydi

import (
	"maps"
	"reflect"
	"slices"

	"go.uber.org/dig"
)

// Provide registers every non-nil leaf of an assembled container with c,
// named by its dotted path and typed by its dynamic type. Nested trees are
// walked, not provided.
//
// Example:
//
//	resolved, _ := lazydi.CreateContainer(def)
//	c := dig.New()
//	if err := lazydi.Provide(c, resolved); err != nil {
//	    log.Fatal(err)
//	}
//
//	type Params struct {
//	    dig.In
//
//	    Greeting string `name:"greeting"`
//	}
//	err := c.Invoke(func(p Params) { fmt.Println(p.Greeting) })
func Provide(c *dig.Container, resolved Tree) error {
	return provideTree(c, resolved, "")
}

func provideTree(c *dig.Container, t Tree, prefix string) error {
	for _, key := range slices.Sorted(maps.Keys(t)) {
		path := joinPath(prefix, key)
		value := t[key]

		if nested, ok := value.(Tree); ok {
			if err := provideTree(c, nested, path); err != nil {
				return err
			}
			continue
		}

		if value == nil {
			continue
		}

		if err := c.Provide(constantConstructor(value), dig.Name(path)); err != nil {
			return RegistrationError{
				Operation: "provide " + path + " as",
				Target:    reflect.TypeOf(value),
				Cause:     err,
			}
		}
	}

	return nil
}

// constantConstructor builds func() T returning value, where T is value's
// dynamic type.
func constantConstructor(value any) any {
	rv := reflect.ValueOf(value)
	fnType := reflect.FuncOf(nil, []reflect.Type{rv.Type()}, false)

	return reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		return []reflect.Value{rv}
	}).Interface()
}
