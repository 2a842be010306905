package reflection

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

type In struct{}

var (
	inType  = reflect.TypeOf((*In)(nil)).Elem()
	errType = reflect.TypeOf((*error)(nil)).Elem()
)

// Analysis failures. The root package re-exports these.
var (
	ErrConstructorNil                 = errors.New("constructor cannot be nil")
	ErrConstructorNotFunction         = errors.New("constructor must be a function")
	ErrConstructorParams              = errors.New("constructor must take exactly one parameter")
	ErrConstructorReturns             = errors.New("constructor must return one or two values")
	ErrConstructorInvalidSecondReturn = errors.New("constructor's second return value must be error")
	ErrParamObject                    = errors.New("constructor parameter must be the view, an interface it implements, or a struct embedding In")
)

// ParamKind describes how a constructor's single argument is produced.
type ParamKind uint8

const (
	// ParamView passes the view itself.
	ParamView ParamKind = iota

	// ParamInterface passes the view as an interface it implements.
	ParamInterface

	// ParamObject fills a struct embedding In from the view.
	ParamObject
)

// Analyzer performs reflection-based analysis of constructors.
// It caches analysis results for performance.
type Analyzer struct {
	viewType reflect.Type

	mu    sync.RWMutex
	cache map[uintptr]*ConstructorInfo
}

// ConstructorInfo contains analyzed information about a constructor function.
type ConstructorInfo struct {
	Type           reflect.Type
	Value          reflect.Value
	ParamType      reflect.Type
	ParamKind      ParamKind
	Fields         []FieldInfo // only for ParamObject
	HasErrorReturn bool        // Returns error as last value
}

// FieldInfo describes an exported field of a parameter object.
type FieldInfo struct {
	Name     string
	Path     string // From name:"path" tag, or the field name with a lower-case first letter
	Type     reflect.Type
	Index    int
	Optional bool // From optional:"true" tag
}

// TagInfo contains parsed struct tag information.
type TagInfo struct {
	Optional bool
	Name     string
	Ignore   bool
}

// New creates an Analyzer for constructors taking viewType, or something
// derived from it.
func New(viewType reflect.Type) *Analyzer {
	return &Analyzer{
		viewType: viewType,
		cache:    make(map[uintptr]*ConstructorInfo),
	}
}

// Analyze validates a constructor and extracts how it is to be invoked.
func (a *Analyzer) Analyze(constructor any) (*ConstructorInfo, error) {
	if constructor == nil {
		return nil, ErrConstructorNil
	}

	val := reflect.ValueOf(constructor)
	typ := val.Type()

	if typ.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w, got %v", ErrConstructorNotFunction, typ)
	}

	// Check for nil function values (typed nil)
	if val.IsNil() {
		return nil, ErrConstructorNil
	}

	// Closures built from the same literal share a code pointer, so a hit
	// is rebound to the value being analyzed.
	cacheKey := val.Pointer()

	a.mu.RLock()
	if cached, ok := a.cache[cacheKey]; ok && cached.Type == typ {
		a.mu.RUnlock()
		bound := *cached
		bound.Value = val
		return &bound, nil
	}
	a.mu.RUnlock()

	info := &ConstructorInfo{
		Type:  typ,
		Value: val,
	}

	if err := a.analyzeParameter(info); err != nil {
		return nil, err
	}

	if err := a.analyzeReturns(info); err != nil {
		return nil, err
	}

	a.mu.Lock()
	a.cache[cacheKey] = info
	a.mu.Unlock()

	return info, nil
}

// analyzeParameter classifies the constructor's only parameter.
func (a *Analyzer) analyzeParameter(info *ConstructorInfo) error {
	if info.Type.NumIn() != 1 || info.Type.IsVariadic() {
		return fmt.Errorf("%w, got %d", ErrConstructorParams, info.Type.NumIn())
	}

	paramType := info.Type.In(0)
	info.ParamType = paramType

	switch {
	case paramType == a.viewType:
		info.ParamKind = ParamView
		return nil

	case paramType.Kind() == reflect.Interface && a.viewType.Implements(paramType):
		info.ParamKind = ParamInterface
		return nil

	case hasEmbeddedType(paramType, inType):
		info.ParamKind = ParamObject
		return a.analyzeParamObject(info, paramType)

	default:
		return fmt.Errorf("%w, got %v", ErrParamObject, paramType)
	}
}

// analyzeParamObject analyzes an In struct's fields.
func (a *Analyzer) analyzeParamObject(info *ConstructorInfo, structType reflect.Type) error {
	if structType.Kind() == reflect.Pointer {
		return fmt.Errorf("%w: parameter object must be passed by value, got %v", ErrParamObject, structType)
	}

	fields := make([]FieldInfo, 0, structType.NumField())

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)

		// Skip unexported fields
		if !field.IsExported() {
			continue
		}

		// Skip embedded In field itself
		if field.Anonymous && field.Type == inType {
			continue
		}

		tagInfo := parseFieldTags(field.Tag)
		if tagInfo.Ignore {
			continue
		}

		path := tagInfo.Name
		if path == "" {
			path = lowerFirst(field.Name)
		}

		fields = append(fields, FieldInfo{
			Name:     field.Name,
			Path:     path,
			Type:     field.Type,
			Index:    i,
			Optional: tagInfo.Optional,
		})
	}

	info.Fields = fields
	return nil
}

// analyzeReturns checks for (T) or (T, error).
func (a *Analyzer) analyzeReturns(info *ConstructorInfo) error {
	switch info.Type.NumOut() {
	case 1:
		return nil
	case 2:
		if !info.Type.Out(1).Implements(errType) {
			return fmt.Errorf("%w, got %v", ErrConstructorInvalidSecondReturn, info.Type.Out(1))
		}
		info.HasErrorReturn = true
		return nil
	default:
		return fmt.Errorf("%w, got %d", ErrConstructorReturns, info.Type.NumOut())
	}
}

// CacheSize returns the number of cached analyses.
func (a *Analyzer) CacheSize() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.cache)
}

// parseFieldTags parses struct field tags for DI-specific annotations.
func parseFieldTags(tag reflect.StructTag) TagInfo {
	info := TagInfo{}

	if val, ok := tag.Lookup("optional"); ok {
		info.Optional = val == "true"
	}

	if val, ok := tag.Lookup("name"); ok {
		info.Name = val
	}

	if val, ok := tag.Lookup("inject"); ok && val == "-" {
		info.Ignore = true
	}

	return info
}

// hasEmbeddedType checks if a struct type has an embedded field of the given type.
func hasEmbeddedType(t, embedded reflect.Type) bool {
	base := t
	if base.Kind() == reflect.Pointer {
		base = base.Elem()
	}

	if base.Kind() != reflect.Struct {
		return false
	}

	for i := 0; i < base.NumField(); i++ {
		field := base.Field(i)
		if field.Anonymous && field.Type == embedded {
			return true
		}
	}

	return false
}

func lowerFirst(s string) string {
	if isUpperInitialism(s) {
		return strings.ToLower(s)
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return strings.ToLower(string(r)) + s[size:]
}

// isUpperInitialism reports whether s is an all-caps identifier such as "DB".
func isUpperInitialism(s string) bool {
	for _, r := range s {
		if !unicode.IsUpper(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return len(s) > 1
}
