package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

var ErrNoAttribute = errors.New("object has no attribute")

// Attributer lets arbitrary objects expose named attributes to the engine
// without reflection.
type Attributer interface {
	Attribute(name string) (any, bool)
}

// accessor reads one named attribute off source objects. Struct lookups
// resolve the field index once per concrete type and cache it, so repeated
// dumps of the same type pay a single map lookup per field.
type accessor struct {
	name  string
	index sync.Map // reflect.Type -> []int
}

func newAccessor(name string) *accessor {
	return &accessor{name: name}
}

func (a *accessor) read(obj any) (any, error) {
	switch o := obj.(type) {
	case Attributer:
		v, ok := o.Attribute(a.name)
		if !ok {
			return nil, fmt.Errorf("%w: %q on %T", ErrNoAttribute, a.name, obj)
		}

		return v, nil

	case map[string]any:
		v, ok := o[a.name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrNoAttribute, a.name)
		}

		return v, nil
	}

	rv := reflect.ValueOf(obj)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, fmt.Errorf("%w: %q on nil %s", ErrNoAttribute, a.name, rv.Type())
		}

		rv = rv.Elem()
	}

	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %q on %T", ErrNoAttribute, a.name, obj)
	}

	idx, err := a.fieldIndex(rv.Type())
	if err != nil {
		return nil, err
	}

	return rv.FieldByIndex(idx).Interface(), nil
}

func (a *accessor) fieldIndex(t reflect.Type) ([]int, error) {
	if cached, ok := a.index.Load(t); ok {
		return cached.([]int), nil
	}

	sf, ok := findField(t, a.name)
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrNoAttribute, a.name, t)
	}

	a.index.Store(t, sf.Index)

	return sf.Index, nil
}

// findField matches name against t's exported fields: exact name first,
// then the exported spelling (first rune upper-cased), then case-insensitive.
func findField(t reflect.Type, name string) (reflect.StructField, bool) {
	if sf, ok := t.FieldByName(name); ok && sf.PkgPath == "" {
		return sf, true
	}

	if sf, ok := t.FieldByName(exported(name)); ok && sf.PkgPath == "" {
		return sf, true
	}

	sf, ok := t.FieldByNameFunc(func(n string) bool { return strings.EqualFold(n, name) })
	if ok && sf.PkgPath == "" {
		return sf, true
	}

	return reflect.StructField{}, false
}

func exported(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}

	return string(unicode.ToUpper(r)) + name[size:]
}
