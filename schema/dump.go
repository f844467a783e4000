package schema

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/nicoddemus/lima/fields"
	"github.com/nicoddemus/lima/registry"
)

// dumpFunc is the specialized routine compiled for exactly one field set.
type dumpFunc func(obj any) (*Map, error)

// evalFunc computes one field's output value from the source object.
type evalFunc func(obj any) (any, error)

type step struct {
	key  string
	eval evalFunc
}

// compile builds the specialized dump routine for the schema's field set.
// Per-field dispatch (kind checks, attr-vs-getter branching) happens here,
// once; the returned routine runs a flat list of pre-bound steps.
func compile(s *Schema) (dumpFunc, error) {
	decls := s.fields.decls()
	steps := make([]step, len(decls))

	for i, d := range decls {
		steps[i] = step{key: d.Name, eval: compileField(d.Name, d.Field)}
	}

	Logger().Debug("compiled dump routine",
		zap.String("schema", s.def.Name()),
		zap.Int("fields", len(steps)))

	return func(obj any) (*Map, error) {
		out := newMap(len(steps))

		for i := range steps {
			val, err := steps[i].eval(obj)
			if err != nil {
				return nil, err
			}

			out.Set(steps[i].key, val)
		}

		return out, nil
	}, nil
}

// compileField selects the extraction strategy for one field, in priority
// order: nested, getter, explicit attr, passthrough read of the field's own
// name. A pack transform, when present, wraps the extracted value; nil
// values bypass it and serialize as null.
func compileField(name string, f fields.Field) evalFunc {
	if f.Kind() == fields.KindNested {
		return compileNested(name, f)
	}

	var read evalFunc

	switch {
	case f.HasGetter():
		read = func(obj any) (any, error) { return f.Get(obj), nil }
	case f.AttrName() != "":
		read = newAccessor(f.AttrName()).read
	default:
		read = newAccessor(name).read
	}

	if !f.HasPacker() {
		return read
	}

	return func(obj any) (any, error) {
		val, err := read(obj)
		if err != nil || isNil(val) {
			return nil, err
		}

		val, err = f.Pack(val)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}

		return val, nil
	}
}

// compileNested builds the step for a field serialized through another
// schema. The reference is resolved exactly once, on the first evaluation,
// never at compile time: a name may point at a definition registered later
// (forward reference) or at the referencing schema itself (self reference).
func compileNested(name string, f fields.Field) evalFunc {
	var read evalFunc

	switch {
	case f.HasGetter():
		read = func(obj any) (any, error) { return f.Get(obj), nil }
	case f.AttrName() != "":
		read = newAccessor(f.AttrName()).read
	default:
		read = newAccessor(name).read
	}

	// The resolved instance is published once and shared; a failed
	// resolution is not cached, so a name used before its registration
	// resolves on a later call.
	var (
		mu     sync.Mutex
		nested atomic.Pointer[Schema]
	)

	resolve := func() (*Schema, error) {
		if s := nested.Load(); s != nil {
			return s, nil
		}

		mu.Lock()
		defer mu.Unlock()

		if s := nested.Load(); s != nil {
			return s, nil
		}

		s, err := resolveRef(f)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}

		Logger().Debug("resolved nested schema",
			zap.String("field", name),
			zap.String("schema", s.def.Name()))

		nested.Store(s)

		return s, nil
	}

	return func(obj any) (any, error) {
		s, err := resolve()
		if err != nil {
			return nil, err
		}

		val, err := read(obj)
		if err != nil || isNil(val) {
			return nil, err
		}

		return s.Dump(val)
	}
}

// resolveRef turns a nested field's schema reference into a concrete
// instance. Definitions and names are instantiated with the field's
// narrowing options; instances are used as-is (their own many setting
// applies, which the field constructor already guarantees is unambiguous).
func resolveRef(f fields.Field) (*Schema, error) {
	switch ref := f.SchemaRef().(type) {
	case *Schema:
		return ref, nil

	case *Definition:
		return instantiateRef(ref, f)

	case string:
		got, err := registry.Get(ref)
		if err != nil {
			return nil, err
		}

		def, ok := got.(*Definition)
		if !ok {
			return nil, fmt.Errorf("registry entry %q has unsupported type %T", ref, got)
		}

		return instantiateRef(def, f)

	default:
		return nil, fmt.Errorf("%w, got %T", fields.ErrInvalidSchemaRef, ref)
	}
}

func instantiateRef(def *Definition, f fields.Field) (*Schema, error) {
	exclude := f.NestedExclude()
	only := f.NestedOnly()

	if len(exclude) == 0 && len(only) == 0 && !f.IsMany() {
		return def.instance()
	}

	opts := make([]Option, 0, 3)

	if len(exclude) > 0 {
		opts = append(opts, Exclude(exclude...))
	}

	if len(only) > 0 {
		opts = append(opts, Only(only...))
	}

	if f.IsMany() {
		opts = append(opts, Many(true))
	}

	return def.New(opts...)
}

// isNil reports whether v is nil or a nil pointer/interface/map/slice.
func isNil(v any) bool {
	if v == nil {
		return true
	}

	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
