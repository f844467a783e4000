// Package schema provides schema definitions and the serialization engine:
// the ordered merge of field declarations across ancestor definitions, the
// per-field-set compiled dump routine, and the Dump facade turning objects
// into insertion-ordered mappings.
//
// A Definition is built once (see Builder) and registered by name. An
// instance bound from it (Definition.New) may narrow the field set further
// and owns one compiled dump routine, built lazily on first use and reused
// for every subsequent call.
package schema

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/nicoddemus/lima/registry"
)

var ErrNotSequence = errors.New("dump input is not a slice or array")

// Schema is a bound schema instance: an immutable field set plus the
// compiled routine serializing one object into a *Map. Safe for concurrent
// use; the routine is published at most once.
type Schema struct {
	def    *Definition
	fields *fieldSet
	many   bool

	compileOnce sync.Once
	dump        dumpFunc
	compileErr  error
}

// Definition returns the definition the instance was bound from.
func (s *Schema) Definition() *Definition { return s.def }

// Many reports whether Dump treats its input as a sequence by default.
func (s *Schema) Many() bool { return s.many }

// Fields returns the instance's effective field set as ordered declarations.
func (s *Schema) Fields() []Decl { return s.fields.decls() }

// Dump serializes v according to the instance's many setting: a single
// object into a *Map, or a sequence into a []*Map in input order. Use
// DumpOne or DumpMany to override the default for one call.
func (s *Schema) Dump(v any) (any, error) {
	if s.many {
		return s.DumpMany(v)
	}

	return s.DumpOne(v)
}

// DumpOne serializes a single object into an ordered mapping.
func (s *Schema) DumpOne(v any) (*Map, error) {
	fn, err := s.compiled()
	if err != nil {
		return nil, err
	}

	return fn(v)
}

// DumpMany serializes a slice or array of objects, in input order.
func (s *Schema) DumpMany(v any) ([]*Map, error) {
	fn, err := s.compiled()
	if err != nil {
		return nil, err
	}

	items, err := sequence(v)
	if err != nil {
		return nil, err
	}

	out := make([]*Map, len(items))

	for i, item := range items {
		out[i], err = fn(item)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}

// compiled returns the instance's dump routine, building it exactly once.
func (s *Schema) compiled() (dumpFunc, error) {
	s.compileOnce.Do(func() {
		s.dump, s.compileErr = compile(s)
	})

	return s.dump, s.compileErr
}

// sequence flattens a slice or array input into []any.
func sequence(v any) ([]any, error) {
	if items, ok := v.([]any); ok {
		return items, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("%w: %T", ErrNotSequence, v)
	}

	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}

	return items, nil
}

// interface guard
var _ registry.Instance = (*Schema)(nil)
