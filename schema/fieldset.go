package schema

import (
	"errors"
	"fmt"
	"slices"

	"github.com/nicoddemus/lima/fields"
)

var (
	ErrDuplicateField = errors.New("field declared twice at the same definition site")
	ErrUnknownField   = errors.New("filter names a field that does not exist")
	ErrExcludeAndOnly = errors.New("exclude and only must not be provided at the same time")
)

// Decl is one named field declaration. Declarations are kept in slices
// because their order is the output key order.
type Decl struct {
	Name  string
	Field fields.Field
}

// fieldSet is an ordered, name-unique collection of fields. It is built once
// (at definition time or at instance construction) and never mutated
// afterwards.
type fieldSet struct {
	names  []string
	byName map[string]fields.Field
}

func newFieldSet(size int) *fieldSet {
	return &fieldSet{
		names:  make([]string, 0, size),
		byName: make(map[string]fields.Field, size),
	}
}

// put appends name with f, or replaces the existing field in place.
func (fs *fieldSet) put(name string, f fields.Field) {
	if _, exists := fs.byName[name]; !exists {
		fs.names = append(fs.names, name)
	}

	fs.byName[name] = f
}

func (fs *fieldSet) has(name string) bool {
	_, ok := fs.byName[name]
	return ok
}

func (fs *fieldSet) len() int { return len(fs.names) }

// clone returns an independent copy sharing the field values.
func (fs *fieldSet) clone() *fieldSet {
	out := newFieldSet(fs.len())
	for _, name := range fs.names {
		out.put(name, fs.byName[name])
	}

	return out
}

// decls returns the set as ordered declarations.
func (fs *fieldSet) decls() []Decl {
	out := make([]Decl, 0, fs.len())
	for _, name := range fs.names {
		out = append(out, Decl{Name: name, Field: fs.byName[name]})
	}

	return out
}

// assemble merges ancestor field sets, direct declarations and an include
// mapping into one ordered field set and applies the exclude/only filters.
//
// Merge rules:
//  1. Ancestors are walked in listed order, their fields in their own order.
//     A name already placed by an earlier ancestor keeps its field and its
//     position; genuinely new names are appended.
//  2. Direct declarations override inherited entries in place (keeping the
//     inherited position) or are appended. Declaring a name twice at the
//     same site is an error.
//  3. The include declarations apply like direct ones, except that a
//     collision with a same-site direct declaration is a duplicate-field
//     error, not an override.
//  4. Exclude removes names, only keeps exactly the named entries in their
//     existing relative order. Either filter naming an unknown field is an
//     error, as is supplying both.
func assemble(bases []*Definition, own, include []Decl, exclude, only []string) (*fieldSet, error) {
	result := newFieldSet(len(own) + len(include))

	for _, base := range bases {
		for _, name := range base.fields.names {
			if !result.has(name) {
				result.put(name, base.fields.byName[name])
			}
		}
	}

	seen := make(map[string]struct{}, len(own))

	for _, d := range own {
		if _, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, d.Name)
		}

		seen[d.Name] = struct{}{}
		result.put(d.Name, d.Field)
	}

	for _, d := range include {
		if _, dup := seen[d.Name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, d.Name)
		}

		seen[d.Name] = struct{}{}
		result.put(d.Name, d.Field)
	}

	if err := filter(result, exclude, only); err != nil {
		return nil, err
	}

	return result, nil
}

// filter applies exclude or only to fs in place.
func filter(fs *fieldSet, exclude, only []string) error {
	if len(exclude) > 0 && len(only) > 0 {
		return ErrExcludeAndOnly
	}

	for _, name := range exclude {
		if !fs.has(name) {
			return fmt.Errorf("%w: exclude %q", ErrUnknownField, name)
		}

		delete(fs.byName, name)
		fs.names = slices.DeleteFunc(fs.names, func(n string) bool { return n == name })
	}

	if len(only) > 0 {
		keep := make(map[string]struct{}, len(only))

		for _, name := range only {
			if !fs.has(name) {
				return fmt.Errorf("%w: only %q", ErrUnknownField, name)
			}

			keep[name] = struct{}{}
		}

		// existing relative order wins, not the order listed in only
		fs.names = slices.DeleteFunc(fs.names, func(n string) bool {
			if _, ok := keep[n]; ok {
				return false
			}

			delete(fs.byName, n)

			return true
		})
	}

	return nil
}

// validate surfaces per-field configuration errors and checks every
// effective output key.
func (fs *fieldSet) validate() error {
	for _, name := range fs.names {
		f := fs.byName[name]

		if err := f.Err(); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}

		if err := f.CheckName(name); err != nil {
			return err
		}
	}

	return nil
}
