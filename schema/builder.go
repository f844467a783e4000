package schema

import (
	"errors"
	"fmt"

	"github.com/nicoddemus/lima/fields"
	"github.com/nicoddemus/lima/registry"
)

var ErrNilBase = errors.New("ancestor schema definition is nil")

// Builder assembles a schema definition: an ordered set of named fields
// merged from ancestor definitions, direct declarations and an include
// mapping, narrowed by exclude/only filters.
//
// Declaration order is output order. Build finalizes the field set, checks
// every invariant and registers the definition under its name.
type Builder struct {
	name    string
	bases   []*Definition
	decls   []Decl
	include []Decl
	exclude []string
	only    []string
	err     error
}

// New starts a schema definition registered under name. Pick a stable,
// unique qualified name; the convention is "package.SchemaName".
func New(name string) *Builder {
	return &Builder{name: name}
}

// Extends lists the ancestor definitions whose fields are inherited. On
// conflicting names the first-listed ancestor wins; later ancestors only
// contribute genuinely new names, appended after the known ones.
func (b *Builder) Extends(bases ...*Definition) *Builder {
	for _, base := range bases {
		if base == nil {
			b.fail(fmt.Errorf("%w: schema %q", ErrNilBase, b.name))
			continue
		}

		b.bases = append(b.bases, base)
	}

	return b
}

// Field declares a field. A declaration overrides an inherited field in
// place (keeping its position); a new name is appended.
func (b *Builder) Field(name string, f fields.Field) *Builder {
	b.decls = append(b.decls, Decl{Name: name, Field: f})
	return b
}

// Include declares a field through the include mapping, with the same
// override-or-append semantics as Field. Colliding with a direct declaration
// on this builder is a duplicate-field error.
func (b *Builder) Include(name string, f fields.Field) *Builder {
	b.include = append(b.include, Decl{Name: name, Field: f})
	return b
}

// Exclude removes the named fields from the assembled set. Unknown names
// fail the build.
func (b *Builder) Exclude(names ...string) *Builder {
	b.exclude = append(b.exclude, names...)
	return b
}

// Only keeps exactly the named fields, in their existing relative order.
// Mutually exclusive with Exclude.
func (b *Builder) Only(names ...string) *Builder {
	b.only = append(b.only, names...)
	return b
}

// Build assembles, validates and registers the definition.
func (b *Builder) Build() (*Definition, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.name == "" {
		return nil, ErrNoName
	}

	fs, err := assemble(b.bases, b.decls, b.include, b.exclude, b.only)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", b.name, err)
	}

	if err := fs.validate(); err != nil {
		return nil, fmt.Errorf("schema %q: %w", b.name, err)
	}

	def := &Definition{name: b.name, fields: fs}

	if err := registry.Register(b.name, def); err != nil {
		return nil, err
	}

	logRegistered(def)

	return def, nil
}

// MustBuild is like Build but panics on error, for package-level schema
// declarations.
func (b *Builder) MustBuild() *Definition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}

	return def
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}
