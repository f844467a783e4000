// Package fields provides the leaf descriptors of a schema: where a value is
// read from, how it is transformed, and (for nested fields) which schema
// serializes it.
//
// Fields are plain values. The typed constructors return a base descriptor
// and the chainable With-style methods (Attr, Getter, Packer, Many, Exclude,
// Only) return modified copies, so a field can be shared between schemas
// without one definition observing another's changes. Configuration
// violations are recorded on the field and reported when a schema finalizes
// its field set, before any serialization is attempted.
package fields

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/nicoddemus/lima/registry"
)

var (
	ErrAttrAndGetter      = errors.New("attr and getter must not be provided at the same time")
	ErrInvalidAttr        = errors.New("attr is not a valid identifier")
	ErrNilGetter          = errors.New("getter must not be nil")
	ErrNilPacker          = errors.New("packer must not be nil")
	ErrInvalidSchemaRef   = errors.New("schema reference must be a name, a definition or an instance")
	ErrManyTwice          = errors.New("many specified on both the field and the embedded schema instance")
	ErrInstanceRefOptions = errors.New("no options may be supplied when the schema reference is an instance")
	ErrNotNested          = errors.New("option is only valid for nested fields")
	ErrPackerOnNested     = errors.New("nested fields serialize via their schema and take no packer")
	ErrNameQuote          = errors.New(`field name must not contain '"'`)
	ErrNameNotIdentifier  = errors.New("field name used as implicit attr is not a valid identifier")
)

// GetFunc extracts a field value from an object.
type GetFunc func(obj any) any

// PackFunc converts an extracted raw value into an output-ready primitive.
type PackFunc func(val any) (any, error)

// Field describes one serializable slot. The zero value is not usable; use
// one of the typed constructors.
type Field struct {
	kind Kind
	attr string
	get  GetFunc
	pack PackFunc

	// nested configuration
	ref     any // string, registry.Definition or registry.Instance
	many    bool
	exclude []string
	only    []string

	err error
}

// Boolean returns a passthrough boolean field.
func Boolean() Field { return Field{kind: KindBoolean} }

// Integer returns a passthrough integer field.
func Integer() Field { return Field{kind: KindInteger} }

// Float returns a passthrough float field.
func Float() Field { return Field{kind: KindFloat} }

// String returns a passthrough string field.
func String() Field { return Field{kind: KindString} }

// Date returns a field packing a time.Time into its ISO 8601 calendar-date
// form (YYYY-MM-DD).
func Date() Field { return Field{kind: KindDate, pack: packDate} }

// DateTime returns a field packing a time.Time into its full-precision
// ISO 8601 form (YYYY-MM-DDTHH:MM:SS.ffffff±HH:MM, fractional seconds only
// when the value carries them).
func DateTime() Field { return Field{kind: KindDateTime, pack: packDateTime} }

// Nested returns a field whose value is produced by serializing a related
// object through another schema. The reference may be a qualified schema
// name (resolved through the registry on first use, allowing self and
// forward references), a schema definition (instantiated on first use with
// the field's narrowing options), or a ready schema instance (used as-is; no
// further options allowed).
func Nested(ref any) Field {
	f := Field{kind: KindNested, ref: ref}

	switch ref.(type) {
	case string, registry.Definition, registry.Instance:
	default:
		f.err = fmt.Errorf("%w, got %T", ErrInvalidSchemaRef, ref)
	}

	return f
}

// Attr returns a copy of f reading its value from the named source attribute
// instead of the field's own name.
func (f Field) Attr(name string) Field {
	f.recordErr(validAttr(name))

	if f.get != nil {
		f.recordErr(ErrAttrAndGetter)
	}

	f.attr = name

	return f
}

// Getter returns a copy of f extracting its value with fn instead of an
// attribute read.
func (f Field) Getter(fn GetFunc) Field {
	if fn == nil {
		f.recordErr(ErrNilGetter)
	}

	if f.attr != "" {
		f.recordErr(ErrAttrAndGetter)
	}

	f.get = fn

	return f
}

// Packer returns a copy of f transforming the extracted raw value with fn
// before it is stored in the output mapping.
func (f Field) Packer(fn PackFunc) Field {
	if fn == nil {
		f.recordErr(ErrNilPacker)
	}

	if f.kind == KindNested {
		f.recordErr(ErrPackerOnNested)
	}

	f.pack = fn

	return f
}

// Many returns a copy of f marking the referenced value as a sequence of
// objects rather than a single object. Only valid on nested fields whose
// reference is not already a schema instance.
func (f Field) Many() Field {
	if f.kind != KindNested {
		f.recordErr(fmt.Errorf("%w: many on %s field", ErrNotNested, f.kind))
		return f
	}

	if inst, ok := f.ref.(registry.Instance); ok {
		if inst.Many() {
			f.recordErr(ErrManyTwice)
		} else {
			f.recordErr(fmt.Errorf("%w: many", ErrInstanceRefOptions))
		}
	}

	f.many = true

	return f
}

// Exclude returns a copy of f that narrows the nested schema by removing the
// named fields when it is instantiated.
func (f Field) Exclude(names ...string) Field {
	if f.kind != KindNested {
		f.recordErr(fmt.Errorf("%w: exclude on %s field", ErrNotNested, f.kind))
		return f
	}

	if _, ok := f.ref.(registry.Instance); ok {
		f.recordErr(fmt.Errorf("%w: exclude", ErrInstanceRefOptions))
	}

	f.exclude = append(f.exclude, names...)

	return f
}

// Only returns a copy of f that narrows the nested schema to exactly the
// named fields when it is instantiated.
func (f Field) Only(names ...string) Field {
	if f.kind != KindNested {
		f.recordErr(fmt.Errorf("%w: only on %s field", ErrNotNested, f.kind))
		return f
	}

	if _, ok := f.ref.(registry.Instance); ok {
		f.recordErr(fmt.Errorf("%w: only", ErrInstanceRefOptions))
	}

	f.only = append(f.only, names...)

	return f
}

// Kind returns the field's value category.
func (f Field) Kind() Kind { return f.kind }

// AttrName returns the explicit source attribute name, if any.
func (f Field) AttrName() string { return f.attr }

// HasGetter reports whether the field extracts its value with a custom getter.
func (f Field) HasGetter() bool { return f.get != nil }

// Get applies the field's getter to obj.
func (f Field) Get(obj any) any { return f.get(obj) }

// HasPacker reports whether a transform is applied after extraction.
func (f Field) HasPacker() bool { return f.pack != nil }

// Pack applies the field's transform to val.
func (f Field) Pack(val any) (any, error) { return f.pack(val) }

// Passthrough reports whether the field carries no attr, getter or packer at
// all, making it eligible for the fastest extraction path: a single
// attribute read under the field's own name.
func (f Field) Passthrough() bool {
	return f.kind != KindNested && f.attr == "" && f.get == nil && f.pack == nil
}

// SchemaRef returns the nested schema reference (nil for non-nested fields).
func (f Field) SchemaRef() any { return f.ref }

// IsMany reports whether the nested reference is treated as a sequence.
func (f Field) IsMany() bool { return f.many }

// NestedExclude returns the narrowing exclude list for the nested schema.
func (f Field) NestedExclude() []string { return f.exclude }

// NestedOnly returns the narrowing only list for the nested schema.
func (f Field) NestedOnly() []string { return f.only }

// Err returns the first configuration error recorded on the field, if any.
func (f Field) Err() error { return f.err }

// CheckName validates name as the field's effective output key. The key is
// embedded literally into the output mapping, so it must not contain a
// double quote, and when the field has neither attr nor getter the name
// doubles as the attribute accessor and must be identifier-shaped.
func (f Field) CheckName(name string) error {
	if strings.ContainsRune(name, '"') {
		return fmt.Errorf("%w: %q", ErrNameQuote, name)
	}

	if f.attr == "" && f.get == nil && !isIdentifier(name) {
		return fmt.Errorf("%w: %q", ErrNameNotIdentifier, name)
	}

	return nil
}

func (f *Field) recordErr(err error) {
	if f.err == nil && err != nil {
		f.err = err
	}
}

func validAttr(name string) error {
	if !isIdentifier(name) {
		return fmt.Errorf("%w: %q", ErrInvalidAttr, name)
	}

	return nil
}

// isIdentifier reports whether s is identifier-shaped: a letter or
// underscore followed by letters, digits or underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}

	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case unicode.IsDigit(r) && i > 0:
		default:
			return false
		}
	}

	return true
}
