package schemafile

import (
	"fmt"

	"github.com/nicoddemus/lima/fields"
	"github.com/nicoddemus/lima/registry"
	"github.com/nicoddemus/lima/schema"
)

// Build validates f and builds its schemas into registered definitions, in
// file order. Bases may be earlier schemas of the same file or definitions
// already registered from code or other files. Nested references stay
// name-based and resolve on first use, so schemas may reference themselves
// or later entries.
func Build(f *File) ([]*schema.Definition, error) {
	if diags := Validate(f); diags.HasErrors() {
		return nil, diags.Error()
	}

	built := make(map[string]*schema.Definition, len(f.Schemas))
	defs := make([]*schema.Definition, 0, len(f.Schemas))

	for i := range f.Schemas {
		sd := &f.Schemas[i]

		def, err := buildSchema(sd, built)
		if err != nil {
			return nil, err
		}

		built[sd.Name] = def
		defs = append(defs, def)
	}

	return defs, nil
}

func buildSchema(sd *SchemaDef, built map[string]*schema.Definition) (*schema.Definition, error) {
	b := schema.New(sd.Name)

	for _, baseName := range sd.Bases {
		base, err := lookupBase(baseName, built)
		if err != nil {
			return nil, fmt.Errorf("schema %q: %w", sd.Name, err)
		}

		b.Extends(base)
	}

	for i := range sd.Fields {
		fd := &sd.Fields[i]
		b.Field(fd.Name, buildField(fd))
	}

	if !sd.Exclude.IsEmpty() {
		b.Exclude(sd.Exclude...)
	}

	if !sd.Only.IsEmpty() {
		b.Only(sd.Only...)
	}

	return b.Build()
}

// lookupBase resolves an ancestor by name: same-file schemas first, then the
// process-wide registry.
func lookupBase(name string, built map[string]*schema.Definition) (*schema.Definition, error) {
	if def, ok := built[name]; ok {
		return def, nil
	}

	got, err := registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("base %q: %w", name, err)
	}

	def, ok := got.(*schema.Definition)
	if !ok {
		return nil, fmt.Errorf("base %q has unsupported type %T", name, got)
	}

	return def, nil
}

func buildField(fd *FieldDef) fields.Field {
	var f fields.Field

	switch fd.Type {
	case "boolean":
		f = fields.Boolean()
	case "integer":
		f = fields.Integer()
	case "float":
		f = fields.Float()
	case "string":
		f = fields.String()
	case "date":
		f = fields.Date()
	case "datetime":
		f = fields.DateTime()
	case "nested":
		f = fields.Nested(fd.Schema)

		if fd.Many {
			f = f.Many()
		}

		if !fd.Exclude.IsEmpty() {
			f = f.Exclude(fd.Exclude...)
		}

		if !fd.Only.IsEmpty() {
			f = f.Only(fd.Only...)
		}
	}

	if fd.Attr != "" {
		f = f.Attr(fd.Attr)
	}

	return f
}
