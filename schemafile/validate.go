package schemafile

import (
	"fmt"

	"github.com/nicoddemus/lima/internal/diagnostic"
)

// fieldTypes are the recognized values of FieldDef.Type.
var fieldTypes = map[string]struct{}{
	"boolean":  {},
	"integer":  {},
	"float":    {},
	"string":   {},
	"date":     {},
	"datetime": {},
	"nested":   {},
}

// Validate checks the structural rules of a schema file. It does not prove
// that bases or nested references resolve (those may live in other files or
// be registered from code); reference errors surface when the definitions
// are built or first used.
func Validate(f *File) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError("file_is_nil", "schema file is nil", "", "")
		return res
	}

	seen := map[string]struct{}{}

	for i := range f.Schemas {
		sd := &f.Schemas[i]

		if sd.Name == "" {
			res.AddError("empty_schema_name", fmt.Sprintf("schema #%d has no name", i), "", "")
			continue
		}

		if _, dup := seen[sd.Name]; dup {
			res.AddError("duplicate_schema", fmt.Sprintf("schema %q defined twice", sd.Name), sd.Name, "")
			continue
		}

		seen[sd.Name] = struct{}{}

		if !sd.Exclude.IsEmpty() && !sd.Only.IsEmpty() {
			res.AddError("exclude_and_only", "exclude and only must not be provided at the same time", sd.Name, "")
		}

		if len(sd.Fields) == 0 && sd.Bases.IsEmpty() {
			res.AddWarning("no_fields", "schema declares no fields and no bases", sd.Name, "")
		}

		for j := range sd.Fields {
			validateField(res, sd.Name, j, &sd.Fields[j])
		}
	}

	return res
}

func validateField(res *diagnostic.Diagnostics, schemaName string, pos int, fd *FieldDef) {
	if fd.Name == "" {
		res.AddError("empty_field_name", fmt.Sprintf("field #%d has no name", pos), schemaName, "")
		return
	}

	if _, ok := fieldTypes[fd.Type]; !ok {
		res.AddError("unknown_field_type", fmt.Sprintf("unknown field type %q", fd.Type), schemaName, fd.Name)
		return
	}

	if fd.Type == "nested" {
		if fd.Schema == "" {
			res.AddError("missing_nested_schema", "nested field needs a schema reference", schemaName, fd.Name)
		}

		if !fd.Exclude.IsEmpty() && !fd.Only.IsEmpty() {
			res.AddError("exclude_and_only", "exclude and only must not be provided at the same time", schemaName, fd.Name)
		}

		return
	}

	if fd.Schema != "" {
		res.AddError("schema_on_scalar", fmt.Sprintf("%s field cannot reference a schema", fd.Type), schemaName, fd.Name)
	}

	if fd.Many {
		res.AddError("many_on_scalar", fmt.Sprintf("many is not valid on a %s field", fd.Type), schemaName, fd.Name)
	}

	if !fd.Exclude.IsEmpty() || !fd.Only.IsEmpty() {
		res.AddError("narrowing_on_scalar", fmt.Sprintf("exclude/only are not valid on a %s field", fd.Type), schemaName, fd.Name)
	}
}
