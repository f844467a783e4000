package schemafile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorCodes(t *testing.T, yaml string) []string {
	t.Helper()

	f, err := Parse([]byte(yaml))
	require.NoError(t, err)

	diags := Validate(f)

	codes := make([]string, len(diags.Errors))
	for i, d := range diags.Errors {
		codes[i] = d.Code
	}

	return codes
}

func TestValidateNilFile(t *testing.T) {
	diags := Validate(nil)

	require.True(t, diags.HasErrors())
	assert.Equal(t, "file_is_nil", diags.Errors[0].Code)
}

func TestValidateCleanFile(t *testing.T) {
	f, err := Parse([]byte(`
schemas:
  - name: app.KnightSchema
    fields:
      - {name: name, type: string}
  - name: app.KingSchema
    bases: app.KnightSchema
    fields:
      - {name: subjects, type: nested, schema: app.KnightSchema, many: true}
`))
	require.NoError(t, err)

	diags := Validate(f)

	assert.False(t, diags.HasErrors())
	assert.Empty(t, diags.Warnings)
}

func TestValidateStructuralErrors(t *testing.T) {
	cases := map[string]struct {
		yaml  string
		codes []string
	}{
		"unnamed schema": {
			yaml: `
schemas:
  - fields:
      - {name: title, type: string}
`,
			codes: []string{"empty_schema_name"},
		},
		"duplicate schema": {
			yaml: `
schemas:
  - name: app.Twice
    fields: [{name: a, type: string}]
  - name: app.Twice
    fields: [{name: a, type: string}]
`,
			codes: []string{"duplicate_schema"},
		},
		"exclude and only together": {
			yaml: `
schemas:
  - name: app.Both
    exclude: a
    only: b
    fields: [{name: a, type: string}, {name: b, type: string}]
`,
			codes: []string{"exclude_and_only"},
		},
		"unnamed field": {
			yaml: `
schemas:
  - name: app.NoFieldName
    fields: [{type: string}]
`,
			codes: []string{"empty_field_name"},
		},
		"unknown field type": {
			yaml: `
schemas:
  - name: app.BadType
    fields: [{name: a, type: decimal}]
`,
			codes: []string{"unknown_field_type"},
		},
		"nested without schema": {
			yaml: `
schemas:
  - name: app.NoRef
    fields: [{name: a, type: nested}]
`,
			codes: []string{"missing_nested_schema"},
		},
		"nested options on scalar": {
			yaml: `
schemas:
  - name: app.ScalarOpts
    fields:
      - {name: a, type: string, schema: app.Other}
      - {name: b, type: string, many: true}
      - {name: c, type: string, only: x}
`,
			codes: []string{"schema_on_scalar", "many_on_scalar", "narrowing_on_scalar"},
		},
	}

	for label, tc := range cases {
		t.Run(label, func(t *testing.T) {
			assert.Equal(t, tc.codes, errorCodes(t, tc.yaml))
		})
	}
}

func TestValidateWarnsOnEmptySchema(t *testing.T) {
	f, err := Parse([]byte(`
schemas:
  - name: app.Empty
    fields: []
`))
	require.NoError(t, err)

	diags := Validate(f)

	assert.False(t, diags.HasErrors())
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, "no_fields", diags.Warnings[0].Code)
}
