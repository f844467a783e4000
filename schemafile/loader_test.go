package schemafile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNameListForms(t *testing.T) {
	data := []byte(`
schemas:
  - name: app.SingleBase
    bases: app.Base
    fields:
      - name: title
        type: string
  - name: app.ManyBases
    bases: [app.Base, app.Other]
    fields:
      - name: title
        type: string
`)

	f, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, f.Schemas, 2)

	assert.Equal(t, NameList{"app.Base"}, f.Schemas[0].Bases)
	assert.Equal(t, NameList{"app.Base", "app.Other"}, f.Schemas[1].Bases)
}

func TestParseNameListRejectsMapping(t *testing.T) {
	data := []byte(`
schemas:
  - name: app.Broken
    bases: {nope: 1}
    fields: []
`)

	_, err := Parse(data)
	assert.ErrorContains(t, err, "expected name or list of names")
}

func TestParseVersionDefault(t *testing.T) {
	f, err := Parse([]byte(`schemas: []`))
	require.NoError(t, err)

	assert.Equal(t, "1", f.Version)

	f, err = Parse([]byte("version: \"2\"\nschemas: []"))
	require.NoError(t, err)

	assert.Equal(t, "2", f.Version)
}

func TestMarshalSingleNameAsScalar(t *testing.T) {
	f := &File{
		Version: "1",
		Schemas: []SchemaDef{{
			Name:  "app.Schema",
			Bases: NameList{"app.Base"},
			Fields: []FieldDef{
				{Name: "title", Type: "string"},
			},
		}},
	}

	out, err := Marshal(f)
	require.NoError(t, err)

	assert.Contains(t, string(out), "bases: app.Base")
}

func TestParseFieldOrderPreserved(t *testing.T) {
	data := []byte(`
schemas:
  - name: app.Ordered
    fields:
      - {name: zulu, type: string}
      - {name: alpha, type: integer}
      - {name: mike, type: date}
`)

	f, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, f.Schemas[0].Fields, 3)

	names := make([]string, 3)
	for i, fd := range f.Schemas[0].Fields {
		names[i] = fd.Name
	}

	assert.Equal(t, []string{"zulu", "alpha", "mike"}, names)
}
