package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nicoddemus/lima/fields"
)

// defOf builds an unregistered definition for merge tests. Each field gets a
// distinct attr marker so overrides are observable.
func defOf(name string, decls ...Decl) *Definition {
	fs := newFieldSet(len(decls))
	for _, d := range decls {
		fs.put(d.Name, d.Field)
	}

	return &Definition{name: name, fields: fs}
}

func marked(attr string) fields.Field { return fields.String().Attr(attr) }

func decl(name, attr string) Decl { return Decl{Name: name, Field: marked(attr)} }

func attrsOf(fs *fieldSet) map[string]string {
	out := make(map[string]string, fs.len())
	for _, name := range fs.names {
		out[name] = fs.byName[name].AttrName()
	}

	return out
}

func TestAssembleDeclarationOrder(t *testing.T) {
	fs, err := assemble(nil, []Decl{
		decl("one", "a1"),
		decl("two", "a2"),
		decl("three", "a3"),
		decl("four", "a4"),
		decl("five", "a5"),
	}, nil, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three", "four", "five"}, fs.names)
}

func TestAssembleFirstAncestorWins(t *testing.T) {
	base := defOf("t.Base",
		decl("one", "a1"), decl("two", "a2"), decl("three", "a3"),
		decl("four", "a4"), decl("five", "a5"))
	mixin := defOf("t.Mixin", decl("five", "new5"), decl("six", "a6"))

	// base listed first: base's five survives, six is appended
	fs, err := assemble([]*Definition{base, mixin}, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"one", "two", "three", "four", "five", "six"}, fs.names)
	assert.Equal(t, "a5", fs.byName["five"].AttrName())

	// mixin listed first: mixin's five wins and keeps mixin's order
	fs, err = assemble([]*Definition{mixin, base}, nil, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"five", "six", "one", "two", "three", "four"}, fs.names)
	assert.Equal(t, "new5", fs.byName["five"].AttrName())
}

func TestAssembleOwnDeclarationsOverrideInPlace(t *testing.T) {
	base := defOf("t.Base2",
		decl("one", "a1"), decl("two", "a2"), decl("three", "a3"),
		decl("four", "a4"), decl("five", "a5"))

	fs, err := assemble(
		[]*Definition{base},
		[]Decl{
			decl("four", "new4"), // replaces inherited, keeps position
			decl("six", "a6"),    // appended
			decl("seven", "a7"),  // appended
		},
		[]Decl{
			decl("five", "new5"), // replaces inherited, keeps position
			decl("eight", "a8"),  // appended
			decl("nine", "a9"),   // appended
		},
		nil, nil)

	require.NoError(t, err)
	assert.Equal(t,
		[]string{"one", "two", "three", "four", "five", "six", "seven", "eight", "nine"},
		fs.names)
	assert.Equal(t, map[string]string{
		"one": "a1", "two": "a2", "three": "a3",
		"four": "new4", "five": "new5",
		"six": "a6", "seven": "a7", "eight": "a8", "nine": "a9",
	}, attrsOf(fs))
}

func TestAssembleDuplicateDeclaration(t *testing.T) {
	_, err := assemble(nil, []Decl{decl("foo", "a1"), decl("foo", "a2")}, nil, nil, nil)
	assert.ErrorIs(t, err, ErrDuplicateField)
}

func TestAssembleIncludeCollidesWithDeclaration(t *testing.T) {
	// both are explicit author declarations at the same site
	_, err := assemble(nil,
		[]Decl{decl("foo", "a1")},
		[]Decl{decl("foo", "a2")},
		nil, nil)
	assert.ErrorIs(t, err, ErrDuplicateField)
}

func TestAssembleExclude(t *testing.T) {
	fs, err := assemble(nil, []Decl{
		decl("one", "a1"), decl("two", "a2"), decl("three", "a3"),
		decl("four", "a4"), decl("five", "a5"),
	}, nil, []string{"four", "two"}, nil)

	require.NoError(t, err)
	assert.Equal(t, []string{"one", "three", "five"}, fs.names)
}

func TestAssembleOnlyKeepsExistingOrder(t *testing.T) {
	fs, err := assemble(nil, []Decl{
		decl("one", "a1"), decl("two", "a2"), decl("three", "a3"),
		decl("four", "a4"), decl("five", "a5"),
	}, nil, nil, []string{"three", "five", "one"})

	require.NoError(t, err)
	// existing relative order, not the order listed in only
	assert.Equal(t, []string{"one", "three", "five"}, fs.names)
}

func TestAssembleUnknownFilterNames(t *testing.T) {
	decls := []Decl{decl("foo", "a1")}

	_, err := assemble(nil, decls, nil, []string{"nonexistent"}, nil)
	assert.ErrorIs(t, err, ErrUnknownField)

	_, err = assemble(nil, decls, nil, nil, []string{"nonexistent"})
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestAssembleExcludeAndOnly(t *testing.T) {
	_, err := assemble(nil,
		[]Decl{decl("foo", "a1"), decl("bar", "a2")},
		nil, []string{"foo"}, []string{"bar"})
	assert.ErrorIs(t, err, ErrExcludeAndOnly)
}

func TestValidateSurfacesFieldErrors(t *testing.T) {
	fs := newFieldSet(1)
	fs.put("foo", fields.String().Attr("this-is@not;an+identifier"))

	err := fs.validate()
	assert.ErrorIs(t, err, fields.ErrInvalidAttr)
}

func TestValidateOutputKeys(t *testing.T) {
	fs := newFieldSet(1)
	fs.put(`field_with_"quotes"`, fields.String().Attr("foo"))
	assert.ErrorIs(t, fs.validate(), fields.ErrNameQuote)

	fs = newFieldSet(1)
	fs.put("not@an-identifier", fields.String())
	assert.ErrorIs(t, fs.validate(), fields.ErrNameNotIdentifier)

	// fine with an explicit attr
	fs = newFieldSet(1)
	fs.put("not;an-identifier", fields.String().Attr("but_with_attr"))
	assert.NoError(t, fs.validate())
}

func TestFieldSetCloneIsIndependent(t *testing.T) {
	fs := newFieldSet(2)
	fs.put("one", marked("a1"))
	fs.put("two", marked("a2"))

	cp := fs.clone()
	cp.put("three", marked("a3"))

	assert.Equal(t, []string{"one", "two"}, fs.names)
	assert.Equal(t, []string{"one", "two", "three"}, cp.names)
}
