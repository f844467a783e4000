package schemafile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nicoddemus/lima/internal/common"
)

// File represents the root of a YAML schema definition file.
type File struct {
	// Version of the schema file format (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Schemas is the ordered list of schema definitions.
	Schemas []SchemaDef `yaml:"schemas"`
}

// SchemaDef defines one schema: its qualified name, ancestors and ordered
// fields, optionally narrowed by exclude or only.
type SchemaDef struct {
	// Name is the qualified name the definition registers under.
	Name string `yaml:"name"`

	// Bases lists ancestor schema names, first-listed winning on conflicts.
	Bases NameList `yaml:"bases,omitempty"`

	// Fields is the ordered field list. Order is output key order.
	Fields []FieldDef `yaml:"fields"`

	// Exclude removes the named fields from the assembled set.
	Exclude NameList `yaml:"exclude,omitempty"`

	// Only keeps exactly the named fields, in their existing order.
	Only NameList `yaml:"only,omitempty"`
}

// FieldDef defines one field of a schema.
type FieldDef struct {
	// Name is the output key (and the implicit attribute name).
	Name string `yaml:"name"`

	// Type is one of: boolean, integer, float, string, date, datetime,
	// nested.
	Type string `yaml:"type"`

	// Attr overrides the source attribute the value is read from.
	Attr string `yaml:"attr,omitempty"`

	// Schema names the nested schema (nested fields only).
	Schema string `yaml:"schema,omitempty"`

	// Many marks the nested reference as a sequence (nested fields only).
	Many bool `yaml:"many,omitempty"`

	// Exclude narrows the nested schema (nested fields only).
	Exclude NameList `yaml:"exclude,omitempty"`

	// Only narrows the nested schema (nested fields only).
	Only NameList `yaml:"only,omitempty"`
}

// NameList is a list of names that may be written in YAML as a single
// string or as a sequence of strings.
type NameList []string

// UnmarshalYAML implements custom YAML unmarshaling for NameList.
// Accepts either a single string or an array of strings.
func (s *NameList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string

		err := node.Decode(&str)
		if err != nil {
			return err
		}

		if str != "" {
			*s = NameList{str}
		} else {
			*s = NameList{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string

		err := node.Decode(&arr)
		if err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected name or list of names, got %v", node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for NameList.
// Outputs a single string if length is 1, otherwise an array.
func (s NameList) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first name or empty string if empty.
func (s NameList) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// IsEmpty returns true if the list is empty.
func (s NameList) IsEmpty() bool {
	return common.IsEmpty(s)
}
