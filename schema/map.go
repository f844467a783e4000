package schema

import (
	"bytes"
	"encoding/json"
)

// Map is an insertion-ordered mapping from field name to serialized value.
// It is the output of a dump: values are primitives, nested *Map values, or
// []*Map for nested sequences. Key order equals the field-set order of the
// schema that produced it.
type Map struct {
	keys []string
	vals map[string]any
}

func newMap(size int) *Map {
	return &Map{
		keys: make([]string, 0, size),
		vals: make(map[string]any, size),
	}
}

// Set stores val under key, appending the key if it is new.
func (m *Map) Set(key string, val any) {
	if _, exists := m.vals[key]; !exists {
		m.keys = append(m.keys, key)
	}

	m.vals[key] = val
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (m *Map) Keys() []string { return m.keys }

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.keys) }

// MarshalJSON encodes the mapping as a JSON object preserving key order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		buf.Write(k)
		buf.WriteByte(':')

		v, err := json.Marshal(m.vals[key])
		if err != nil {
			return nil, err
		}

		buf.Write(v)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
