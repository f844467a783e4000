package fields

// Kind identifies the value category a field serializes.
type Kind int

const (
	KindUnknown Kind = iota
	KindBoolean
	KindInteger
	KindFloat
	KindString
	KindDate
	KindDateTime
	KindNested

	// KindTotal is a constant that represents the total number of kinds defined
	KindTotal = int(iota)
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindDateTime:
		return "datetime"
	case KindNested:
		return "nested"
	default:
		return "unknown"
	}
}
