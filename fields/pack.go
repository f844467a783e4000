package fields

import (
	"fmt"
	"time"
)

// packDate converts a time.Time into its ISO 8601 calendar-date form.
func packDate(val any) (any, error) {
	t, err := asTime(val)
	if err != nil {
		return nil, err
	}

	return t.Format("2006-01-02"), nil
}

// packDateTime converts a time.Time into its ISO 8601 form with microsecond
// precision and a numeric UTC offset. The fractional part is emitted only
// when the value carries sub-second precision.
func packDateTime(val any) (any, error) {
	t, err := asTime(val)
	if err != nil {
		return nil, err
	}

	s := t.Format("2006-01-02T15:04:05")
	if ns := t.Nanosecond(); ns != 0 {
		s += fmt.Sprintf(".%06d", ns/1000)
	}

	return s + t.Format("-07:00"), nil
}

// timeLayouts are accepted for string-typed values, most precise first.
// String inputs show up when objects come from decoded JSON or YAML.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func asTime(val any) (time.Time, error) {
	switch t := val.(type) {
	case time.Time:
		return t, nil
	case *time.Time:
		return *t, nil
	case string:
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, t); err == nil {
				return parsed, nil
			}
		}

		return time.Time{}, fmt.Errorf("cannot parse %q as a timestamp", t)
	default:
		return time.Time{}, fmt.Errorf("expected time.Time, got %T", val)
	}
}
