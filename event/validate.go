package event

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError reports the first structural violation found at finalize
// time: which field broke and what shape was expected. Distinct from a
// missing field, which is reported by Missing instead.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Validate checks payload against the full schema for t. Every required
// field must be present and satisfy its constraint; the first violation
// aborts with a ValidationError naming the offending field.
func Validate(t Type, payload map[string]any) error {
	s, ok := registry[t]
	if !ok {
		return &ValidationError{Field: "event_type", Reason: fmt.Sprintf("unsupported event type %q", t)}
	}
	for _, f := range s.Fields {
		label := string(t) + "." + f.Name
		v, ok := payload[f.Name]
		if !ok {
			return &ValidationError{Field: label, Reason: "required key missing"}
		}
		if err := f.Check(v); err != nil {
			return &ValidationError{Field: label, Reason: err.Error()}
		}
	}
	return nil
}

// Field checks. JSON decoding hands us float64 for every number, but
// payloads built in-process may carry int, so the numeric checks accept
// both.

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asInt(v any) (int, bool) {
	n, ok := asNumber(v)
	if !ok || n != math.Trunc(n) {
		return 0, false
	}
	return int(n), true
}

func enum(allowed ...string) func(any) error {
	return func(v any) error {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("must be one of %s", strings.Join(allowed, ", "))
		}
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return fmt.Errorf("invalid value %q, must be one of %s", s, strings.Join(allowed, ", "))
	}
}

func nonEmptyString(v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("must be a string")
	}
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("must be non-empty")
	}
	return nil
}

func stringOrNull(v any) error {
	if v == nil {
		return nil
	}
	if _, ok := v.(string); !ok {
		return fmt.Errorf("must be a string or null")
	}
	return nil
}

func nonEmptyStringOrNull(v any) error {
	if v == nil {
		return nil
	}
	return nonEmptyString(v)
}

func stringList(v any) error {
	switch list := v.(type) {
	case []string:
		return nil
	case []any:
		for _, el := range list {
			if _, ok := el.(string); !ok {
				return fmt.Errorf("must be an array of strings")
			}
		}
		return nil
	}
	return fmt.Errorf("must be an array of strings")
}

func number(v any) error {
	if _, ok := asNumber(v); !ok {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func numberOrNull(v any) error {
	if v == nil {
		return nil
	}
	return number(v)
}

func integer(v any) error {
	if _, ok := asInt(v); !ok {
		return fmt.Errorf("must be an integer")
	}
	return nil
}

func intInRange(lo, hi int) func(any) error {
	return func(v any) error {
		n, ok := asInt(v)
		if !ok {
			return fmt.Errorf("must be an integer")
		}
		if n < lo || n > hi {
			return fmt.Errorf("out of range (%d..%d)", lo, hi)
		}
		return nil
	}
}

func numberInRange(lo, hi float64) func(any) error {
	return func(v any) error {
		n, ok := asNumber(v)
		if !ok {
			return fmt.Errorf("must be a number")
		}
		if n < lo || n > hi {
			return fmt.Errorf("out of range (%g..%g)", lo, hi)
		}
		return nil
	}
}

// deltaObject checks the {add: []string, remove: []string} shape used by the
// thesis-update delta fields.
func deltaObject(v any) error {
	m, ok := v.(map[string]any)
	if !ok {
		return fmt.Errorf("must be an object with add/remove")
	}
	for _, key := range []string{"add", "remove"} {
		inner, ok := m[key]
		if !ok {
			return fmt.Errorf("must be an object with add/remove")
		}
		if err := stringList(inner); err != nil {
			return fmt.Errorf("%s %s", key, err)
		}
	}
	return nil
}

// constraintsObject checks an object carrying the named boolean flags.
func constraintsObject(keys ...string) func(any) error {
	return func(v any) error {
		m, ok := v.(map[string]any)
		if !ok {
			return fmt.Errorf("must be an object")
		}
		for _, key := range keys {
			if _, ok := m[key].(bool); !ok {
				return fmt.Errorf("%s must be a boolean", key)
			}
		}
		return nil
	}
}
