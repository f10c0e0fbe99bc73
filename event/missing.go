package event

import "strings"

// Missing returns the required fields of t that are still unfilled in
// payload, in the registry's declared order.
//
// A field counts as missing when the key is absent, the value is null, the
// value is a string that is empty after trimming, or the value is an empty
// list. Object-shaped fields (the deltas and constraints) additionally count
// as missing when present but not an object; their inner shape is only
// checked by Validate at finalize time.
//
// Unknown event types yield an empty list: there is nothing more to ask.
func Missing(t Type, payload map[string]any) []string {
	missing := []string{}
	s, ok := registry[t]
	if !ok {
		return missing
	}
	for _, f := range s.Fields {
		v, ok := payload[f.Name]
		if !ok || v == nil {
			missing = append(missing, f.Name)
			continue
		}
		if str, isStr := v.(string); isStr && strings.TrimSpace(str) == "" {
			missing = append(missing, f.Name)
			continue
		}
		if emptyList(v) {
			missing = append(missing, f.Name)
			continue
		}
		if f.Object {
			if _, isObj := v.(map[string]any); !isObj {
				missing = append(missing, f.Name)
			}
		}
	}
	return missing
}

func emptyList(v any) bool {
	switch list := v.(type) {
	case []any:
		return len(list) == 0
	case []string:
		return len(list) == 0
	}
	return false
}
