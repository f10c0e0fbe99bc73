package event

// Merge deep-merges patch into base and returns the result without mutating
// either argument.
//
// Rules:
//   - object + object: merge recursively key by key
//   - a list in the patch replaces the current value entirely
//   - any other patch value (scalar or null) replaces the current value
//
// A nil top-level patch means "no patch" and returns base unchanged; a null
// nested in the patch is a real replacement value.
func Merge(base, patch any) any {
	if patch == nil {
		return base
	}
	return merge(base, patch)
}

func merge(base, patch any) any {
	bm, baseIsObj := base.(map[string]any)
	pm, patchIsObj := patch.(map[string]any)
	if baseIsObj && patchIsObj {
		out := make(map[string]any, len(bm)+len(pm))
		for k, v := range bm {
			out[k] = v
		}
		for k, v := range pm {
			if cur, ok := out[k]; ok {
				out[k] = merge(cur, v)
			} else {
				out[k] = v
			}
		}
		return out
	}
	// Lists and scalars replace; shape errors surface at finalize.
	return patch
}

// MergePayload merges a patch into an event payload, treating a nil payload
// as the empty object.
func MergePayload(payload, patch map[string]any) map[string]any {
	if payload == nil {
		payload = map[string]any{}
	}
	if patch == nil {
		return payload
	}
	return merge(payload, patch).(map[string]any)
}
