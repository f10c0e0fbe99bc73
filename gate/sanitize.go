package gate

import "github.com/rustyeddy/decisionlog/event"

// Per event type, the only payload keys the interpretation step may seed.
// These are the human-narrative fields; everything structured must come in
// through an explicit patch. INITIATE permits no seeding at all; its fields
// are too consequential to take from free text.
var seedAllowlist = map[event.Type][]string{
	event.Initiate:     {},
	event.ThesisUpdate: {"update_summary"},
	event.RiskNote:     {"note"},
	event.Resize:       {"rationale"},
	event.TickerRule:   {"rule_text"},
	event.PostMortem:   {"lesson"},
}

// SanitizeSeed returns the subset of seed allowed for the event type,
// silently dropping every other key. Returns nil when nothing survives or
// the event type is unknown.
func SanitizeSeed(eventType string, seed map[string]any) map[string]any {
	if len(seed) == 0 || eventType == "" {
		return nil
	}
	allowed, ok := seedAllowlist[event.Type(eventType)]
	if !ok || len(allowed) == 0 {
		return nil
	}

	out := map[string]any{}
	for _, k := range allowed {
		if v, present := seed[k]; present {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
