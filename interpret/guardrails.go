package interpret

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/decisionlog/event"
)

// Oracle output must never smuggle advice or predictions into the journal.
// Any hit falls back to the deterministic path.
var forbiddenSubstrings = []string{
	"you should",
	"recommend",
	"buy",
	"sell",
	"go long",
	"go short",
	"likely",
	"expect",
	"forecast",
	"outperform",
	"underperform",
}

// ContainsForbiddenText recursively scans every string in a decoded JSON
// value for forbidden phrases.
func ContainsForbiddenText(v any) bool {
	switch val := v.(type) {
	case string:
		s := strings.ToLower(val)
		for _, sub := range forbiddenSubstrings {
			if strings.Contains(s, sub) {
				return true
			}
		}
	case []any:
		for _, el := range val {
			if ContainsForbiddenText(el) {
				return true
			}
		}
	case map[string]any:
		for _, el := range val {
			if ContainsForbiddenText(el) {
				return true
			}
		}
	}
	return false
}

// FallbackSummary is the deterministic, oracle-free summary used whenever
// the oracle's output trips the guardrails or fails validation.
func FallbackSummary(t event.Type, payload map[string]any) Summary {
	headline := string(t)
	var bullets []string

	str := func(key string) string {
		s, _ := payload[key].(string)
		return strings.TrimSpace(s)
	}

	switch t {
	case event.Initiate:
		headline = fmt.Sprintf("%s %s", t, str("direction"))
		bullets = []string{
			fmt.Sprintf("Horizon days: %v", payload["horizon_days"]),
			fmt.Sprintf("Conviction: %v", payload["conviction"]),
			fmt.Sprintf("Position intent %%: %v", payload["position_intent_pct"]),
		}
	case event.ThesisUpdate:
		headline = fmt.Sprintf("%s %s", t, str("what_changed"))
		bullets = []string{clamp(str("update_summary"), 120)}
	case event.RiskNote:
		headline = fmt.Sprintf("%s %s", t, str("risk_type"))
		bullets = []string{clamp(str("note"), 120)}
	case event.Resize:
		bullets = []string{
			fmt.Sprintf("From: %v%%", payload["from_pct"]),
			fmt.Sprintf("To: %v%%", payload["to_pct"]),
			fmt.Sprintf("Reason: %v", payload["reason"]),
		}
	case event.TickerRule:
		bullets = []string{clamp(str("rule_text"), 120)}
	case event.PostMortem:
		headline = fmt.Sprintf("%s %s", t, str("outcome"))
		bullets = []string{str("lesson")}
	}

	kept := make([]string, 0, len(bullets))
	for _, b := range bullets {
		if strings.TrimSpace(b) != "" {
			kept = append(kept, b)
		}
	}
	if len(kept) > 6 {
		kept = kept[:6]
	}
	return Summary{Headline: clamp(strings.TrimSpace(headline), 120), Bullets: kept, Tags: []string{}}
}

func clamp(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
