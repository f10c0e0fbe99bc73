package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInitiate() map[string]any {
	return map[string]any{
		"direction":             "LONG",
		"horizon_days":          30,
		"entry_thesis":          "x",
		"key_drivers":           []any{"a"},
		"key_risks":             []any{"b"},
		"invalidation_triggers": []any{"c"},
		"conviction":            60,
		"position_intent_pct":   2.5,
	}
}

func validThesisUpdate() map[string]any {
	return map[string]any{
		"what_changed":     "FUNDAMENTALS",
		"update_summary":   "guidance raised",
		"drivers_delta":    map[string]any{"add": []any{"pricing power"}, "remove": []any{}},
		"risks_delta":      map[string]any{"add": []any{}, "remove": []any{}},
		"triggers_delta":   map[string]any{"add": []any{}, "remove": []any{}},
		"conviction_delta": 5,
		"confidence":       0.8,
	}
}

func TestValidateInitiateSuccess(t *testing.T) {
	t.Parallel()
	assert.NoError(t, Validate(Initiate, validInitiate()))
}

func TestValidateInitiateConvictionOutOfRange(t *testing.T) {
	t.Parallel()

	payload := validInitiate()
	payload["conviction"] = 150

	err := Validate(Initiate, payload)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "INITIATE.conviction", verr.Field)
	assert.Contains(t, verr.Reason, "0..100")
}

func TestValidateTotalPerType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		typ       Type
		mutate    func(map[string]any)
		base      func() map[string]any
		wantField string
	}{
		{
			name: "initiate bad direction",
			typ:  Initiate, base: validInitiate,
			mutate:    func(p map[string]any) { p["direction"] = "SIDEWAYS" },
			wantField: "INITIATE.direction",
		},
		{
			name: "initiate horizon_days must be integer",
			typ:  Initiate, base: validInitiate,
			mutate:    func(p map[string]any) { p["horizon_days"] = 30.5 },
			wantField: "INITIATE.horizon_days",
		},
		{
			name: "initiate drivers must be string list",
			typ:  Initiate, base: validInitiate,
			mutate:    func(p map[string]any) { p["key_drivers"] = []any{"a", 2.0} },
			wantField: "INITIATE.key_drivers",
		},
		{
			name: "initiate position_intent_pct null is valid",
			typ:  Initiate, base: validInitiate,
			mutate: func(p map[string]any) { p["position_intent_pct"] = nil },
		},
		{
			name: "thesis update valid",
			typ:  ThesisUpdate, base: validThesisUpdate,
			mutate: func(p map[string]any) {},
		},
		{
			name: "thesis update delta missing remove",
			typ:  ThesisUpdate, base: validThesisUpdate,
			mutate:    func(p map[string]any) { p["risks_delta"] = map[string]any{"add": []any{}} },
			wantField: "THESIS_UPDATE.risks_delta",
		},
		{
			name: "thesis update conviction_delta out of range",
			typ:  ThesisUpdate, base: validThesisUpdate,
			mutate:    func(p map[string]any) { p["conviction_delta"] = -21 },
			wantField: "THESIS_UPDATE.conviction_delta",
		},
		{
			name: "thesis update confidence out of range",
			typ:  ThesisUpdate, base: validThesisUpdate,
			mutate:    func(p map[string]any) { p["confidence"] = 1.2 },
			wantField: "THESIS_UPDATE.confidence",
		},
		{
			name: "risk note valid with null due_by",
			typ:  RiskNote,
			base: func() map[string]any {
				return map[string]any{
					"risk_type": "EARNINGS", "severity": "HIGH",
					"note": "print in 5 days", "action": "HEDGE", "due_by": nil,
				}
			},
			mutate: func(p map[string]any) {},
		},
		{
			name: "risk note bad action",
			typ:  RiskNote,
			base: func() map[string]any {
				return map[string]any{
					"risk_type": "EARNINGS", "severity": "HIGH",
					"note": "n", "action": "PANIC", "due_by": nil,
				}
			},
			mutate:    func(p map[string]any) {},
			wantField: "RISK_NOTE.action",
		},
		{
			name: "resize valid with null from_pct",
			typ:  Resize,
			base: func() map[string]any {
				return map[string]any{
					"from_pct": nil, "to_pct": 3.0, "reason": "RISK", "rationale": "vol spike",
					"constraints": map[string]any{"adv_cap_binding": false, "gross_cap_binding": false, "net_cap_binding": true},
				}
			},
			mutate: func(p map[string]any) {},
		},
		{
			name: "resize constraints flag must be boolean",
			typ:  Resize,
			base: func() map[string]any {
				return map[string]any{
					"from_pct": 1.0, "to_pct": 3.0, "reason": "RISK", "rationale": "r",
					"constraints": map[string]any{"adv_cap_binding": "no", "gross_cap_binding": false, "net_cap_binding": true},
				}
			},
			mutate:    func(p map[string]any) {},
			wantField: "RESIZE.constraints",
		},
		{
			name: "ticker rule valid",
			typ:  TickerRule,
			base: func() map[string]any {
				return map[string]any{
					"ticker": "AAPL", "rule_text": "no adds before earnings",
					"tags": []any{"earnings"}, "status": "ACTIVE",
				}
			},
			mutate: func(p map[string]any) {},
		},
		{
			name: "ticker rule bad status",
			typ:  TickerRule,
			base: func() map[string]any {
				return map[string]any{
					"ticker": "AAPL", "rule_text": "r", "tags": []any{}, "status": "PAUSED",
				}
			},
			mutate:    func(p map[string]any) {},
			wantField: "TICKER_RULE.status",
		},
		{
			name: "post mortem valid with null lesson",
			typ:  PostMortem,
			base: func() map[string]any {
				return map[string]any{
					"outcome": "WIN", "thesis_outcome": "CONFIRMED", "process_adherence": "HIGH",
					"primary_reason": "THESIS", "what_worked": "patience", "what_failed": "sizing",
					"rule_violations": []any{}, "lesson": nil,
				}
			},
			mutate: func(p map[string]any) {},
		},
		{
			name: "post mortem lesson must be non-empty when present",
			typ:  PostMortem,
			base: func() map[string]any {
				return map[string]any{
					"outcome": "WIN", "thesis_outcome": "CONFIRMED", "process_adherence": "HIGH",
					"primary_reason": "THESIS", "what_worked": "w", "what_failed": "f",
					"rule_violations": []any{}, "lesson": "   ",
				}
			},
			mutate:    func(p map[string]any) {},
			wantField: "POST_MORTEM.lesson",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			payload := tt.base()
			tt.mutate(payload)
			err := Validate(tt.typ, payload)

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestValidateMissingKey(t *testing.T) {
	t.Parallel()

	payload := validInitiate()
	delete(payload, "entry_thesis")

	var verr *ValidationError
	require.ErrorAs(t, Validate(Initiate, payload), &verr)
	assert.Equal(t, "INITIATE.entry_thesis", verr.Field)
	assert.Contains(t, verr.Reason, "required")
}

func TestValidateUnknownType(t *testing.T) {
	t.Parallel()

	var verr *ValidationError
	require.ErrorAs(t, Validate(Type("BOGUS"), map[string]any{}), &verr)
	assert.Equal(t, "event_type", verr.Field)
}

func TestValidateAcceptsJSONDecodedNumbers(t *testing.T) {
	t.Parallel()

	// encoding/json hands back float64 for every number.
	payload := validInitiate()
	payload["horizon_days"] = 30.0
	payload["conviction"] = 60.0
	assert.NoError(t, Validate(Initiate, payload))
}
