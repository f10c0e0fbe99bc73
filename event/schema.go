package event

// The schema registry is the single source of truth for what a complete,
// valid payload of each event type looks like. Field order is significant:
// it is the order missing fields are reported and prompts are generated.

// Field is one required payload key and its finalize-time constraint.
type Field struct {
	Name string

	// Object marks fields whose value must structurally be a JSON object
	// (the delta and constraints fields). The completeness calculator only
	// checks object-ness; Check still verifies the inner shape at finalize.
	Object bool

	Check func(v any) error
}

// TypeSchema is the ordered required-field list for one event type.
type TypeSchema struct {
	Fields []Field
}

// Allowed enum values per constrained field.
var (
	Directions        = []string{"LONG", "SHORT"}
	WhatChangedValues = []string{"FUNDAMENTALS", "VALUATION", "TECHNICALS", "POSITIONING", "MACRO", "DATA"}
	RiskTypes         = []string{"DRAWDOWN", "LIQUIDITY", "EARNINGS", "MACRO", "THESIS_BREAK", "POSITIONING", "OTHER"}
	RiskSeverities    = []string{"LOW", "MEDIUM", "HIGH"}
	RiskActions       = []string{"MONITOR", "HEDGE", "REDUCE", "EXIT", "NONE"}
	ResizeReasons     = []string{"RISK", "THESIS", "PRICE", "CONSTRAINTS", "LIQUIDITY", "OTHER"}
	RuleStatuses      = []string{"ACTIVE", "INACTIVE"}
	Outcomes          = []string{"WIN", "LOSS", "FLAT"}
	ThesisOutcomes    = []string{"CONFIRMED", "PARTIALLY_CONFIRMED", "INVALIDATED"}
	AdherenceLevels   = []string{"HIGH", "MEDIUM", "LOW"}
	PrimaryReasons    = []string{"THESIS", "TIMING", "RISK_MGMT", "EXOGENOUS"}
)

var registry = map[Type]TypeSchema{
	Initiate: {Fields: []Field{
		{Name: "direction", Check: enum(Directions...)},
		{Name: "horizon_days", Check: integer},
		{Name: "entry_thesis", Check: nonEmptyString},
		{Name: "key_drivers", Check: stringList},
		{Name: "key_risks", Check: stringList},
		{Name: "invalidation_triggers", Check: stringList},
		{Name: "conviction", Check: intInRange(0, 100)},
		{Name: "position_intent_pct", Check: numberOrNull},
	}},
	ThesisUpdate: {Fields: []Field{
		{Name: "what_changed", Check: enum(WhatChangedValues...)},
		{Name: "update_summary", Check: nonEmptyString},
		{Name: "drivers_delta", Object: true, Check: deltaObject},
		{Name: "risks_delta", Object: true, Check: deltaObject},
		{Name: "triggers_delta", Object: true, Check: deltaObject},
		{Name: "conviction_delta", Check: intInRange(-20, 20)},
		{Name: "confidence", Check: numberInRange(0, 1)},
	}},
	RiskNote: {Fields: []Field{
		{Name: "risk_type", Check: enum(RiskTypes...)},
		{Name: "severity", Check: enum(RiskSeverities...)},
		{Name: "note", Check: nonEmptyString},
		{Name: "action", Check: enum(RiskActions...)},
		{Name: "due_by", Check: stringOrNull},
	}},
	Resize: {Fields: []Field{
		{Name: "from_pct", Check: numberOrNull},
		{Name: "to_pct", Check: number},
		{Name: "reason", Check: enum(ResizeReasons...)},
		{Name: "rationale", Check: nonEmptyString},
		{Name: "constraints", Object: true, Check: constraintsObject("adv_cap_binding", "gross_cap_binding", "net_cap_binding")},
	}},
	TickerRule: {Fields: []Field{
		{Name: "ticker", Check: nonEmptyString},
		{Name: "rule_text", Check: nonEmptyString},
		{Name: "tags", Check: stringList},
		{Name: "status", Check: enum(RuleStatuses...)},
	}},
	PostMortem: {Fields: []Field{
		{Name: "outcome", Check: enum(Outcomes...)},
		{Name: "thesis_outcome", Check: enum(ThesisOutcomes...)},
		{Name: "process_adherence", Check: enum(AdherenceLevels...)},
		{Name: "primary_reason", Check: enum(PrimaryReasons...)},
		{Name: "what_worked", Check: nonEmptyString},
		{Name: "what_failed", Check: nonEmptyString},
		{Name: "rule_violations", Check: stringList},
		{Name: "lesson", Check: nonEmptyStringOrNull},
	}},
}

// RequiredFields returns the declared field names for t, in order.
// Unknown types yield nil.
func RequiredFields(t Type) []string {
	s, ok := registry[t]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		names = append(names, f.Name)
	}
	return names
}
