// Package gate is the deterministic layer between free-text interpretation
// and any state mutation. Whatever the interpretation oracle claims, nothing
// reaches the lifecycle controller without passing the allowlist checks
// here. Pure computation, safe for concurrent use.
package gate

// ActionType is the closed vocabulary of commands an interpretation may
// propose. The system never infers intent beyond it.
type ActionType string

const (
	ActionSetContext    ActionType = "SET_CONTEXT"
	ActionStartEvent    ActionType = "START_EVENT"
	ActionAnswerField   ActionType = "ANSWER_FIELD"
	ActionFinalizeDraft ActionType = "FINALIZE_DRAFT"
	ActionShowEvents    ActionType = "SHOW_EVENTS"
	ActionShowDraft     ActionType = "SHOW_DRAFT"
	ActionCancel        ActionType = "CANCEL"
)

// Action is a candidate command produced by the untrusted interpretation
// step. Pointer fields mirror the JSON envelope's nullable slots.
type Action struct {
	Type        ActionType     `json:"type"`
	Ticker      *string        `json:"ticker"`
	EventType   *string        `json:"event_type"`
	Field       *string        `json:"field"`
	AnswerText  *string        `json:"answer_text"`
	SeedPayload map[string]any `json:"seed_payload"`
}

// Mode of an interpretation response.
type Mode string

const (
	ModeExecute Mode = "EXECUTE"
	ModeClarify Mode = "CLARIFY"
	ModeNoop    Mode = "NOOP"
)

// Choice is one gated option inside a clarification.
type Choice struct {
	Label  string  `json:"label"`
	Action *Action `json:"action"`
}

// Clarify asks the user to disambiguate between 2-5 candidate actions.
type Clarify struct {
	Question string   `json:"question"`
	Choices  []Choice `json:"choices"`
}

// Response is the interpretation envelope, both as returned by the oracle
// (untrusted) and as emitted by the gate (sanitized).
type Response struct {
	Mode       Mode     `json:"mode"`
	Confidence float64  `json:"confidence"`
	Action     *Action  `json:"action"`
	Clarify    *Clarify `json:"clarify"`
	Message    *string  `json:"message"`
}

// Context is what the session knows for certain, independent of the oracle:
// the tickers literally present in the user's text, the field currently
// being solicited (if any), and the fields the session considers answerable.
type Context struct {
	// AllowedTickers are explicit uppercase tokens from the user's literal
	// text. Company names are never resolved to tickers.
	AllowedTickers []string

	// PendingField, when set, is the only field an ANSWER_FIELD action may
	// name.
	PendingField string

	// AnswerFields, when non-nil, lists the fields currently answerable.
	// Nil means no field answer is solicited at all.
	AnswerFields []string
}

func strptr(s string) *string { return &s }
