// Package event holds the decision-event data model and the pure functions
// that operate on payloads: the per-type schema registry, the deep-merge
// engine and the missing-field calculator. Nothing in this package does I/O.
package event

import "time"

// Type is the closed set of decision-event kinds.
type Type string

const (
	Initiate     Type = "INITIATE"
	ThesisUpdate Type = "THESIS_UPDATE"
	RiskNote     Type = "RISK_NOTE"
	Resize       Type = "RESIZE"
	TickerRule   Type = "TICKER_RULE"
	PostMortem   Type = "POST_MORTEM"
)

// Types returns the known event types in declaration order.
func Types() []Type {
	return []Type{Initiate, ThesisUpdate, RiskNote, Resize, TickerRule, PostMortem}
}

// Known reports whether t is a member of the closed event-type set.
func Known(t Type) bool {
	_, ok := registry[t]
	return ok
}

// Status of an event. FINAL is terminal: a finalized event is never mutated.
type Status string

const (
	StatusDraft Status = "DRAFT"
	StatusFinal Status = "FINAL"
)

// Event is one structured decision record attributed to a case.
//
// EventTs is the timestamp the event is logically attributed to; callers may
// backdate or future-date it. CreatedAt and UpdatedAt are bookkeeping.
type Event struct {
	ID        string         `json:"id"`
	CaseID    string         `json:"case_id"`
	EventTs   time.Time      `json:"event_ts"`
	Type      Type           `json:"event_type"`
	Payload   map[string]any `json:"payload"`
	Status    Status         `json:"status"`
	UpdatedAt time.Time      `json:"updated_at"`
	CreatedAt time.Time      `json:"created_at"`
}
