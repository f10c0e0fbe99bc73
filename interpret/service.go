package interpret

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rustyeddy/decisionlog/event"
	"github.com/rustyeddy/decisionlog/gate"
)

// Service runs free-text requests through the oracle and the deterministic
// gate. The oracle never executes anything; every response it produces is
// validated here before a caller may act on it.
type Service struct {
	oracle        Oracle
	gate          *gate.Gate
	promptVersion string
	log           *slog.Logger
}

func NewService(oracle Oracle, g *gate.Gate, promptVersion string) *Service {
	if g == nil {
		g = gate.New()
	}
	if promptVersion == "" {
		promptVersion = "dev"
	}
	return &Service{oracle: oracle, gate: g, promptVersion: promptVersion, log: slog.Default()}
}

// Request is one free-text interpretation request plus session context.
type Request struct {
	Text string

	// AllowedTickers overrides extraction from Text when non-nil. Entries
	// not matching the strict ticker-token shape are dropped either way.
	AllowedTickers []string

	// PendingField is the field the session is currently soliciting, if any.
	PendingField string

	// MissingFields lists the fields currently answerable; nil means no
	// field answer is solicited.
	MissingFields []string
}

func (r Request) sessionContext() (gate.Context, bool) {
	tickers := r.AllowedTickers
	if tickers == nil {
		tickers = gate.ExtractTickers(r.Text)
	}
	tickers = gate.FilterTickerTokens(tickers)
	return gate.Context{
		AllowedTickers: tickers,
		PendingField:   r.PendingField,
		AnswerFields:   r.MissingFields,
	}, len(tickers) > 0
}

// Interpret translates free text into a gated response. Empty text yields
// the default no-op; text without an explicit uppercase ticker yields the
// fixed clarification, without consulting the oracle at all.
func (s *Service) Interpret(ctx context.Context, req Request) (gate.Response, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return gate.DefaultNoop(), nil
	}

	sess, haveTickers := req.sessionContext()
	if !haveTickers {
		return gate.NoTickerClarify(), nil
	}

	system := interpretSystemPrompt(s.promptVersion)
	user := interpretUserPrompt(text, sess.AllowedTickers, sess.PendingField, sess.AnswerFields)

	raw, err := s.oracle.Complete(ctx, system, user, []byte(InterpretSchemaJSON))
	if err != nil {
		return gate.Response{}, fmt.Errorf("interpret: oracle: %w", err)
	}

	return s.GateEnvelope(req, raw), nil
}

// GateEnvelope validates a raw interpretation envelope and runs it through
// the gate. Useful on its own for gating envelopes produced out of band;
// malformed input degrades to the default no-op rather than erroring.
func (s *Service) GateEnvelope(req Request, raw []byte) gate.Response {
	sess, haveTickers := req.sessionContext()
	if !haveTickers {
		return gate.NoTickerClarify()
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		s.log.Warn("oracle returned non-JSON envelope", "err", err)
		return gate.DefaultNoop()
	}
	if err := interpretSchema.Validate(decoded); err != nil {
		s.log.Warn("oracle envelope failed schema validation", "err", err)
		return gate.DefaultNoop()
	}

	var resp gate.Response
	if err := json.Unmarshal(raw, &resp); err != nil {
		return gate.DefaultNoop()
	}
	return s.gate.Process(sess, resp)
}

// Summary is a non-authoritative restatement of one event for a chat
// transcript.
type Summary struct {
	Headline string   `json:"headline"`
	Bullets  []string `json:"bullets"`
	Tags     []string `json:"tags"`
}

// Summarize asks the oracle for a headline and bullets grounded strictly in
// the event payload. Guardrail trips and invalid output fall back to the
// deterministic summary.
func (s *Service) Summarize(ctx context.Context, ev event.Event) (Summary, error) {
	system := summarySystemPrompt(s.promptVersion)
	user := summaryUserPrompt(ev.Type, ev.Payload)

	raw, err := s.oracle.Complete(ctx, system, user, []byte(SummarySchemaJSON))
	if err != nil {
		return Summary{}, fmt.Errorf("interpret: oracle: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return FallbackSummary(ev.Type, ev.Payload), nil
	}
	if err := summarySchema.Validate(decoded); err != nil {
		return FallbackSummary(ev.Type, ev.Payload), nil
	}
	if ContainsForbiddenText(decoded) {
		s.log.Warn("oracle summary tripped guardrails", "event_id", ev.ID)
		return FallbackSummary(ev.Type, ev.Payload), nil
	}

	var out Summary
	if err := json.Unmarshal(raw, &out); err != nil {
		return FallbackSummary(ev.Type, ev.Payload), nil
	}

	out.Headline = clamp(out.Headline, 120)
	if len(out.Bullets) > 6 {
		out.Bullets = out.Bullets[:6]
	}
	for i, b := range out.Bullets {
		out.Bullets[i] = clamp(b, 120)
	}
	if len(out.Tags) > 8 {
		out.Tags = out.Tags[:8]
	}
	for i, t := range out.Tags {
		out.Tags[i] = clamp(t, 32)
	}
	if out.Bullets == nil {
		out.Bullets = []string{}
	}
	if out.Tags == nil {
		out.Tags = []string{}
	}
	return out, nil
}

// FieldPrompt is a friendly question for one missing field.
type FieldPrompt struct {
	Field  string `json:"field"`
	Prompt string `json:"prompt"`
}

// FieldPrompts asks the oracle for one short prompt per missing field,
// falling back to deterministic "Provide TYPE.field" prompts. Output order
// always matches the missing-field order.
func (s *Service) FieldPrompts(ctx context.Context, t event.Type, missing []string) ([]FieldPrompt, error) {
	fallback := func() []FieldPrompt {
		out := make([]FieldPrompt, 0, len(missing))
		for _, f := range missing {
			out = append(out, FieldPrompt{Field: f, Prompt: fmt.Sprintf("Provide %s.%s", t, f)})
		}
		return out
	}

	raw, err := s.oracle.Complete(ctx, fieldPromptsSystemPrompt(s.promptVersion), fieldPromptsUserPrompt(t, missing), []byte(FieldPromptsSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("interpret: oracle: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return fallback(), nil
	}
	if err := fieldPromptsSchema.Validate(decoded); err != nil {
		return fallback(), nil
	}
	if ContainsForbiddenText(decoded) {
		return fallback(), nil
	}

	var parsed struct {
		Prompts []FieldPrompt `json:"prompts"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fallback(), nil
	}

	byField := map[string]string{}
	for _, p := range parsed.Prompts {
		byField[p.Field] = p.Prompt
	}

	out := make([]FieldPrompt, 0, len(missing))
	for _, f := range missing {
		prompt := byField[f]
		if prompt == "" {
			prompt = fmt.Sprintf("Provide %s.%s", t, f)
		}
		out = append(out, FieldPrompt{Field: f, Prompt: clamp(prompt, 160)})
	}
	return out, nil
}
