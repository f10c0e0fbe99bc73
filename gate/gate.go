package gate

import (
	"fmt"

	"github.com/rustyeddy/decisionlog/event"
)

// Confidence hysteresis: an EXECUTE below ExecuteMin is downgraded to
// CLARIFY, and a CLARIFY below ClarifyMin collapses to the default no-op.
// Low-confidence free text can therefore never cause a mutation.
const (
	DefaultExecuteMin = 0.80
	DefaultClarifyMin = 0.40
)

const noopMessage = "Use an uppercase ticker (e.g., AAPL) and commands like: " +
	"ticker AAPL, long AAPL, update:, risk:, size:, rule:, post:."

const (
	maxQuestionLen = 200
	maxLabelLen    = 60
	maxMessageLen  = 200
	maxChoices     = 5
	minChoices     = 2
)

// Gate validates and sanitizes interpretation responses against the session
// context. The zero value is not usable; construct with New.
type Gate struct {
	ExecuteMin float64
	ClarifyMin float64
}

func New() *Gate {
	return &Gate{ExecuteMin: DefaultExecuteMin, ClarifyMin: DefaultClarifyMin}
}

// DefaultNoop is the safe degraded response. The gate never raises on
// malformed or ambiguous input; its input is adversarial by construction.
func DefaultNoop() Response {
	return Response{
		Mode:       ModeNoop,
		Confidence: 0,
		Message:    strptr(noopMessage),
	}
}

// NoTickerClarify is returned when the literal text contains no strict
// ticker token. The gate refuses to process further rather than guess.
func NoTickerClarify() Response {
	return Response{
		Mode:       ModeClarify,
		Confidence: 0.6,
		Clarify: &Clarify{
			Question: "Enter an uppercase ticker (e.g., AAPL). Company names are not supported.",
			Choices: []Choice{
				{Label: "OK", Action: &Action{Type: ActionCancel}},
				{Label: "Show commands", Action: &Action{Type: ActionShowDraft}},
			},
		},
	}
}

// Admit runs the ordered predicate pipeline over a single action and
// reports the first rejection reason, if any. The order is fixed: ticker
// gate, event-type gate, field gate.
func (g *Gate) Admit(sess Context, a *Action) error {
	for _, check := range []func(Context, *Action) error{
		tickerGate,
		typeGate,
		fieldGate,
	} {
		if err := check(sess, a); err != nil {
			return err
		}
	}
	return nil
}

// tickerGate: an action naming a ticker must name one explicitly present in
// the user's literal text.
func tickerGate(sess Context, a *Action) error {
	if a.Ticker == nil {
		return nil
	}
	for _, t := range sess.AllowedTickers {
		if *a.Ticker == t {
			return nil
		}
	}
	return fmt.Errorf("ticker %q not in allowed set", *a.Ticker)
}

// typeGate: an action naming an event type must name one of the six known
// types. The oracle's own schema enums are not trusted.
func typeGate(_ Context, a *Action) error {
	if a.EventType == nil {
		return nil
	}
	if !event.Known(event.Type(*a.EventType)) {
		return fmt.Errorf("unknown event type %q", *a.EventType)
	}
	return nil
}

// fieldGate: an ANSWER_FIELD action must name exactly the pending field, or
// failing that a member of the answerable set. No pending context means no
// field answer is currently solicited.
func fieldGate(sess Context, a *Action) error {
	if a.Type != ActionAnswerField {
		return nil
	}
	if a.Field == nil || *a.Field == "" {
		return fmt.Errorf("answer action names no field")
	}
	if sess.PendingField != "" {
		if *a.Field != sess.PendingField {
			return fmt.Errorf("field %q does not match pending field %q", *a.Field, sess.PendingField)
		}
		return nil
	}
	if sess.AnswerFields != nil {
		for _, f := range sess.AnswerFields {
			if *a.Field == f {
				return nil
			}
		}
		return fmt.Errorf("field %q not answerable", *a.Field)
	}
	return fmt.Errorf("no field answer is solicited")
}

// Process applies the confidence policy, sanitizes seed payloads and gates
// every action in the response. Anything that fails degrades toward the
// default no-op; Process never returns an error.
func (g *Gate) Process(sess Context, raw Response) Response {
	mode := raw.Mode
	conf := raw.Confidence

	switch mode {
	case ModeExecute, ModeClarify, ModeNoop:
	default:
		return DefaultNoop()
	}

	if mode == ModeExecute && conf < g.ExecuteMin {
		mode = ModeClarify
	}
	if mode == ModeClarify && conf < g.ClarifyMin {
		return DefaultNoop()
	}

	switch mode {
	case ModeNoop:
		msg := noopMessage
		if raw.Message != nil && *raw.Message != "" {
			msg = clamp(*raw.Message, maxMessageLen)
		}
		return Response{Mode: ModeNoop, Confidence: conf, Message: strptr(msg)}

	case ModeExecute:
		a := raw.Action
		if a == nil {
			return DefaultNoop()
		}
		sanitizeAction(a)
		if err := g.Admit(sess, a); err != nil {
			return DefaultNoop()
		}
		return Response{Mode: ModeExecute, Confidence: conf, Action: a}

	default: // ModeClarify
		cl := raw.Clarify
		if cl == nil || cl.Question == "" {
			return DefaultNoop()
		}
		if len(cl.Choices) < minChoices || len(cl.Choices) > maxChoices {
			return DefaultNoop()
		}

		var kept []Choice
		for _, ch := range cl.Choices {
			if ch.Label == "" || ch.Action == nil {
				continue
			}
			sanitizeAction(ch.Action)
			if err := g.Admit(sess, ch.Action); err != nil {
				continue
			}
			kept = append(kept, Choice{Label: clamp(ch.Label, maxLabelLen), Action: ch.Action})
		}
		if len(kept) < minChoices {
			return DefaultNoop()
		}
		if len(kept) > maxChoices {
			kept = kept[:maxChoices]
		}
		return Response{
			Mode:       ModeClarify,
			Confidence: conf,
			Clarify:    &Clarify{Question: clamp(cl.Question, maxQuestionLen), Choices: kept},
		}
	}
}

func sanitizeAction(a *Action) {
	et := ""
	if a.EventType != nil {
		et = *a.EventType
	}
	a.SeedPayload = SanitizeSeed(et, a.SeedPayload)
}

func clamp(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
