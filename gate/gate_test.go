package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execResponse(a *Action, conf float64) Response {
	return Response{Mode: ModeExecute, Confidence: conf, Action: a}
}

func TestTickerRejection(t *testing.T) {
	t.Parallel()

	g := New()
	sess := Context{AllowedTickers: []string{"AAPL"}}
	a := &Action{Type: ActionStartEvent, Ticker: strptr("MSFT"), EventType: strptr("RISK_NOTE")}

	got := g.Process(sess, execResponse(a, 0.99))
	assert.Equal(t, ModeNoop, got.Mode)
	assert.Nil(t, got.Action)
}

func TestTickerAccepted(t *testing.T) {
	t.Parallel()

	g := New()
	sess := Context{AllowedTickers: []string{"AAPL", "MSFT"}}
	a := &Action{Type: ActionSetContext, Ticker: strptr("MSFT")}

	got := g.Process(sess, execResponse(a, 0.95))
	require.Equal(t, ModeExecute, got.Mode)
	assert.Equal(t, "MSFT", *got.Action.Ticker)
}

func TestUnknownEventTypeRejected(t *testing.T) {
	t.Parallel()

	g := New()
	sess := Context{AllowedTickers: []string{"AAPL"}}
	a := &Action{Type: ActionStartEvent, Ticker: strptr("AAPL"), EventType: strptr("MOON_SHOT")}

	got := g.Process(sess, execResponse(a, 0.99))
	assert.Equal(t, ModeNoop, got.Mode)
}

func TestFieldGate(t *testing.T) {
	t.Parallel()

	g := New()

	tests := []struct {
		name     string
		sess     Context
		field    *string
		wantMode Mode
	}{
		{
			name:     "matches pending field",
			sess:     Context{AllowedTickers: []string{"AAPL"}, PendingField: "note"},
			field:    strptr("note"),
			wantMode: ModeExecute,
		},
		{
			name:     "pending field mismatch",
			sess:     Context{AllowedTickers: []string{"AAPL"}, PendingField: "note"},
			field:    strptr("severity"),
			wantMode: ModeNoop,
		},
		{
			name:     "member of answerable set",
			sess:     Context{AllowedTickers: []string{"AAPL"}, AnswerFields: []string{"note", "severity"}},
			field:    strptr("severity"),
			wantMode: ModeExecute,
		},
		{
			name:     "not in answerable set",
			sess:     Context{AllowedTickers: []string{"AAPL"}, AnswerFields: []string{"note"}},
			field:    strptr("severity"),
			wantMode: ModeNoop,
		},
		{
			name:     "no pending context at all",
			sess:     Context{AllowedTickers: []string{"AAPL"}},
			field:    strptr("note"),
			wantMode: ModeNoop,
		},
		{
			name:     "no field named",
			sess:     Context{AllowedTickers: []string{"AAPL"}, PendingField: "note"},
			field:    nil,
			wantMode: ModeNoop,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			a := &Action{Type: ActionAnswerField, Field: tt.field, AnswerText: strptr("x")}
			got := g.Process(tt.sess, execResponse(a, 0.95))
			assert.Equal(t, tt.wantMode, got.Mode)
		})
	}
}

func TestConfidenceDowngrade(t *testing.T) {
	t.Parallel()

	g := New()
	sess := Context{AllowedTickers: []string{"AAPL"}}

	// EXECUTE at 0.5 downgrades to CLARIFY; with no clarify payload the
	// whole response collapses to the default no-op.
	a := &Action{Type: ActionStartEvent, Ticker: strptr("AAPL"), EventType: strptr("RISK_NOTE")}
	got := g.Process(sess, execResponse(a, 0.5))
	assert.Equal(t, ModeNoop, got.Mode)

	// CLARIFY below 0.40 collapses outright.
	low := Response{Mode: ModeClarify, Confidence: 0.2, Clarify: &Clarify{
		Question: "which?",
		Choices: []Choice{
			{Label: "a", Action: &Action{Type: ActionCancel}},
			{Label: "b", Action: &Action{Type: ActionCancel}},
		},
	}}
	got = g.Process(sess, low)
	assert.Equal(t, ModeNoop, got.Mode)
}

func TestSeedSanitizedOnExecute(t *testing.T) {
	t.Parallel()

	g := New()
	sess := Context{AllowedTickers: []string{"AAPL"}}
	a := &Action{
		Type:        ActionStartEvent,
		Ticker:      strptr("AAPL"),
		EventType:   strptr("THESIS_UPDATE"),
		SeedPayload: map[string]any{"update_summary": "ok", "conviction_delta": 999.0},
	}

	got := g.Process(sess, execResponse(a, 0.9))
	require.Equal(t, ModeExecute, got.Mode)
	assert.Equal(t, map[string]any{"update_summary": "ok"}, got.Action.SeedPayload)
}

func TestClarifyChoiceFiltering(t *testing.T) {
	t.Parallel()

	g := New()
	sess := Context{AllowedTickers: []string{"AAPL"}}

	resp := Response{Mode: ModeClarify, Confidence: 0.7, Clarify: &Clarify{
		Question: "Which did you mean?",
		Choices: []Choice{
			{Label: "start risk note", Action: &Action{Type: ActionStartEvent, Ticker: strptr("AAPL"), EventType: strptr("RISK_NOTE")}},
			{Label: "rogue ticker", Action: &Action{Type: ActionStartEvent, Ticker: strptr("MSFT"), EventType: strptr("RISK_NOTE")}},
			{Label: "cancel", Action: &Action{Type: ActionCancel}},
		},
	}}

	got := g.Process(sess, resp)
	require.Equal(t, ModeClarify, got.Mode)
	require.NotNil(t, got.Clarify)
	require.Len(t, got.Clarify.Choices, 2)
	assert.Equal(t, "start risk note", got.Clarify.Choices[0].Label)
	assert.Equal(t, "cancel", got.Clarify.Choices[1].Label)
}

func TestClarifyCollapsesBelowTwoValidChoices(t *testing.T) {
	t.Parallel()

	g := New()
	sess := Context{AllowedTickers: []string{"AAPL"}}

	resp := Response{Mode: ModeClarify, Confidence: 0.7, Clarify: &Clarify{
		Question: "Which?",
		Choices: []Choice{
			{Label: "ok", Action: &Action{Type: ActionCancel}},
			{Label: "rogue", Action: &Action{Type: ActionStartEvent, Ticker: strptr("MSFT")}},
		},
	}}

	got := g.Process(sess, resp)
	assert.Equal(t, ModeNoop, got.Mode)
}

func TestClarifyChoiceCountBounds(t *testing.T) {
	t.Parallel()

	g := New()
	sess := Context{AllowedTickers: []string{"AAPL"}}

	one := Response{Mode: ModeClarify, Confidence: 0.7, Clarify: &Clarify{
		Question: "Which?",
		Choices:  []Choice{{Label: "only", Action: &Action{Type: ActionCancel}}},
	}}
	assert.Equal(t, ModeNoop, g.Process(sess, one).Mode)

	var six []Choice
	for i := 0; i < 6; i++ {
		six = append(six, Choice{Label: "c", Action: &Action{Type: ActionCancel}})
	}
	over := Response{Mode: ModeClarify, Confidence: 0.7, Clarify: &Clarify{Question: "Which?", Choices: six}}
	assert.Equal(t, ModeNoop, g.Process(sess, over).Mode)
}

func TestInvalidModeCollapses(t *testing.T) {
	t.Parallel()

	g := New()
	got := g.Process(Context{}, Response{Mode: Mode("SHRUG"), Confidence: 1})
	assert.Equal(t, ModeNoop, got.Mode)
	require.NotNil(t, got.Message)
	assert.Contains(t, *got.Message, "uppercase ticker")
}

func TestNoopPreservesMessageClamped(t *testing.T) {
	t.Parallel()

	g := New()
	long := make([]byte, 300)
	for i := range long {
		long[i] = 'a'
	}
	msg := string(long)

	got := g.Process(Context{}, Response{Mode: ModeNoop, Confidence: 0.9, Message: &msg})
	require.NotNil(t, got.Message)
	assert.Len(t, *got.Message, 200)
}

func TestExecuteWithoutActionCollapses(t *testing.T) {
	t.Parallel()

	g := New()
	got := g.Process(Context{AllowedTickers: []string{"AAPL"}}, Response{Mode: ModeExecute, Confidence: 0.95})
	assert.Equal(t, ModeNoop, got.Mode)
}

func TestNoTickerClarifyShape(t *testing.T) {
	t.Parallel()

	got := NoTickerClarify()
	assert.Equal(t, ModeClarify, got.Mode)
	require.NotNil(t, got.Clarify)
	assert.Len(t, got.Clarify.Choices, 2)
	assert.Contains(t, got.Clarify.Question, "uppercase ticker")
}
