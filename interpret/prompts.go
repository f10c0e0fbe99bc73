package interpret

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/decisionlog/event"
)

// Prompt builders for the oracle calls. The prompts constrain the oracle's
// vocabulary; the schemas and the gate enforce it.

func interpretSystemPrompt(promptVersion string) string {
	return "You are a strict command interpreter for a portfolio journaling console. " +
		"You MUST output JSON matching the schema exactly. " +
		"You MUST NOT introduce or guess tickers. " +
		"You may only use tickers from allowed_tickers. " +
		"If intent is ambiguous, return CLARIFY with 2-5 choices. " +
		"You MUST NOT provide recommendations, predictions, or advice. " +
		"Prompt version: " + promptVersion + "."
}

func interpretUserPrompt(text string, allowedTickers []string, pendingField string, missingFields []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "text: %s\n", text)
	fmt.Fprintf(&b, "allowed_tickers: %v\n", allowedTickers)
	fmt.Fprintf(&b, "pending_field: %s\n", pendingField)
	fmt.Fprintf(&b, "missing_fields: %v\n", missingFields)
	b.WriteString("Interpret into one safe intent.\n")
	b.WriteString("If multiple tickers appear and context is unclear, ask CLARIFY.\n")
	b.WriteString("If user is answering a pending field, choose ANSWER_FIELD.\n")
	b.WriteString("If user wants to switch tickers, choose SET_CONTEXT.\n")
	b.WriteString("If user wants to log an event, choose START_EVENT with minimal seed_payload (allowed keys only).\n")
	b.WriteString("Do not invent event payload structure.")
	return b.String()
}

func summarySystemPrompt(promptVersion string) string {
	return "You are a portfolio journaling assistant. " +
		"You must not introduce new facts, predictions, causal claims, or recommendations. " +
		"You may only restate and format the provided event payload. " +
		"Never use the words: should, recommend, buy, sell, likely, expect, forecast. " +
		"Prompt version: " + promptVersion + "."
}

func summaryUserPrompt(t event.Type, payload map[string]any) string {
	return fmt.Sprintf(
		"Produce a concise summary for a chat transcript.\nevent_type: %s\npayload: %v\nReturn JSON strictly matching the schema.",
		t, payload)
}

func fieldPromptsSystemPrompt(promptVersion string) string {
	return "You generate short, clear prompts for completing a structured portfolio journal event. " +
		"No advice, no predictions, no recommendations, no new facts. " +
		"Return JSON strictly matching the schema. " +
		"Prompt version: " + promptVersion + "."
}

func fieldPromptsUserPrompt(t event.Type, missing []string) string {
	return fmt.Sprintf(
		"event_type: %s\nmissing_fields: %v\nWrite one short prompt per missing field.",
		t, missing)
}
