package interpret

import "github.com/santhosh-tekuri/jsonschema/v5"

// Strict JSON schemas for every oracle call. The oracle is asked to conform
// to these, and its output is validated against them on the way back in;
// conformance is never assumed.

const InterpretSchemaJSON = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "mode": {"type": "string", "enum": ["EXECUTE", "CLARIFY", "NOOP"]},
    "confidence": {"type": "number", "minimum": 0, "maximum": 1},
    "action": {
      "type": ["object", "null"],
      "additionalProperties": false,
      "properties": {
        "type": {
          "type": "string",
          "enum": [
            "SET_CONTEXT",
            "START_EVENT",
            "ANSWER_FIELD",
            "FINALIZE_DRAFT",
            "SHOW_EVENTS",
            "SHOW_DRAFT",
            "CANCEL"
          ]
        },
        "ticker": {"type": ["string", "null"]},
        "event_type": {
          "type": ["string", "null"],
          "enum": [null, "INITIATE", "THESIS_UPDATE", "RISK_NOTE", "RESIZE", "TICKER_RULE", "POST_MORTEM"]
        },
        "field": {"type": ["string", "null"]},
        "answer_text": {"type": ["string", "null"]},
        "seed_payload": {"type": ["object", "null"]}
      },
      "required": ["type", "ticker", "event_type", "field", "answer_text", "seed_payload"]
    },
    "clarify": {
      "type": ["object", "null"],
      "additionalProperties": false,
      "properties": {
        "question": {"type": "string", "minLength": 1, "maxLength": 200},
        "choices": {
          "type": "array",
          "minItems": 2,
          "maxItems": 5,
          "items": {
            "type": "object",
            "additionalProperties": false,
            "properties": {
              "label": {"type": "string", "minLength": 1, "maxLength": 60},
              "action": {"$ref": "#/properties/action"}
            },
            "required": ["label", "action"]
          }
        }
      },
      "required": ["question", "choices"]
    },
    "message": {"type": ["string", "null"], "maxLength": 200}
  },
  "required": ["mode", "confidence", "action", "clarify", "message"]
}`

const SummarySchemaJSON = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "headline": {"type": "string"},
    "bullets": {"type": "array", "items": {"type": "string"}},
    "tags": {"type": "array", "items": {"type": "string"}}
  },
  "required": ["headline", "bullets", "tags"]
}`

const FieldPromptsSchemaJSON = `{
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "prompts": {
      "type": "array",
      "items": {
        "type": "object",
        "additionalProperties": false,
        "properties": {
          "field": {"type": "string"},
          "prompt": {"type": "string"}
        },
        "required": ["field", "prompt"]
      }
    }
  },
  "required": ["prompts"]
}`

var (
	interpretSchema    = jsonschema.MustCompileString("interpret.json", InterpretSchemaJSON)
	summarySchema      = jsonschema.MustCompileString("summary.json", SummarySchemaJSON)
	fieldPromptsSchema = jsonschema.MustCompileString("field_prompts.json", FieldPromptsSchemaJSON)
)
