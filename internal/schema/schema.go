// Package schema validates inbound event payloads before they reach
// storage.
//
// The write schema deliberately restricts source to a single string
// even though the read path accepts both string and array forms:
// multi-citation sources only occur in historical bulk data.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const eventSchemaURL = "loreline://schema/event-v1.schema.json"

const eventSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "title": "Event",
  "type": "object",
  "properties": {
    "id": { "type": "string", "minLength": 1 },
    "title": { "type": "string", "minLength": 1 },
    "era": {
      "enum": [
        "Years of the Trees",
        "First Age",
        "Second Age",
        "Third Age",
        "Fourth Age"
      ]
    },
    "year": { "type": ["integer", "null"] },
    "characters": { "type": "array", "items": { "type": "string" } },
    "location": { "type": "string", "minLength": 1 },
    "summary": { "type": "string" },
    "relatedEventIds": { "type": "array", "items": { "type": "string" } },
    "source": { "type": "string" }
  },
  "required": [
    "id", "title", "era", "year", "characters",
    "location", "summary", "relatedEventIds", "source"
  ],
  "additionalProperties": false
}`

// Validator checks event payloads against the compiled event schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator compiles the event schema.
func NewValidator() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(eventSchemaURL, strings.NewReader(eventSchema)); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	schema, err := compiler.Compile(eventSchemaURL)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// ValidateEvent checks a raw JSON payload. A non-nil error means the
// payload must be rejected with no side effect.
func (v *Validator) ValidateEvent(payload []byte) error {
	var instance any
	if err := json.Unmarshal(payload, &instance); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := v.schema.Validate(instance); err != nil {
		return fmt.Errorf("schema validation: %w", err)
	}
	return nil
}
