package llm

import (
	"encoding/json"
	"fmt"
)

// envelopeKey names the wrapper property used for providers that only accept
// an object at the root of a structured-output schema.
const envelopeKey = "items"

// envelopeSchema wraps a non-object root in {"items": <def>}. Object roots are
// returned unchanged with wrapped=false.
func envelopeSchema(def map[string]any) (map[string]any, bool) {
	if t, _ := def["type"].(string); t == "object" {
		return def, false
	}
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			envelopeKey: def,
		},
		"required": []any{envelopeKey},
	}, true
}

// unwrapEnvelope extracts the wrapped value from a model reply produced
// against envelopeSchema.
func unwrapEnvelope(p Payload) (Payload, error) {
	raw, err := p.Bytes()
	if err != nil {
		return p, &ErrInvalidResponse{Err: err}
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return p, &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("invalid JSON: %w", err),
		}
	}
	inner, ok := obj[envelopeKey]
	if !ok {
		return p, &ErrInvalidResponse{
			Content: raw,
			Err:     fmt.Errorf("missing %q in response", envelopeKey),
		}
	}
	return TextPayload(string(inner)), nil
}

// strictSchema returns a deep copy of def with additionalProperties=false on
// every object and every property listed as required.
func strictSchema(def map[string]any) map[string]any {
	out := make(map[string]any, len(def)+1)
	for k, v := range def {
		out[k] = v
	}

	if props, ok := def["properties"].(map[string]any); ok {
		newProps := make(map[string]any, len(props))
		required := make([]any, 0, len(props))
		for name, v := range props {
			if propDef, ok := v.(map[string]any); ok {
				newProps[name] = strictSchema(propDef)
			} else {
				newProps[name] = v
			}
			required = append(required, name)
		}
		out["properties"] = newProps
		out["required"] = required
	}
	if t, _ := def["type"].(string); t == "object" {
		out["additionalProperties"] = false
	}
	if items, ok := def["items"].(map[string]any); ok {
		out["items"] = strictSchema(items)
	}
	return out
}
