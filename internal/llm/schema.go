package llm

// BuildLabExtractionSchema returns the JSON-Schema (draft 2020-12 subset)
// constraining the classification response, as a generic map. We pass it
// to the provider as a structured-output format and also use it locally
// to validate what comes back.
func BuildLabExtractionSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"test":    map[string]any{"type": "string"},
			"label":   map[string]any{"type": []string{"string", "null"}},
			"value":   map[string]any{"type": "number"},
			"unit":    map[string]any{"type": []string{"string", "null"}},
			"refLow":  map[string]any{"type": []string{"number", "null"}},
			"refHigh": map[string]any{"type": []string{"number", "null"}},
		},
		"required": []string{"test", "label", "value", "unit", "refLow", "refHigh"},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"isLab":      map[string]any{"type": "boolean"},
			"confidence": map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"reason":     map[string]any{"type": "string"},
			"items":      map[string]any{"type": "array", "items": item},
		},
		"required": []string{"isLab", "confidence", "reason", "items"},
	}
}
