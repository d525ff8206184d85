package llm

import "testing"

func TestLabExtractionSchemaAcceptsWellFormedResponse(t *testing.T) {
	doc := []byte(`{
		"isLab": true,
		"confidence": 0.92,
		"reason": "named tests with values and ranges",
		"items": [
			{"test": "Glukoz", "label": null, "value": 95, "unit": "mg/dl", "refLow": 70, "refHigh": 100},
			{"test": "HDL", "label": "HDL Kolesterol", "value": 45, "unit": null, "refLow": null, "refHigh": null}
		]
	}`)
	if err := ValidateAgainstSchema(BuildLabExtractionSchema(), doc); err != nil {
		t.Errorf("well-formed response rejected: %v", err)
	}
}

func TestLabExtractionSchemaRejections(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"missing required field", `{"isLab": true, "confidence": 0.5, "items": []}`},
		{"confidence out of range", `{"isLab": true, "confidence": 1.5, "reason": "r", "items": []}`},
		{"item missing range fields", `{"isLab": true, "confidence": 0.5, "reason": "r", "items": [{"test": "A", "label": null, "value": 1, "unit": null}]}`},
		{"string value", `{"isLab": true, "confidence": 0.5, "reason": "r", "items": [{"test": "A", "label": null, "value": "1", "unit": null, "refLow": null, "refHigh": null}]}`},
		{"unknown top-level key", `{"isLab": true, "confidence": 0.5, "reason": "r", "items": [], "extra": 1}`},
	}
	schema := BuildLabExtractionSchema()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := ValidateAgainstSchema(schema, []byte(tc.doc)); err == nil {
				t.Errorf("expected validation failure for %s", tc.name)
			}
		})
	}
}
