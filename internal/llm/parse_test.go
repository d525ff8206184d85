package llm

import (
	"testing"
)

func TestRepairJSON(t *testing.T) {
	cases := []struct {
		name    string
		in      string
		wantNil bool
	}{
		{"plain object", `{"isLab": true}`, false},
		{"fenced", "```json\n{\"isLab\": true}\n```", false},
		{"fenced no language", "```\n{\"isLab\": true}\n```", false},
		{"surrounding prose", `Here is the result: {"isLab": true} hope that helps`, false},
		{"garbage", "not json at all", true},
		{"empty", "", true},
		{"array not object", `[1, 2, 3]`, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RepairJSON(tc.in)
			if (got == nil) != tc.wantNil {
				t.Errorf("RepairJSON(%q) = %v, wantNil=%v", tc.in, got, tc.wantNil)
			}
		})
	}
}

func TestClamp01(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want float64
	}{
		{"in range", 0.7, 0.7},
		{"negative", -0.5, 0.0},
		{"overflow", 3.2, 1.0},
		{"numeric string", "0.4", 0.4},
		{"non numeric", "high", 0.0},
		{"nil", nil, 0.0},
		{"bool", true, 0.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Clamp01(tc.in); got != tc.want {
				t.Errorf("Clamp01(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCoerceClassificationDropsBadItems(t *testing.T) {
	payload := RepairJSON(`{
		"isLab": true,
		"confidence": 1.4,
		"reason": "looks like a lab report",
		"items": [
			{"test": "Glukoz", "label": null, "value": 95, "unit": "mg/dl", "refLow": 70, "refHigh": 100},
			{"test": "", "label": null, "value": 10, "unit": null, "refLow": null, "refHigh": null},
			{"test": "Kolesterol", "label": null, "value": "not-a-number", "unit": null, "refLow": null, "refHigh": null},
			{"test": "HDL", "label": null, "value": "45", "unit": "mg/dl", "refLow": null, "refHigh": null}
		]
	}`)
	if payload == nil {
		t.Fatal("payload did not parse")
	}

	out := CoerceClassification(payload)
	if !out.IsLab {
		t.Error("isLab lost in coercion")
	}
	if out.Confidence != 1.0 {
		t.Errorf("confidence = %v, want clamped 1.0", out.Confidence)
	}
	if len(out.Items) != 2 {
		t.Fatalf("got %d items, want 2 (empty test and bad value dropped)", len(out.Items))
	}
	if out.Items[0].Test != "Glukoz" || out.Items[1].Test != "HDL" {
		t.Errorf("unexpected surviving items: %+v", out.Items)
	}
	if out.Items[1].Value != 45 {
		t.Errorf("numeric string value not coerced: %v", out.Items[1].Value)
	}
}

func TestCoerceClassificationNullsInvertedRange(t *testing.T) {
	payload := RepairJSON(`{
		"isLab": true,
		"confidence": 0.9,
		"reason": "r",
		"items": [
			{"test": "CRP", "label": null, "value": 5, "unit": null, "refLow": 10, "refHigh": 2}
		]
	}`)
	out := CoerceClassification(payload)
	if len(out.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(out.Items))
	}
	if out.Items[0].RefLow != nil || out.Items[0].RefHigh != nil {
		t.Errorf("inverted range should be nulled, got %v..%v", out.Items[0].RefLow, out.Items[0].RefHigh)
	}
}

func TestCoerceClassificationDefaults(t *testing.T) {
	out := CoerceClassification(map[string]any{})
	if out.IsLab || out.Confidence != 0 || out.Reason != "" {
		t.Errorf("unexpected defaults: %+v", out)
	}
	if out.Items == nil || len(out.Items) != 0 {
		t.Errorf("items should be an empty slice, got %v", out.Items)
	}
}
