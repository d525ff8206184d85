package llm

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ozanyurtsever/labsense/internal/entity"
)

var reCodeFence = regexp.MustCompile("(?is)```(?:json)?\\s*(.*?)\\s*```")

// RepairJSON recovers a JSON object from raw model text. It strips an
// optional markdown code fence, tries a straight parse, then falls back
// to the outermost {...} span. Returns nil when no object can be
// recovered.
func RepairJSON(s string) map[string]any {
	body := s
	if m := reCodeFence.FindStringSubmatch(s); m != nil {
		body = m[1]
	}

	var out map[string]any
	if err := json.Unmarshal([]byte(body), &out); err == nil {
		return out
	}

	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start >= 0 && end > start {
		out = nil
		if err := json.Unmarshal([]byte(body[start:end+1]), &out); err == nil {
			return out
		}
	}
	return nil
}

// CoerceClassification maps a loosely-typed payload onto a well-formed
// ClassificationResult. Confidence is clamped to [0,1]; items with an
// empty test name or a non-finite value are dropped silently rather than
// failing the whole classification.
func CoerceClassification(payload map[string]any) entity.ClassificationResult {
	out := entity.ClassificationResult{
		IsLab:      toBool(payload["isLab"]),
		Confidence: Clamp01(payload["confidence"]),
		Reason:     toString(payload["reason"]),
		Items:      []entity.MeasurementRecord{},
	}

	rawItems, _ := payload["items"].([]any)
	for _, ri := range rawItems {
		m, ok := ri.(map[string]any)
		if !ok {
			continue
		}
		rec := entity.MeasurementRecord{
			Test:    strings.TrimSpace(toString(m["test"])),
			Label:   toStringPtr(m["label"]),
			Unit:    toStringPtr(m["unit"]),
			RefLow:  toFloatPtr(m["refLow"]),
			RefHigh: toFloatPtr(m["refHigh"]),
		}
		value, finite := toFloat(m["value"])
		rec.Value = value
		if rec.Test == "" || !finite {
			continue
		}
		// An inverted range from the model is nulled out, not fatal.
		if rec.RefLow != nil && rec.RefHigh != nil && *rec.RefLow > *rec.RefHigh {
			rec.RefLow, rec.RefHigh = nil, nil
		}
		out.Items = append(out.Items, rec)
	}
	return out
}

// Clamp01 coerces any payload value to a float in [0,1]. Non-numeric and
// non-finite inputs become 0.
func Clamp01(v any) float64 {
	f, ok := toFloat(v)
	if !ok {
		return 0
	}
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

func toBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func toString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// toFloat accepts both JSON numbers and numeric strings; returns false
// for anything else or for non-finite values.
func toFloat(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case json.Number:
		parsed, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloatPtr(v any) *float64 {
	if v == nil {
		return nil
	}
	f, ok := toFloat(v)
	if !ok {
		return nil
	}
	return &f
}

func toStringPtr(v any) *string {
	if v == nil {
		return nil
	}
	s := toString(v)
	return &s
}
