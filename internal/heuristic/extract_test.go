package heuristic

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ozanyurtsever/labsense/constants"
)

func TestExtractBasicLine(t *testing.T) {
	items := Extract("Glukoz 95 mg/dl (70-100)")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	it := items[0]
	if it.Test != "Glukoz" {
		t.Errorf("test = %q, want Glukoz", it.Test)
	}
	if it.Value != 95 {
		t.Errorf("value = %v, want 95", it.Value)
	}
	if it.Unit == nil || *it.Unit != "mg/dl" {
		t.Errorf("unit = %v, want mg/dl", it.Unit)
	}
	if it.RefLow == nil || it.RefHigh == nil || *it.RefLow != 70 || *it.RefHigh != 100 {
		t.Errorf("range = %v..%v, want 70..100", it.RefLow, it.RefHigh)
	}
}

func TestExtractCommaDecimal(t *testing.T) {
	items := Extract("Hemoglobin 13,5 g/l")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Value != 13.5 {
		t.Errorf("value = %v, want 13.5", items[0].Value)
	}
}

func TestExtractLabelCarriedFromPreviousLine(t *testing.T) {
	text := "Hemoglobin\n13.5 g/l (12-16)"
	items := Extract(text)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].Test != "Hemoglobin" {
		t.Errorf("test = %q, want Hemoglobin", items[0].Test)
	}
	if items[0].Unit == nil || *items[0].Unit != "g/l" {
		t.Errorf("unit = %v, want g/l", items[0].Unit)
	}
}

func TestExtractLabelNotReused(t *testing.T) {
	// The carried label is consumed by the first value line; a later
	// nameless value line must not inherit it again.
	items := Extract("Hemoglobin\n13.5\n9")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d: %+v", len(items), items)
	}
}

func TestExtractInvertedRangeDropped(t *testing.T) {
	items := Extract("CRP 5 mg/dl (10-2)")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].RefLow != nil || items[0].RefHigh != nil {
		t.Errorf("inverted range should be dropped, got %v..%v", items[0].RefLow, items[0].RefHigh)
	}
}

func TestExtractComparatorRange(t *testing.T) {
	items := Extract("Ferritin 30 ng/ml (>15 -  300)")
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].RefLow == nil || items[0].RefHigh == nil || *items[0].RefLow != 15 || *items[0].RefHigh != 300 {
		t.Errorf("range = %v..%v, want 15..300", items[0].RefLow, items[0].RefHigh)
	}
}

func TestExtractItemCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("Glukoz 95 mg/dl\n")
	}
	items := Extract(b.String())
	if len(items) != constants.MaxHeuristicItems {
		t.Errorf("got %d items, cap is %d", len(items), constants.MaxHeuristicItems)
	}
}

func TestExtractGlobalFallback(t *testing.T) {
	// The line pass discards this (value first, no usable name to the
	// left), so only the whole-text pass can recover the pair.
	items := Extract("9 Glukoz 95")
	if len(items) != 1 {
		t.Fatalf("expected 1 item from global pass, got %d", len(items))
	}
	if items[0].Test != "Glukoz" || items[0].Value != 95 {
		t.Errorf("got %+v, want Glukoz/95", items[0])
	}
}

func TestExtractNeverFailsAndStaysValid(t *testing.T) {
	inputs := []string{
		"",
		"   \n\n\t\n",
		"no numbers anywhere",
		"((((((((",
		"-- 5 -- 6 -- 7 --",
		"Glukoz 95 mg/dl (70-100)\nKolesterol 180\nHDL 45 mg/dl",
		strings.Repeat("x 1\n", 2000),
	}
	for _, in := range inputs {
		items := Extract(in)
		if len(items) > constants.MaxHeuristicItems {
			t.Errorf("input %q: %d items exceeds cap", in[:min(len(in), 20)], len(items))
		}
		for _, it := range items {
			if !it.Valid() {
				t.Errorf("invalid record surfaced: %+v", it)
			}
		}
	}
}

func TestExtractIdempotent(t *testing.T) {
	text := "Glukoz 95 mg/dl (70-100)\nHemoglobin\n13,5 g/l\nKolesterol 180 mg/dl"
	first := Extract(text)
	second := Extract(text)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("extraction is not idempotent:\n%+v\n%+v", first, second)
	}
}
