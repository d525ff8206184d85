package textproc

import (
	"strings"
	"testing"

	"github.com/ozanyurtsever/labsense/constants"
)

func TestReduceKeepsMeasurementLines(t *testing.T) {
	text := strings.Join([]string{
		"Hasta Raporu",
		"Glukoz 95 mg/dl",
		"Bu bir açıklama paragrafıdır ve sayı içermez.",
		"Kolesterol 180 mg/dl",
	}, "\n")

	got := ReduceToLikelyLabLines(text)
	if !strings.Contains(got, "Glukoz 95") || !strings.Contains(got, "Kolesterol 180") {
		t.Fatalf("measurement lines missing from %q", got)
	}
	if strings.Contains(got, "paragraf") {
		t.Errorf("prose line survived reduction: %q", got)
	}
}

func TestReduceCharCeiling(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 500; i++ {
		b.WriteString("Glukoz 95 mg/dl (70-100)\n")
	}
	got := ReduceToLikelyLabLines(b.String())
	if len(got) > constants.MaxInputChars {
		t.Errorf("reduced output %d chars, ceiling is %d", len(got), constants.MaxInputChars)
	}
}

func TestReduceLineCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 300; i++ {
		b.WriteString("Na 140\n")
	}
	got := ReduceToLikelyLabLines(b.String())
	lines := strings.Split(got, "\n")
	if len(lines) > constants.MaxReducedLines {
		t.Errorf("kept %d lines, cap is %d", len(lines), constants.MaxReducedLines)
	}
}

func TestReduceFallsBackToRawPrefix(t *testing.T) {
	text := strings.Repeat("no measurements here, only words. ", 100)
	got := ReduceToLikelyLabLines(text)
	if got == "" {
		t.Fatal("expected raw prefix fallback, got empty string")
	}
	if len(got) > constants.MaxInputChars {
		t.Errorf("fallback prefix %d chars, ceiling is %d", len(got), constants.MaxInputChars)
	}
	if !strings.HasPrefix(text, got) {
		t.Errorf("fallback is not a prefix of the input")
	}
}

func TestReduceEmptyInput(t *testing.T) {
	if got := ReduceToLikelyLabLines(""); got != "" {
		t.Errorf("ReduceToLikelyLabLines(\"\") = %q", got)
	}
}
