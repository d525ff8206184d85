package llm

import (
	"strings"
	"testing"

	"github.com/ozanyurtsever/labsense/constants"
	"github.com/ozanyurtsever/labsense/internal/entity"
)

func strptr(s string) *string   { return &s }
func f64ptr(f float64) *float64 { return &f }

func TestItemsToBulletedText(t *testing.T) {
	items := []entity.MeasurementRecord{
		{Test: "Glukoz", Value: 95, Unit: strptr("mg/dl"), RefLow: f64ptr(70), RefHigh: f64ptr(100)},
		{Test: "HDL", Value: 45.5},
	}
	got := ItemsToBulletedText(items)
	lines := strings.Split(got, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), got)
	}
	if lines[0] != "- Glukoz | değer: 95 mg/dl | ref: 70–100 mg/dl" {
		t.Errorf("unexpected first line: %q", lines[0])
	}
	if lines[1] != "- HDL | değer: 45.5" {
		t.Errorf("unexpected second line: %q", lines[1])
	}
}

func TestItemsToBulletedTextCap(t *testing.T) {
	items := make([]entity.MeasurementRecord, 100)
	for i := range items {
		items[i] = entity.MeasurementRecord{Test: "T", Value: 1}
	}
	got := ItemsToBulletedText(items)
	if n := len(strings.Split(got, "\n")); n != constants.MaxItemsForAnalysis {
		t.Errorf("rendered %d lines, cap is %d", n, constants.MaxItemsForAnalysis)
	}
}
