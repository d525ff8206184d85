package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/ozanyurtsever/labsense/internal/common"
	"github.com/ozanyurtsever/labsense/internal/entity"
	"github.com/ozanyurtsever/labsense/internal/llm"
)

type mockAnalyst struct {
	text  string
	err   error
	calls []llm.AnalysisRequest
}

func (m *mockAnalyst) GenerateAnalysis(_ context.Context, req llm.AnalysisRequest) (string, error) {
	m.calls = append(m.calls, req)
	return m.text, m.err
}

func sampleItems(n int) []entity.MeasurementRecord {
	out := make([]entity.MeasurementRecord, n)
	for i := range out {
		out[i] = entity.MeasurementRecord{Test: fmt.Sprintf("Test-%d", i), Value: float64(90 + i)}
	}
	return out
}

func assertHasDisclaimer(t *testing.T, text string) {
	t.Helper()
	if !strings.Contains(strings.ToLower(text), "tıbbi tavsiye değildir") {
		t.Errorf("narrative is missing the disclaimer:\n%s", text)
	}
}

func TestNarrativeEmptyItemsSkipsExternalCall(t *testing.T) {
	ma := &mockAnalyst{text: "should not be used"}
	stage := NewNarrativeStage(nil, ma, testLLMConfig())

	got := stage.Run(context.Background(), nil)
	if got != FallbackAnalysis() {
		t.Errorf("expected the static fallback, got:\n%s", got)
	}
	if len(ma.calls) != 0 {
		t.Errorf("empty item list must not call the analyst (%d calls)", len(ma.calls))
	}
}

func TestNarrativeAppendsDisclaimer(t *testing.T) {
	ma := &mockAnalyst{text: "### Tahlil Özeti\nDeğerleriniz genel olarak normal görünüyor."}
	stage := NewNarrativeStage(nil, ma, testLLMConfig())

	got := stage.Run(context.Background(), sampleItems(2))
	if !strings.HasPrefix(got, ma.text) {
		t.Error("model narrative should be preserved verbatim before the disclaimer")
	}
	assertHasDisclaimer(t, got)
}

func TestNarrativeKeepsExistingDisclaimer(t *testing.T) {
	text := "Özet.\n\nBu içerik tıbbi tavsiye değildir, doktorunuza danışın."
	ma := &mockAnalyst{text: text}
	stage := NewNarrativeStage(nil, ma, testLLMConfig())

	got := stage.Run(context.Background(), sampleItems(1))
	if got != text {
		t.Errorf("narrative with disclaimer language must pass through unchanged:\n%s", got)
	}
}

func TestNarrativeFallsBackOnError(t *testing.T) {
	ma := &mockAnalyst{err: fmt.Errorf("%w: 503", common.ErrTransport)}
	stage := NewNarrativeStage(nil, ma, testLLMConfig())

	got := stage.Run(context.Background(), sampleItems(3))
	if got != FallbackAnalysis() {
		t.Errorf("expected the static fallback on analyst error, got:\n%s", got)
	}
	if len(ma.calls) != 1 {
		t.Errorf("expected exactly one attempt, got %d", len(ma.calls))
	}
}

func TestNarrativeFallsBackOnEmptyResponse(t *testing.T) {
	ma := &mockAnalyst{text: "   \n  "}
	stage := NewNarrativeStage(nil, ma, testLLMConfig())

	if got := stage.Run(context.Background(), sampleItems(1)); got != FallbackAnalysis() {
		t.Errorf("whitespace-only response should fall back, got:\n%s", got)
	}
}

func TestNarrativeRequestShape(t *testing.T) {
	ma := &mockAnalyst{text: "özet doktorunuza"}
	cfg := testLLMConfig()
	stage := NewNarrativeStage(nil, ma, cfg)

	stage.Run(context.Background(), sampleItems(2))
	if len(ma.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(ma.calls))
	}
	req := ma.calls[0]
	if req.Instructions != llm.AnalysisInstructions {
		t.Error("analysis instructions not forwarded")
	}
	if !strings.Contains(req.Input, "Test-0") || !strings.Contains(req.Input, "Test-1") {
		t.Errorf("bulleted items missing from input:\n%s", req.Input)
	}
	if req.Timeout != cfg.AnalysisTimeout {
		t.Errorf("timeout = %v, want %v", req.Timeout, cfg.AnalysisTimeout)
	}
}

func TestEnsureDisclaimerIsCaseInsensitive(t *testing.T) {
	text := "Sonuçlar hakkında DOKTORUNUZA danışın."
	if got := EnsureDisclaimer(text); got != text {
		t.Errorf("uppercase marker should count as existing disclaimer:\n%s", got)
	}
}

func TestFallbackAnalysisCarriesDisclaimer(t *testing.T) {
	assertHasDisclaimer(t, FallbackAnalysis())
}
