package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/ozanyurtsever/labsense/internal/common"
	"github.com/ozanyurtsever/labsense/internal/entity"
	"github.com/ozanyurtsever/labsense/internal/llm"
)

// DisclaimerBlock is appended to any narrative that does not already
// carry disclaimer language.
const DisclaimerBlock = "\n\n---\n**Uyarı:** Bu içerik tıbbi tavsiye değildir. Sonuçlarınızı semptomlarınız ve öykünüzle birlikte **doktorunuza** danışın."

// disclaimerMarkers are the case-insensitive phrases that count as
// existing disclaimer language.
var disclaimerMarkers = []string{"tıbbi tavsiye değildir", "doktorunuza"}

// NarrativeStage turns accepted records into the disclaimer-bearing
// narrative, with a static fallback when the external call fails,
// times out, or returns nothing.
type NarrativeStage struct {
	Logger  *slog.Logger
	Analyst llm.Analyst
	Timeout time.Duration
}

func NewNarrativeStage(logger *slog.Logger, analyst llm.Analyst, cfg common.LLMConfig) *NarrativeStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &NarrativeStage{Logger: logger, Analyst: analyst, Timeout: cfg.AnalysisTimeout}
}

// Run never fails: every path yields a narrative containing the
// disclaimer. An empty item list short-circuits to the static fallback
// without any external call.
func (s *NarrativeStage) Run(ctx context.Context, items []entity.MeasurementRecord) string {
	if len(items) == 0 {
		return FallbackAnalysis()
	}

	bullet := llm.ItemsToBulletedText(items)
	text, err := s.Analyst.GenerateAnalysis(ctx, llm.AnalysisRequest{
		Instructions: llm.AnalysisInstructions,
		Input:        llm.BuildAnalysisInput(bullet),
		Timeout:      s.Timeout,
	})
	if err != nil {
		s.Logger.Warn("pipeline.narrative.call_failed", "error", err)
		return FallbackAnalysis()
	}
	text = strings.TrimSpace(text)
	if text == "" {
		s.Logger.Warn("pipeline.narrative.empty_response")
		return FallbackAnalysis()
	}
	return EnsureDisclaimer(text)
}

// EnsureDisclaimer guarantees disclaimer language regardless of model
// compliance with the instructions.
func EnsureDisclaimer(markdown string) string {
	low := strings.ToLower(markdown)
	for _, marker := range disclaimerMarkers {
		if strings.Contains(low, marker) {
			return markdown
		}
	}
	return markdown + "\n" + DisclaimerBlock
}

// FallbackAnalysis is the static degraded-mode narrative: same four
// sections, no claims about the specific values, disclaimer included.
func FallbackAnalysis() string {
	return strings.Join([]string{
		"### Tahlil Özeti",
		"Veriler sınırlı veya standart biçimde değil; yine de genel bir değerlendirme için doktorunuzun dosyayı görmesi en doğrusu olacaktır.",
		"",
		"### Öne Çıkan Bulgular",
		"- Bu ön izleme, referans dışı değerleri kesin olarak belirlemeyebilir.",
		"",
		"### Tavsiye",
		"- Dengeli beslenme, yeterli su tüketimi, düzenli uyku ve hafif/orta şiddette aktivite genel sağlığı destekler.",
		"",
		"---",
		"**Uyarı:** Bu içerik tıbbi tavsiye değildir. Sonuçlarınızı semptomlarınız ve öykünüzle birlikte **doktorunuza** danışın.",
	}, "\n")
}
