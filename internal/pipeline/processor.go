package pipeline

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ozanyurtsever/labsense/constants"
	"github.com/ozanyurtsever/labsense/internal/common"
	"github.com/ozanyurtsever/labsense/internal/entity"
)

// Processor runs the full pipeline for one document and assembles the
// response contract callers consume unchanged.
type Processor struct {
	Logger    *slog.Logger
	Classify  *ClassifyStage
	Narrative *NarrativeStage
}

func NewProcessor(logger *slog.Logger, classify *ClassifyStage, narrative *NarrativeStage) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Classify: classify, Narrative: narrative}
}

// ProcessText classifies the document text and, when appropriate,
// attaches the narrative. Empty input is the single terminal failure
// (common.ErrNoExtractableText); every other path returns a well-formed
// response. A negative verdict decided by the model carries no
// narrative; a negative reached only because the ladder was exhausted
// carries the static fallback so the caller still has something to show.
func (p *Processor) ProcessText(ctx context.Context, text string) (entity.AnalysisResponse, error) {
	if strings.TrimSpace(text) == "" {
		return entity.AnalysisResponse{}, common.ErrNoExtractableText
	}

	result, exhausted := p.Classify.Run(ctx, text)

	resp := entity.AnalysisResponse{
		Type:       constants.ResultTypeNonLab,
		Confidence: result.Confidence,
		Reason:     result.Reason,
		Items:      result.Items,
	}
	if result.IsLab {
		resp.Type = constants.ResultTypeLab
	}

	switch {
	case result.IsLab:
		analysis := p.Narrative.Run(ctx, result.Items)
		resp.Analysis = &analysis
	case exhausted:
		analysis := FallbackAnalysis()
		resp.Analysis = &analysis
	}

	p.Logger.Info("pipeline.process.done",
		"type", string(resp.Type),
		"confidence", resp.Confidence,
		"items", len(resp.Items),
		"has_analysis", resp.Analysis != nil,
	)
	return resp, nil
}
