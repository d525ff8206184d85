// Package pipeline sequences one document run: input reduction, the
// two-attempt classification ladder with its heuristic merge policy,
// the guaranteed local fallback, and narrative generation.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/ozanyurtsever/labsense/constants"
	"github.com/ozanyurtsever/labsense/internal/common"
	"github.com/ozanyurtsever/labsense/internal/entity"
	"github.com/ozanyurtsever/labsense/internal/heuristic"
	"github.com/ozanyurtsever/labsense/internal/llm"
	"github.com/ozanyurtsever/labsense/internal/textproc"
)

// Provenance strings recorded on merged and fallback results.
const (
	ReasonHeuristicOverride = "Regex heuristic override (LLM unsure/negative)"
	ReasonLocalFallback     = "Local regex extraction (LLM unavailable)"
	ReasonNoSignal          = "LLM unavailable"
)

// classifyState is the ladder position. Every transition moves forward;
// the fallback state cannot fail, so Run always terminates with a
// well-formed result.
type classifyState int

const (
	statePrimary classifyState = iota
	stateSecondary
	stateLocalFallback
	stateDone
)

// ClassifyStage owns the retry ladder for one document.
type ClassifyStage struct {
	Logger           *slog.Logger
	Classifier       llm.Classifier
	PrimaryTimeout   time.Duration
	SecondaryTimeout time.Duration
}

func NewClassifyStage(logger *slog.Logger, classifier llm.Classifier, cfg common.LLMConfig) *ClassifyStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &ClassifyStage{
		Logger:           logger,
		Classifier:       classifier,
		PrimaryTimeout:   cfg.PrimaryTimeout,
		SecondaryTimeout: cfg.SecondaryTimeout,
	}
}

// Run produces the final classification for the document text. The
// heuristic extraction always runs first on the unreduced text and is
// cached for the whole ladder: it is cheap, cannot fail, and both the
// merge decisions and the local fallback consume it. The returned bool
// reports whether the ladder was exhausted and the local fallback
// decided the outcome.
func (s *ClassifyStage) Run(ctx context.Context, text string) (entity.ClassificationResult, bool) {
	reduced := textproc.ReduceToLikelyLabLines(text)
	local := heuristic.Extract(text)
	regexLikely := len(local) >= constants.MinHeuristicHits

	s.Logger.Info("pipeline.classify.start",
		"text_len", len(text),
		"reduced_len", len(reduced),
		"heuristic_items", len(local),
		"regex_likely", regexLikely,
	)

	for state := statePrimary; state != stateDone; {
		switch state {
		case statePrimary:
			res, err := s.Classifier.Classify(ctx, llm.ClassifyRequest{
				Instructions: llm.ClassificationInstructions,
				Input:        reduced,
				Timeout:      s.PrimaryTimeout,
			})
			if err != nil {
				s.Logger.Warn("pipeline.classify.primary_failed", "error", err)
				state = stateSecondary
				continue
			}
			return s.decide(res, local, regexLikely), false

		case stateSecondary:
			res, err := s.Classifier.Classify(ctx, llm.ClassifyRequest{
				Instructions: llm.SecondaryInstructions,
				Input:        textproc.Clip(reduced, constants.MaxSecondaryChars),
				Timeout:      s.SecondaryTimeout,
			})
			if err != nil {
				s.Logger.Warn("pipeline.classify.secondary_failed", "error", err)
				state = stateLocalFallback
				continue
			}
			return s.decide(res, local, regexLikely), false

		default: // stateLocalFallback
			isLab := len(local) > 0
			out := entity.ClassificationResult{
				IsLab:      isLab,
				Confidence: 0,
				Reason:     ReasonNoSignal,
				Items:      []entity.MeasurementRecord{},
			}
			if isLab {
				out.Confidence = constants.OverrideConfidence
				out.Reason = ReasonLocalFallback
				out.Items = local
			}
			s.Logger.Info("pipeline.classify.local_fallback",
				"is_lab", isLab, "items", len(out.Items))
			return out, true
		}
	}
	// unreachable
	return entity.ClassificationResult{}, true
}

// decide applies the merge policy to one model verdict. A confident
// positive is used verbatim and the heuristic result is discarded; an
// unsure or negative verdict yields to the heuristic when it found at
// least MinHeuristicHits records; otherwise the model result stands.
func (s *ClassifyStage) decide(res entity.ClassificationResult, local []entity.MeasurementRecord, regexLikely bool) entity.ClassificationResult {
	if res.IsLab && res.Confidence >= constants.TrustConfidence {
		s.Logger.Info("pipeline.classify.model_accepted",
			"confidence", res.Confidence, "items", len(res.Items))
		return res
	}

	if regexLikely {
		merged := entity.ClassificationResult{
			IsLab:      true,
			Confidence: max(constants.OverrideConfidence, res.Confidence),
			Reason:     ReasonHeuristicOverride,
			Items:      local,
		}
		s.Logger.Info("pipeline.classify.heuristic_override",
			"model_is_lab", res.IsLab,
			"model_confidence", res.Confidence,
			"items", len(merged.Items),
		)
		return merged
	}

	// Below-threshold positive or plain negative, with no heuristic
	// corroboration: the model verdict stands as-is.
	s.Logger.Info("pipeline.classify.model_verdict",
		"is_lab", res.IsLab, "confidence", res.Confidence)
	return res
}
