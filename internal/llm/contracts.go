package llm

import (
	"context"
	"time"

	"github.com/ozanyurtsever/labsense/internal/entity"
)

// ClassifyRequest is one structured-output classification attempt. The
// ladder issues up to two of these per document, with different
// instructions, excerpts and budgets.
type ClassifyRequest struct {
	Instructions string
	Input        string
	Timeout      time.Duration
}

// AnalysisRequest is one narrative-generation attempt.
type AnalysisRequest struct {
	Instructions string
	Input        string
	Timeout      time.Duration
}

// Classifier is the interface the pipeline depends on for the
// schema-constrained classification call. Implementations must enforce
// the request timeout, return transport/timeout failures as errors, and
// absorb malformed provider output into a degraded negative result
// rather than erroring.
type Classifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (entity.ClassificationResult, error)
}

// Analyst is the interface for the free-text narrative call.
type Analyst interface {
	GenerateAnalysis(ctx context.Context, req AnalysisRequest) (string, error)
}
