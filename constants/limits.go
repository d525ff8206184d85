package constants

// Bounds for the heuristic extractor and the model payload. These mirror
// the resource limits the pipeline was tuned with; they are deliberately
// not configurable.
const (
	// MaxHeuristicLines caps how many lines the line-oriented pass scans.
	MaxHeuristicLines = 800

	// MaxHeuristicItems caps how many records a single extraction emits.
	MaxHeuristicItems = 80

	// MaxReducedLines caps the candidate lines kept by the input reducer.
	MaxReducedLines = 120

	// MaxInputChars is the character ceiling on text sent to the classifier.
	MaxInputChars = 900

	// MaxSecondaryChars re-clips the excerpt for the secondary attempt.
	MaxSecondaryChars = 2000

	// MaxItemsForAnalysis caps how many records the narrative renders.
	MaxItemsForAnalysis = 40
)

// Classification thresholds.
const (
	// TrustConfidence is the minimum model confidence accepted without
	// corroboration from the heuristic extractor.
	TrustConfidence = 0.6

	// MinHeuristicHits is the minimum heuristic record count that may
	// override an unsure or negative model verdict.
	MinHeuristicHits = 3

	// OverrideConfidence is the confidence floor assigned to heuristic
	// overrides and local fallback results.
	OverrideConfidence = 0.35
)
