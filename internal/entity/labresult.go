package entity

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ozanyurtsever/labsense/constants"
)

// MeasurementRecord is one named test measurement recovered from a
// document, either by the model or by the local heuristic pass.
// Records are created once and never mutated downstream.
type MeasurementRecord struct {
	Test    string   `json:"test"`
	Label   *string  `json:"label"`
	Value   float64  `json:"value"`
	Unit    *string  `json:"unit"`
	RefLow  *float64 `json:"refLow"`
	RefHigh *float64 `json:"refHigh"`
}

// Valid reports whether the record satisfies the invariants every
// surfaced record must hold: non-empty test name, finite value, and a
// coherent reference range when both bounds are present.
func (r MeasurementRecord) Valid() bool {
	if r.Test == "" {
		return false
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return false
	}
	if r.RefLow != nil && r.RefHigh != nil && *r.RefLow > *r.RefHigh {
		return false
	}
	return true
}

// OutOfRange reports whether the value falls outside the reference
// range. False when no complete range is attached.
func (r MeasurementRecord) OutOfRange() bool {
	if r.RefLow == nil || r.RefHigh == nil {
		return false
	}
	return r.Value < *r.RefLow || r.Value > *r.RefHigh
}

// ClassificationResult is the verdict for one document. Produced fresh
// per pipeline run; merges always build a new value with a Reason that
// records provenance (model-accepted, heuristic override, local fallback).
type ClassificationResult struct {
	IsLab      bool                `json:"isLab"`
	Confidence float64             `json:"confidence"`
	Reason     string              `json:"reason"`
	Items      []MeasurementRecord `json:"items"`
}

// AnalysisResponse is the contract handed back to callers (persistence,
// UI): the classification plus the optional narrative.
type AnalysisResponse struct {
	Type       constants.ResultType `json:"type"`
	Confidence float64              `json:"confidence"`
	Reason     string               `json:"reason"`
	Items      []MeasurementRecord  `json:"items"`
	Analysis   *string              `json:"analysis"`
}

// LabResult is the stored latest result for a user.
type LabResult struct {
	ID        uuid.UUID           `json:"id"`
	UserID    uuid.UUID           `json:"user_id"`
	Items     []MeasurementRecord `json:"items"`
	Analysis  *string             `json:"analysis,omitempty"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}
