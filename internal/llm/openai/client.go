package openai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ozanyurtsever/labsense/internal/entity"
	"github.com/ozanyurtsever/labsense/internal/llm"
)

// reasonMalformed is the provenance string on degraded results built
// from unusable provider output.
const reasonMalformed = "Malformed JSON from model"

// Classify implements llm.Classifier over the Responses API with a
// structured-output format. Transport and timeout failures surface as
// errors; anything the provider returns that cannot be parsed into the
// schema degrades into a negative zero-confidence result instead.
func (c *Client) Classify(ctx context.Context, req llm.ClassifyRequest) (entity.ClassificationResult, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.classify.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"input_len", len(req.Input),
		"timeout_ms", req.Timeout.Milliseconds(),
	)

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	schema := llm.BuildLabExtractionSchema()
	body := map[string]any{
		"model":        c.cfg.Model,
		"instructions": req.Instructions + "\n\nIMPORTANT: Output valid JSON matching the schema.",
		"input":        "TEXT:\n" + req.Input + "\n\nReturn only JSON.",
		"text": map[string]any{
			"format": map[string]any{
				"type":   "json_schema",
				"name":   "LabExtraction",
				"strict": true,
				"schema": schema,
			},
		},
	}
	if c.cfg.Temperature > 0 {
		body["temperature"] = c.cfg.Temperature
	}

	raw, _, err := llm.SendJSON(ctx, c.httpClient, c.endpoint(), body, c.headers(), c.log)
	if err != nil {
		c.log.Error("llm.classify.call_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.ClassificationResult{}, err
	}

	text := extractOutputText(raw)
	payload := llm.RepairJSON(text)
	if payload == nil {
		c.log.Warn("llm.classify.malformed_response",
			"req_id", rid, "raw_len", len(text),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return degradedResult(), nil
	}

	// Strict validation first; on mismatch the tolerant coercion below
	// still salvages whatever items hold up.
	if canonical, merr := json.Marshal(payload); merr == nil {
		if verr := llm.ValidateAgainstSchema(schema, canonical); verr != nil {
			c.log.Warn("llm.classify.schema_mismatch", "req_id", rid, "error", verr)
		}
	}

	out := llm.CoerceClassification(payload)
	c.log.Info("llm.classify.ok",
		"req_id", rid,
		"is_lab", out.IsLab,
		"confidence", out.Confidence,
		"items", len(out.Items),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

// GenerateAnalysis implements llm.Analyst: one free-text narrative call
// under its own budget. Callers decide what to do with an empty reply.
func (c *Client) GenerateAnalysis(ctx context.Context, req llm.AnalysisRequest) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	body := map[string]any{
		"model":        c.cfg.Model,
		"instructions": req.Instructions,
		"input":        req.Input,
	}

	raw, _, err := llm.SendJSON(ctx, c.httpClient, c.endpoint(), body, c.headers(), c.log)
	if err != nil {
		c.log.Warn("llm.analysis.call_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", err
	}

	text := strings.TrimSpace(extractOutputText(raw))
	c.log.Info("llm.analysis.ok",
		"req_id", rid, "text_len", len(text),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return text, nil
}

func (c *Client) endpoint() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/responses"
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
}

func degradedResult() entity.ClassificationResult {
	return entity.ClassificationResult{
		IsLab:      false,
		Confidence: 0,
		Reason:     reasonMalformed,
		Items:      []entity.MeasurementRecord{},
	}
}

// extractOutputText pulls the model text out of the Responses API
// envelope: the flattened output_text when present, otherwise the first
// output_text content node.
func extractOutputText(raw []byte) string {
	var env struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Type string `json:"type"`
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return ""
	}
	if env.OutputText != "" {
		return env.OutputText
	}
	for _, out := range env.Output {
		for _, node := range out.Content {
			if node.Type == "output_text" && node.Text != "" {
				return node.Text
			}
		}
	}
	return ""
}
