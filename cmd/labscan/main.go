// labscan classifies a single local document without the server: it
// extracts text (PDF or plain text), runs the full pipeline, and prints
// the response JSON to stdout.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ozanyurtsever/labsense/internal/common"
	"github.com/ozanyurtsever/labsense/internal/extract"
	"github.com/ozanyurtsever/labsense/internal/llm/openai"
	"github.com/ozanyurtsever/labsense/internal/pipeline"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: labscan <file.pdf|file.txt>")
		os.Exit(2)
	}
	path := os.Args[1]

	cfg := common.LoadConfig()
	if cfg.LLM.APIKey == "" {
		fmt.Fprintln(os.Stderr, "OPENAI_API_KEY env var is required")
		os.Exit(2)
	}

	ctx := context.Background()

	text, err := readDocument(ctx, logger, path)
	if err != nil && !errors.Is(err, common.ErrNoExtractableText) {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}

	client := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
	}, logger)

	processor := pipeline.NewProcessor(
		logger,
		pipeline.NewClassifyStage(logger, client, cfg.LLM),
		pipeline.NewNarrativeStage(logger, client, cfg.LLM),
	)

	resp, err := processor.ProcessText(ctx, text)
	if err != nil {
		if errors.Is(err, common.ErrNoExtractableText) {
			fmt.Fprintln(os.Stderr, "document has no extractable text (scanned?)")
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "pipeline: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		fmt.Fprintf(os.Stderr, "encode response: %v\n", err)
		os.Exit(1)
	}
}

func readDocument(ctx context.Context, logger *slog.Logger, path string) (string, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		res, err := extract.NewPDFExtractor(logger).Extract(ctx, path)
		if err != nil {
			return "", err
		}
		return res.Text, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
