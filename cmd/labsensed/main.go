package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ozanyurtsever/labsense/internal/common"
	"github.com/ozanyurtsever/labsense/internal/export"
	"github.com/ozanyurtsever/labsense/internal/extract"
	"github.com/ozanyurtsever/labsense/internal/llm/openai"
	"github.com/ozanyurtsever/labsense/internal/pipeline"
	"github.com/ozanyurtsever/labsense/internal/repository"
	"github.com/ozanyurtsever/labsense/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	if err := os.MkdirAll(cfg.Server.UploadDir, 0o755); err != nil {
		logger.Error("creating upload dir", "dir", cfg.Server.UploadDir, "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := repository.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("creating db pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := repository.HealthCheck(ctx, pool, cfg.Database.DialTimeout); err != nil {
		logger.Error("db health failed", "error", err)
		os.Exit(1)
	}
	logger.Info("db health ok")

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

	resultsRepo := repository.NewLabResultRepository(pool, logger)
	srv := server.NewServer(
		logger,
		cfg.Server,
		extract.NewPDFExtractor(logger),
		processor,
		resultsRepo,
		export.NewService(resultsRepo, logger),
	)

	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
