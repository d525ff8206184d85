package server

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ozanyurtsever/labsense/constants"
	"github.com/ozanyurtsever/labsense/internal/common"
	"github.com/ozanyurtsever/labsense/internal/entity"
)

// Upload receives one PDF, extracts its text, runs the classification
// pipeline, stores the result when it is a lab report, and returns the
// response contract. A scanned document with no text layer is a normal
// non-lab response, not an error.
func (s *Server) Upload(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "PDF file is required"})
		return
	}
	if s.cfg.MaxUploadSize > 0 && file.Size > s.cfg.MaxUploadSize {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"message": "file too large"})
		return
	}

	safe := strings.ReplaceAll(filepath.Base(file.Filename), " ", "_")
	tmpPath := filepath.Join(s.cfg.UploadDir, fmt.Sprintf("%d_%s", time.Now().UnixMilli(), safe))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		s.log.Error("server.upload.save_failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not store upload"})
		return
	}
	defer func() {
		if rerr := os.Remove(tmpPath); rerr != nil {
			s.log.Warn("server.upload.cleanup_failed", "path", tmpPath, "error", rerr)
		}
	}()

	s.log.Info("server.upload.received",
		"user_id", userID, "file", safe, "size", file.Size)

	extraction, err := s.extractor.Extract(c.Request.Context(), tmpPath)
	if err != nil {
		if errors.Is(err, common.ErrNoExtractableText) {
			c.JSON(http.StatusOK, notMachineReadableResponse())
			return
		}
		s.log.Warn("server.upload.extract_failed", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "could not read PDF", "detail": err.Error()})
		return
	}

	resp, err := s.processor.ProcessText(c.Request.Context(), extraction.Text)
	if err != nil {
		if errors.Is(err, common.ErrNoExtractableText) {
			c.JSON(http.StatusOK, notMachineReadableResponse())
			return
		}
		s.log.Error("server.upload.pipeline_failed", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"message": "analysis service error", "detail": err.Error()})
		return
	}

	// Persist lab results only; a storage failure must not lose the
	// analysis the user is waiting for.
	if resp.Type == constants.ResultTypeLab {
		if _, err := s.results.UpsertLatest(c.Request.Context(), userID, resp.Items, resp.Analysis); err != nil {
			s.log.Error("server.upload.store_failed", "user_id", userID, "error", err)
		}
	}

	c.JSON(http.StatusOK, resp)
}

// notMachineReadableResponse is the terminal outcome for documents with
// no text layer: classified as non-lab without invoking any external
// capability.
func notMachineReadableResponse() entity.AnalysisResponse {
	return entity.AnalysisResponse{
		Type:       constants.ResultTypeNonLab,
		Confidence: 0,
		Reason:     "No text in PDF (likely scanned); OCR required",
		Items:      []entity.MeasurementRecord{},
		Analysis:   nil,
	}
}
