// Package server is the HTTP surface: document upload and analysis,
// plus retrieval and export of the stored latest result. Authentication
// is a collaborator concern; the caller identity arrives as a header set
// by the fronting proxy.
package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ozanyurtsever/labsense/internal/common"
	"github.com/ozanyurtsever/labsense/internal/export"
	"github.com/ozanyurtsever/labsense/internal/extract"
	"github.com/ozanyurtsever/labsense/internal/pipeline"
	"github.com/ozanyurtsever/labsense/internal/repository"
)

const userIDHeader = "X-User-ID"

type Server struct {
	log       *slog.Logger
	cfg       common.ServerConfig
	extractor extract.TextExtractor
	processor *pipeline.Processor
	results   repository.LabResultRepository
	export    *export.Service
}

func NewServer(
	logger *slog.Logger,
	cfg common.ServerConfig,
	extractor extract.TextExtractor,
	processor *pipeline.Processor,
	results repository.LabResultRepository,
	exportSvc *export.Service,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		log:       logger,
		cfg:       cfg,
		extractor: extractor,
		processor: processor,
		results:   results,
		export:    exportSvc,
	}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	api.POST("/upload", s.Upload)
	api.GET("/labs/latest", s.LatestResult)
	api.GET("/labs/export", s.ExportResults)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

// userID resolves the caller identity or writes a 401.
func (s *Server) userID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetHeader(userIDHeader)
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "missing " + userIDHeader})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "invalid " + userIDHeader})
		return uuid.Nil, false
	}
	return id, true
}
