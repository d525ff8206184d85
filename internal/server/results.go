package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ozanyurtsever/labsense/internal/common"
)

// LatestResult returns the caller's stored lab result, or 404 when none
// has been accepted yet.
func (s *Server) LatestResult(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	res, err := s.results.GetLatest(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "no lab result stored"})
			return
		}
		s.log.Error("server.results.load_failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not load result"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// ExportResults streams the stored measurements as an XLSX download.
func (s *Server) ExportResults(c *gin.Context) {
	userID, ok := s.userID(c)
	if !ok {
		return
	}

	data, err := s.export.ExportResultsXLSX(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "no lab result stored"})
			return
		}
		s.log.Error("server.results.export_failed", "user_id", userID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "could not export result"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="lab-results.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
