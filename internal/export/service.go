package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ozanyurtsever/labsense/internal/repository"
)

// Service produces XLSX bytes from a user's stored lab result.
type Service struct {
	resultsRepo repository.LabResultRepository
	logger      *slog.Logger
}

func NewService(resultsRepo repository.LabResultRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{resultsRepo: resultsRepo, logger: logger}
}

// ExportResultsXLSX returns an XLSX workbook (as bytes) with one row per
// stored measurement for the user.
func (s *Service) ExportResultsXLSX(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	start := time.Now()

	res, err := s.resultsRepo.GetLatest(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("query lab result: %w", err)
	}

	f := excelize.NewFile()
	const sheet = "Lab Results"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}
	if idx, _ := f.GetSheetIndex(sheet); idx != -1 {
		f.SetActiveSheet(idx)
	}
	_ = f.DeleteSheet("Sheet1")

	headers := []string{"Test", "Value", "Unit", "Ref Low", "Ref High", "Out of Range"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, it := range res.Items {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, it.Test)
		write(2, it.Value)
		if it.Unit != nil {
			write(3, *it.Unit)
		}
		if it.RefLow != nil {
			write(4, *it.RefLow)
		}
		if it.RefHigh != nil {
			write(5, *it.RefHigh)
		}
		if it.OutOfRange() {
			write(6, "YES")
		}
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 28) // test name
	_ = f.SetColWidth(sheet, "B", "F", 12)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.results.ok",
		"user_id", userID,
		"rows", len(res.Items),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
