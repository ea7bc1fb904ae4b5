package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/hdelarosa/expediente-engine/internal/entity"
)

// Service produces XLSX bytes from analysis records so campus staff can
// review a batch of validations outside the system.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportAnalysesXLSX returns an XLSX workbook (as bytes) with one row per
// analysis record.
func (s *Service) ExportAnalysesXLSX(records []entity.AnalysisRecord) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Analisis"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		_, err := f.NewSheet(sheet)
		if err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)

	headers := []string{
		"Archivo",
		"Campus",
		"Documento Detectado",
		"Coincide",
		"Confianza %",
		"Accion",
		"Razon",
		"Fecha Expedicion",
		"Vigencia",
		"Dias Restantes",
		"Estado",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	for _, r := range records {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, v)
		}

		write(1, r.Assignment.PDFFile)
		write(2, r.Assignment.CampusID)
		write(3, r.Document.DetectedName)
		write(4, r.Validation.Matches)
		write(5, r.Validation.ConfidencePercent)
		write(6, string(r.Validation.Action))
		write(7, truncate(r.Validation.Reason, 140))
		write(8, r.Metadata.IssuanceDate)
		write(9, r.Metadata.ValidityDate)
		write(10, r.Metadata.DaysRemaining)
		write(11, r.Metadata.Status)

		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 36) // filename
	_ = f.SetColWidth(sheet, "B", "B", 38) // campus id
	_ = f.SetColWidth(sheet, "C", "C", 40) // detected name
	_ = f.SetColWidth(sheet, "D", "F", 12) // decision columns
	_ = f.SetColWidth(sheet, "G", "G", 60) // reason
	_ = f.SetColWidth(sheet, "H", "J", 16) // dates
	_ = f.SetColWidth(sheet, "K", "K", 14) // status

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
