package main

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"github.com/hdelarosa/expediente-engine/internal/entity"
	"github.com/hdelarosa/expediente-engine/internal/export"
)

// report converts a JSON array of analysis records (as produced by the
// analyzer tool) into an XLSX workbook for review.
func main() {
	logger, _ := zap.NewProduction()
	defer func() { _ = logger.Sync() }()
	log := logger.Sugar()

	if len(os.Args) < 3 {
		log.Fatal("usage: report <records.json> <out.xlsx>")
	}
	inPath, outPath := os.Args[1], os.Args[2]

	raw, err := os.ReadFile(inPath)
	if err != nil {
		log.Fatalf("reading %s: %v", inPath, err)
	}

	var records []entity.AnalysisRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		// A single record (not wrapped in an array) is also accepted.
		var one entity.AnalysisRecord
		if err2 := json.Unmarshal(raw, &one); err2 != nil {
			log.Fatalf("decoding records: %v", err)
		}
		records = []entity.AnalysisRecord{one}
	}

	out, err := export.NewService(nil).ExportAnalysesXLSX(records)
	if err != nil {
		log.Fatalf("building workbook: %v", err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		log.Fatalf("writing %s: %v", outPath, err)
	}
	log.Infow("report written", "records", len(records), "path", outPath)
}
