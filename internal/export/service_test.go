package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/hdelarosa/expediente-engine/constants"
	"github.com/hdelarosa/expediente-engine/internal/entity"
)

func TestExportAnalysesXLSX(t *testing.T) {
	records := []entity.AnalysisRecord{
		{
			Document: entity.ExtractedDocument{DetectedName: "licencia de construcción"},
			Metadata: entity.Metadata{
				IssuanceDate:  "2024-01-10",
				ValidityDate:  "2025-01-10",
				DaysRemaining: -285,
				Status:        string(constants.VigencyExpired),
			},
			Assignment: entity.Assignment{PDFFile: "licencia.pdf", CampusID: "c-1"},
			Validation: entity.ValidationResult{
				Matches:           true,
				ConfidencePercent: 100,
				Action:            constants.ActionApprove,
				Reason:            "coincidencia exacta",
			},
		},
		{
			Document:   entity.ExtractedDocument{DetectedName: constants.UnidentifiedDocumentName},
			Metadata:   entity.Metadata{ValidityDate: constants.NoExpirySentinel, Status: string(constants.DocumentRejected)},
			Assignment: entity.Assignment{PDFFile: "otro.pdf", CampusID: "c-2"},
			Validation: entity.ValidationResult{Action: constants.ActionReject, Reason: "fallo del servicio"},
		},
	}

	out, err := NewService(nil).ExportAnalysesXLSX(records)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	f, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Analisis")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Archivo", rows[0][0])
	assert.Equal(t, "licencia.pdf", rows[1][0])
	assert.Equal(t, "licencia de construcción", rows[1][2])
	assert.Equal(t, "aprobar", rows[1][5])
	assert.Equal(t, "otro.pdf", rows[2][0])
	assert.Equal(t, constants.NoExpirySentinel, rows[2][8])
}

func TestExportAnalysesXLSXEmpty(t *testing.T) {
	out, err := NewService(nil).ExportAnalysesXLSX(nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
