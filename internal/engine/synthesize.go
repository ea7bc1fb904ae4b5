package engine

import (
	"path/filepath"

	"github.com/hdelarosa/expediente-engine/constants"
	"github.com/hdelarosa/expediente-engine/internal/entity"
)

// Synthesize builds a schema-complete rejected analysis from a failure
// reason. The result carries the same top-level sections as a successful
// analysis so consumers never special-case failures structurally.
func Synthesize(req entity.AnalysisRequest, reason, tag string) *entity.AnalysisRecord {
	return &entity.AnalysisRecord{
		Document: entity.ExtractedDocument{
			DetectedName:      constants.UnidentifiedDocumentName,
			CatalogMatchID:    constants.UnidentifiedDocumentID,
			TypeLabel:         constants.GenericDocumentLabel,
			MatchesCatalog:    false,
			Description:       reason,
			MeetsRequirements: false,
		},
		Metadata: entity.Metadata{
			ValidityDate: constants.NoExpirySentinel,
			Status:       string(constants.DocumentRejected),
		},
		Assignment: entity.Assignment{
			CampusID:          req.CampusID.String(),
			PDFFile:           filepath.Base(req.FilePath),
			CaptureEmployeeID: req.RequesterID.String(),
		},
		SystemState: entity.SystemState{
			RequiresVigency: false,
			ComputedStatus:  constants.VigencyPending,
		},
		Validation: entity.ValidationResult{
			Matches:       false,
			Reason:        reason,
			Action:        constants.ActionReject,
			DetectedName:  constants.UnidentifiedDocumentName,
			EvaluationTag: tag,
		},
	}
}
