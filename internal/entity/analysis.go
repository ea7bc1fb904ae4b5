package entity

import (
	"github.com/google/uuid"

	"github.com/hdelarosa/expediente-engine/constants"
)

// AnalysisRequest describes one upload to analyze. Created once; immutable.
type AnalysisRequest struct {
	FilePath           string
	CampusID           uuid.UUID
	RequesterID        uuid.UUID
	RequiredDocumentID *uuid.UUID
}

// ValidationResult is the authoritative accept/reject decision. Every code
// path through the engine terminates in exactly one of these.
type ValidationResult struct {
	Matches           bool                       `json:"coincide"`
	ConfidencePercent int                        `json:"porcentaje_confianza"`
	Reason            string                     `json:"razon"`
	Action            constants.ValidationAction `json:"accion"`
	ExpectedName      string                     `json:"nombre_esperado,omitempty"`
	DetectedName      string                     `json:"nombre_detectado,omitempty"`
	EvaluationTag     string                     `json:"etiqueta_evaluacion,omitempty"`
}

// Assignment ties the analyzed file back to its campus and capturer.
type Assignment struct {
	CampusID          string `json:"campus_id"`
	PDFFile           string `json:"archivo_pdf"`
	CaptureEmployeeID string `json:"empleado_captura_id"`
}

// SystemState carries the vigency policy outcome for the document.
type SystemState struct {
	RequiresVigency bool                    `json:"requiere_vigencia"`
	VigencyMonths   int                     `json:"vigencia_meses"`
	ComputedStatus  constants.VigencyStatus `json:"estado_calculado"`
}

// AnalysisRecord is the flattened engine output contract handed to
// collaborators. Rejection paths produce the same shape as successes.
type AnalysisRecord struct {
	Document    ExtractedDocument `json:"documento"`
	Metadata    Metadata          `json:"metadatos"`
	Owner       OwnerInfo         `json:"propietario,omitempty"`
	Assignment  Assignment        `json:"asignacion"`
	SystemState SystemState       `json:"estado_sistema"`
	Validation  ValidationResult  `json:"validacion"`
}
