// Package validation decides whether a classified document satisfies the
// specific catalog entry an administrator asked for.
package validation

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/hdelarosa/expediente-engine/constants"
	"github.com/hdelarosa/expediente-engine/internal/classifier"
	"github.com/hdelarosa/expediente-engine/internal/entity"
)

// Overlap thresholds for the synonym-weighted name comparison. The lenient
// bar applies when the coarse type label already matched the requirement.
const (
	overlapThresholdLenient = 60
	overlapThresholdStrict  = 70
)

type Validator struct {
	logger *slog.Logger
}

func NewValidator(logger *slog.Logger) *Validator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Validator{logger: logger}
}

// Validate applies the acceptance rules in order. Unlike extraction, this
// stage fails OPEN: an unexpected fault inside the rules yields an
// approve-by-default result so a validator bug never blocks a legitimate
// document. Extraction failures are handled elsewhere and fail closed.
func (v *Validator) Validate(doc *entity.ClassifiedDocument, required *entity.CatalogEntry, campus *entity.Campus, filename string) (result entity.ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			v.logger.Error("validation.internal_fault", "panic", fmt.Sprint(r), "file", filename)
			result = entity.ValidationResult{
				Matches:           true,
				ConfidencePercent: 100,
				Reason:            "aprobado por defecto: falla interna del validador",
				Action:            constants.ActionApprove,
				ExpectedName:      requiredName(required),
				EvaluationTag:     "falla_interna",
			}
		}
	}()
	return v.validate(doc, required, campus, filename)
}

func (v *Validator) validate(doc *entity.ClassifiedDocument, required *entity.CatalogEntry, campus *entity.Campus, filename string) entity.ValidationResult {
	// 1. Nothing specific was requested.
	if required == nil {
		return approve(100, "sin documento requerido: aprobacion automatica", nil, doc, "sin_requisito")
	}

	detectedLevel := constants.ParseLevel(doc.Issuer.Level)
	if detectedLevel == "" {
		// The detected name itself often carries the tier ("uso de suelo
		// municipal") even when the issuer block came back empty.
		detectedLevel = constants.ParseLevel(doc.Document.DetectedName)
	}

	// 2. Absolute level incompatibility. No textual similarity overrides it.
	if constants.LevelsIncompatible(detectedLevel, required.Level) {
		return reject(0, fmt.Sprintf(
			"incompatibilidad de nivel de emision: el documento es %s y se requiere %s",
			detectedLevel, required.Level), required, doc, "nivel_incompatible")
	}

	// 3. Issuing-location compatibility, when we know the campus.
	if campus != nil && campus.City != "" {
		campusCity := CanonicalCity(campus.City)
		if campusCity == "" {
			// A campus city outside the alias table still participates in
			// the check; its normalized name is its own canonical form.
			campusCity = classifier.Normalize(campus.City)
		}
		cities := DetectedCities(doc)
		if len(cities) > 0 && campusCity != "" {
			matched := false
			for _, c := range cities {
				if c == campusCity {
					matched = true
					break
				}
			}
			if !matched {
				return reject(10, fmt.Sprintf(
					"el documento menciona %s pero el campus se ubica en %s",
					strings.Join(cities, ", "), campusCity), required, doc, "ciudad_incompatible")
			}
		}
		// No detected city is not a failure: unknown approves this axis.
	}

	// 4. Classifier-asserted catalog match.
	if doc.Document.MatchesCatalog && doc.Document.CatalogMatchID != "" &&
		doc.Document.CatalogMatchID != constants.UnidentifiedDocumentID {
		if doc.Document.CatalogMatchID == required.ID.String() {
			return approve(100, "coincidencia exacta con la entrada requerida del catalogo", required, doc, "coincidencia_exacta")
		}
		if detectedLevel == "" || required.Level == "" || detectedLevel == required.Level {
			return approve(85, "coincidencia de catalogo con entrada distinta pero nivel compatible", required, doc, "coincidencia_equivalente")
		}
		return reject(40, fmt.Sprintf(
			"coincidencia de catalogo con entrada distinta y nivel incompatible (%s vs %s)",
			detectedLevel, required.Level), required, doc, "nivel_distinto")
	}

	// 5. Strict keyword rules for entries with high lexical overlap risk.
	if handled, reason := applyStrictRule(required.Name, doc.Document.DetectedName); handled {
		if reason != "" {
			return reject(20, reason, required, doc, "regla_estricta")
		}
		return approve(90, "el nombre detectado cumple las reglas estrictas de palabras clave", required, doc, "regla_estricta")
	}

	// 6. Synonym-weighted overlap between requirement and detection.
	threshold := overlapThresholdStrict
	if typeLabelMatches(doc.Document.TypeLabel, required.Name) {
		threshold = overlapThresholdLenient
	}
	overlap := SynonymOverlapPercent(required.Name, doc.Document.DetectedName, filename)
	if overlap >= threshold {
		return approve(overlap, fmt.Sprintf(
			"coincidencia por sinonimos del %d%% (umbral %d%%)", overlap, threshold), required, doc, "sinonimos")
	}
	return reject(overlap, fmt.Sprintf(
		"coincidencia por sinonimos insuficiente: %d%% (umbral %d%%)", overlap, threshold), required, doc, "sinonimos")
}

func typeLabelMatches(typeLabel, requiredName string) bool {
	tl, rn := classifier.Normalize(typeLabel), classifier.Normalize(requiredName)
	if tl == "" || tl == classifier.Normalize(constants.GenericDocumentLabel) {
		return false
	}
	return strings.Contains(tl, rn) || strings.Contains(rn, tl)
}

func approve(confidence int, reason string, required *entity.CatalogEntry, doc *entity.ClassifiedDocument, tag string) entity.ValidationResult {
	return entity.ValidationResult{
		Matches:           true,
		ConfidencePercent: confidence,
		Reason:            reason,
		Action:            constants.ActionApprove,
		ExpectedName:      requiredName(required),
		DetectedName:      doc.Document.DetectedName,
		EvaluationTag:     tag,
	}
}

func reject(confidence int, reason string, required *entity.CatalogEntry, doc *entity.ClassifiedDocument, tag string) entity.ValidationResult {
	return entity.ValidationResult{
		Matches:           false,
		ConfidencePercent: confidence,
		Reason:            reason,
		Action:            constants.ActionReject,
		ExpectedName:      requiredName(required),
		DetectedName:      doc.Document.DetectedName,
		EvaluationTag:     tag,
	}
}

func requiredName(required *entity.CatalogEntry) string {
	if required == nil {
		return ""
	}
	return required.Name
}
