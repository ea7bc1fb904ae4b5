package classifier

import (
	"strings"

	"github.com/hdelarosa/expediente-engine/constants"
)

// typePattern assigns a coarse type label from three keyword tiers:
// principal words weigh 3, contextual words weigh 1, and seeing two or more
// form-confirmation words adds a flat 2.
type typePattern struct {
	label      string
	principal  []string
	contextual []string
	formWords  []string
}

const (
	principalWeight = 3.0
	contextWeight   = 1.0
	formBonus       = 2.0
	minTypeScore    = 1.0
)

var typePatterns = []typePattern{
	{
		label:      "constancia de alineamiento y numero oficial",
		principal:  []string{"alineamiento", "numero oficial"},
		contextual: []string{"vialidad", "paramento", "colindancia", "predio"},
		formWords:  []string{"constancia", "folio", "expedicion"},
	},
	{
		label:      "dictamen de seguridad estructural",
		principal:  []string{"seguridad estructural", "estructural"},
		contextual: []string{"perito", "corresponsable", "edificacion", "inmueble"},
		formWords:  []string{"dictamen", "cedula", "responsiva"},
	},
	{
		label:      "constancia de uso de suelo",
		principal:  []string{"uso de suelo", "uso del suelo"},
		contextual: []string{"zonificacion", "compatibilidad", "predio", "giro"},
		formWords:  []string{"constancia", "licencia", "folio"},
	},
	{
		label:      "licencia de construccion",
		principal:  []string{"licencia de construccion", "obra"},
		contextual: []string{"edificacion", "ampliacion", "remodelacion", "metros cuadrados"},
		formWords:  []string{"licencia", "folio", "vigencia"},
	},
	{
		label:      "dictamen de proteccion civil",
		principal:  []string{"proteccion civil"},
		contextual: []string{"riesgo", "medidas de seguridad", "simulacro", "extintores"},
		formWords:  []string{"dictamen", "constancia", "folio"},
	},
	{
		label:      "poliza de seguro",
		principal:  []string{"poliza"},
		contextual: []string{"aseguradora", "prima", "cobertura", "siniestro"},
		formWords:  []string{"vigencia", "endoso"},
	},
}

// issuerPattern detects a known issuing entity using the same tier scheme
// plus a per-entity minimum score.
type issuerPattern struct {
	name       string
	level      constants.IssuanceLevel
	principal  []string
	contextual []string
	minScore   float64
}

var issuerPatterns = []issuerPattern{
	{
		name:       "Secretaria de Desarrollo Urbano",
		level:      constants.LevelState,
		principal:  []string{"secretaria de desarrollo urbano", "desarrollo urbano y obras publicas"},
		contextual: []string{"gobierno del estado", "direccion estatal"},
		minScore:   3,
	},
	{
		name:       "Direccion Municipal de Desarrollo Urbano",
		level:      constants.LevelMunicipal,
		principal:  []string{"direccion municipal", "ayuntamiento"},
		contextual: []string{"municipio", "presidencia municipal", "cabildo"},
		minScore:   3,
	},
	{
		name:       "Coordinacion Municipal de Proteccion Civil",
		level:      constants.LevelMunicipal,
		principal:  []string{"proteccion civil"},
		contextual: []string{"coordinacion municipal", "unidad municipal"},
		minScore:   3,
	},
	{
		name:       "Instituto Registral y Catastral",
		level:      constants.LevelState,
		principal:  []string{"registro publico de la propiedad", "catastro"},
		contextual: []string{"folio real", "inscripcion"},
		minScore:   3,
	},
	{
		name:       "Secretaria de Hacienda y Credito Publico",
		level:      constants.LevelFederal,
		principal:  []string{"hacienda y credito publico", "sat"},
		contextual: []string{"rfc", "constancia de situacion fiscal", "regimen"},
		minScore:   3,
	},
}

// DetectTypeLabel returns the highest-scoring coarse label, or the generic
// placeholder when nothing clears the minimum.
func DetectTypeLabel(text string) string {
	norm := Normalize(text)
	bestLabel := constants.GenericDocumentLabel
	bestScore := 0.0
	for _, p := range typePatterns {
		score := scoreTiers(norm, p.principal, p.contextual, p.formWords)
		if score >= minTypeScore && score > bestScore {
			bestScore = score
			bestLabel = p.label
		}
	}
	return bestLabel
}

// DetectIssuer returns the best-matching known issuing entity and its
// level, or empty values when no entity clears its own threshold.
func DetectIssuer(text string) (string, constants.IssuanceLevel) {
	norm := Normalize(text)
	var bestName string
	var bestLevel constants.IssuanceLevel
	bestScore := 0.0
	for _, p := range issuerPatterns {
		score := scoreTiers(norm, p.principal, p.contextual, nil)
		if score >= p.minScore && score > bestScore {
			bestScore = score
			bestName = p.name
			bestLevel = p.level
		}
	}
	return bestName, bestLevel
}

func scoreTiers(norm string, principal, contextual, formWords []string) float64 {
	var score float64
	for _, w := range principal {
		if strings.Contains(norm, w) {
			score += principalWeight
		}
	}
	for _, w := range contextual {
		if strings.Contains(norm, w) {
			score += contextWeight
		}
	}
	formHits := 0
	for _, w := range formWords {
		if strings.Contains(norm, w) {
			formHits++
		}
	}
	if formHits >= 2 {
		score += formBonus
	}
	return score
}
