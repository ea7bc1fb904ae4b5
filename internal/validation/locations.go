package validation

import (
	"strings"

	"github.com/hdelarosa/expediente-engine/internal/classifier"
	"github.com/hdelarosa/expediente-engine/internal/entity"
)

// cityAliases maps every spelling of a city to one canonical form. The
// capital is the usual offender: documents name it four different ways.
var cityAliases = map[string]string{
	"cdmx":             "cdmx",
	"ciudad de mexico": "cdmx",
	"distrito federal": "cdmx",
	"mexico df":        "cdmx",
	"mexico d f":       "cdmx",

	"guadalajara": "guadalajara",
	"zapopan":     "guadalajara",

	"monterrey":              "monterrey",
	"san pedro garza garcia": "monterrey",

	"durango":             "durango",
	"victoria de durango": "durango",

	"puebla":    "puebla",
	"queretaro": "queretaro",
	"leon":      "leon",
	"torreon":   "torreon",
	"merida":    "merida",
	"tijuana":   "tijuana",
	"chihuahua": "chihuahua",
	"culiacan":  "culiacan",
	"saltillo":  "saltillo",
	"toluca":    "toluca",
	"morelia":   "morelia",
}

// CanonicalCity resolves a raw city mention to its canonical form, or ""
// when the city is not in the alias table.
func CanonicalCity(raw string) string {
	norm := classifier.Normalize(raw)
	if canon, ok := cityAliases[norm]; ok {
		return canon
	}
	// Mentions often arrive embedded ("expedido en la ciudad de Durango,
	// Dgo."); fall back to a substring pass, longest aliases first so
	// "ciudad de mexico" beats "mexico".
	best := ""
	bestLen := 0
	for alias, canon := range cityAliases {
		if len(alias) > bestLen && strings.Contains(norm, alias) {
			best = canon
			bestLen = len(alias)
		}
	}
	return best
}

// DetectedCities collects every canonical city mentioned anywhere in the
// classification result. Order is not significant; duplicates collapsed.
func DetectedCities(doc *entity.ClassifiedDocument) []string {
	fields := []string{
		doc.Metadata.IssuancePlace,
		doc.Metadata.PropertyAddress,
		doc.Metadata.IssuingEntity,
		doc.Metadata.Area,
		doc.Document.DetectedName,
		doc.Document.Description,
		doc.Document.Remarks,
		doc.Issuer.Name,
	}
	norm := classifier.Normalize(strings.Join(fields, " | "))

	seen := make(map[string]struct{})
	var out []string
	for alias, canon := range cityAliases {
		if !strings.Contains(norm, alias) {
			continue
		}
		if _, dup := seen[canon]; dup {
			continue
		}
		seen[canon] = struct{}{}
		out = append(out, canon)
	}
	return out
}
