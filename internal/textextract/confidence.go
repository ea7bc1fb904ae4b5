package textextract

import (
	"regexp"
	"strings"
)

var (
	reConfDate  = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{4}\b|\b\d{4}-\d{2}-\d{2}\b|(?i)\bde\s+20\d{2}\b`)
	reConfFolio = regexp.MustCompile(`(?i)\b(folio|oficio|expediente|no\.?)\s*[:.]?\s*[A-Z0-9/-]{3,}`)
	reConfBody  = regexp.MustCompile(`(?i)\b(secretar[ií]a|ayuntamiento|direcci[oó]n|municipio|gobierno)\b`)
)

// HeuristicConfidence scores locally extracted text by what an official
// document tends to contain. Used to decide whether the text is worth
// embedding in the remote prompt.
func HeuristicConfidence(txt string) float32 {
	score := float32(0.2) // base
	if reConfDate.MatchString(txt) {
		score += 0.2
	}
	if reConfFolio.MatchString(txt) {
		score += 0.15
	}
	if reConfBody.MatchString(txt) {
		score += 0.15
	}
	if len(strings.TrimSpace(txt)) > 120 {
		score += 0.1
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}
