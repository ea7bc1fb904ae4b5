package validation

import (
	"github.com/hdelarosa/expediente-engine/internal/classifier"
)

// synonymGroups is the curated domain synonym table. Words in one group
// satisfy each other during the name-overlap check.
var synonymGroups = [][]string{
	{"rfc", "fiscal", "identificacion", "situacion", "contribuyente"},
	{"suelo", "terreno", "predio", "inmueble", "propiedad"},
	{"legal", "juridico", "acreditacion", "posesion"},
	{"licencia", "permiso", "autorizacion"},
	{"constancia", "certificado", "certificacion"},
	{"dictamen", "peritaje", "opinion"},
	{"construccion", "obra", "edificacion"},
	{"escritura", "titulo", "registro"},
	{"alineamiento", "alineacion"},
	{"cedula", "credencial"},
	{"vigencia", "validez"},
	{"plano", "croquis"},
}

// synonymIndex maps each word to its group id for O(1) expansion.
var synonymIndex = func() map[string]int {
	idx := make(map[string]int)
	for i, group := range synonymGroups {
		for _, w := range group {
			idx[w] = i
		}
	}
	return idx
}()

// wordsEquivalent reports whether two normalized words satisfy each other:
// identical, or members of the same synonym group.
func wordsEquivalent(a, b string) bool {
	if a == b {
		return true
	}
	ga, okA := synonymIndex[a]
	gb, okB := synonymIndex[b]
	return okA && okB && ga == gb
}

// SynonymOverlapPercent computes how much of the required document name is
// covered by the detected name and filename, counting synonyms as hits.
func SynonymOverlapPercent(requiredName, detectedName, filename string) int {
	required := classifier.SignificantKeywords(requiredName, "")
	if len(required) == 0 {
		return 0
	}

	candidates := append(classifier.Tokenize(detectedName), classifier.Tokenize(filename)...)
	hits := 0
	for _, req := range required {
		for _, cand := range candidates {
			if wordsEquivalent(req, cand) {
				hits++
				break
			}
		}
	}
	return hits * 100 / len(required)
}
