package classifier

import (
	"sort"
	"strings"

	"github.com/agext/levenshtein"

	"github.com/hdelarosa/expediente-engine/internal/entity"
)

// Acceptance thresholds for a catalog candidate.
const (
	minCandidateScore      = 0.2
	minCandidateConfidence = 0.3

	fuzzyTokenSimilarity = 0.8
	fuzzyTokenLenDiff    = 2

	filenameSignalCap   = 0.6
	filenameStrongBonus = 0.3
	filenameStrongBar   = 0.8

	multiMatchBonus   = 0.1
	highSignalTermHit = 0.15
)

var (
	simParams = levenshtein.NewParams()
	// Scores under the fuzzy threshold are useless to bestFuzzyMatch, so
	// let the metric bail out early on them.
	fuzzyParams = levenshtein.NewParams().MinScore(fuzzyTokenSimilarity)
)

// highSignalTerms are domain words whose mere presence is strong evidence
// the text is an official document of the kind the catalog describes.
var highSignalTerms = []string{
	"folio", "municipal", "predios", "dictamen", "constancia",
	"vigencia", "expedicion", "ayuntamiento", "catastro",
}

type candidate struct {
	entry      entity.CatalogEntry
	score      float64
	confidence float64
}

// scoreEntry computes the weighted keyword score and the independent
// confidence for one catalog entry against document text and filename.
func scoreEntry(entry entity.CatalogEntry, normText, normFilename string, textTokens []string) candidate {
	keywords := SignificantKeywords(entry.Name, entry.Description)

	var keywordScore float64
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(normText, kw) {
			keywordScore += 1.0
			matches++
			continue
		}
		if sim, ok := bestFuzzyMatch(kw, textTokens); ok {
			keywordScore += sim
			matches++
		}
	}
	if len(keywords) > 0 {
		keywordScore /= float64(len(keywords))
	}
	if matches > 2 {
		keywordScore += multiMatchBonus
	}

	var termBonus float64
	for _, term := range highSignalTerms {
		if strings.Contains(normText, term) {
			termBonus += highSignalTermHit
		}
	}

	// Filename is the highest-priority signal: administrators frequently
	// name files after the exact document type.
	var filenameScore float64
	nameSim := levenshtein.Similarity(Normalize(entry.Name), normFilename, simParams)
	if overlap := tokenOverlap(Tokenize(entry.Name), strings.Fields(normFilename)); overlap > nameSim {
		nameSim = overlap
	}
	if nameSim > 0 {
		filenameScore = nameSim * filenameSignalCap
		if nameSim > filenameStrongBar {
			filenameScore += filenameStrongBonus
		}
	}

	score := keywordScore + termBonus + filenameScore

	// Confidence counts how many independent signal categories contributed:
	// filename, keywords, issuer mention, level mention.
	signals := 0
	if nameSim > 0.4 {
		signals++
	}
	if matches > 0 {
		signals++
	}
	haystack := normText + " " + normFilename
	if entry.IssuingEntity != "" && strings.Contains(haystack, Normalize(entry.IssuingEntity)) {
		signals++
	}
	if entry.Level != "" && strings.Contains(haystack, Normalize(string(entry.Level))) {
		signals++
	}
	confidence := float64(signals) / 4.0

	return candidate{entry: entry, score: score, confidence: confidence}
}

func bestFuzzyMatch(keyword string, tokens []string) (float64, bool) {
	best := 0.0
	for _, tok := range tokens {
		if diff := len(tok) - len(keyword); diff > fuzzyTokenLenDiff || diff < -fuzzyTokenLenDiff {
			continue
		}
		if sim := levenshtein.Similarity(keyword, tok, fuzzyParams); sim > best {
			best = sim
		}
	}
	return best, best >= fuzzyTokenSimilarity
}

func tokenOverlap(a, b []string) float64 {
	if len(a) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(b))
	for _, t := range b {
		set[t] = struct{}{}
	}
	hits := 0
	for _, t := range a {
		if _, ok := set[t]; ok {
			hits++
		}
	}
	return float64(hits) / float64(len(a))
}

// rankCandidates orders by confidence first, then score.
func rankCandidates(cands []candidate) []candidate {
	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].confidence != cands[j].confidence {
			return cands[i].confidence > cands[j].confidence
		}
		return cands[i].score > cands[j].score
	})
	return cands
}
