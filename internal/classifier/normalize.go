// Package classifier is the local, deterministic fallback for document
// classification: weighted keyword and pattern tables scored against the
// administrator catalog, used when the remote service is unavailable or as
// a corroborating signal.
package classifier

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stopWords = map[string]struct{}{
	"de": {}, "del": {}, "la": {}, "el": {}, "los": {}, "las": {},
	"y": {}, "o": {}, "u": {}, "en": {}, "con": {}, "por": {}, "para": {},
	"un": {}, "una": {}, "al": {}, "se": {}, "que": {}, "su": {}, "sus": {},
	"este": {}, "esta": {}, "como": {}, "sobre": {},
}

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases, strips diacritics and punctuation, and collapses
// whitespace. Every comparison in this package happens in this form.
func Normalize(s string) string {
	if out, _, err := transform.String(diacriticStripper, s); err == nil {
		s = out
	}
	s = strings.ToLower(s)

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			prevSpace = false
		default:
			if !prevSpace {
				b.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokenize splits normalized text into tokens.
func Tokenize(s string) []string {
	return strings.Fields(Normalize(s))
}

// SignificantKeywords extracts the scoring vocabulary of a catalog entry:
// normalized tokens from name and description, stop-words and short tokens
// removed, duplicates collapsed. Order preserved (name tokens first).
func SignificantKeywords(name, description string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range append(Tokenize(name), Tokenize(description)...) {
		if len([]rune(tok)) < 3 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
