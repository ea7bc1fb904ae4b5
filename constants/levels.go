package constants

import "strings"

// IssuanceLevel is the governmental tier (or private origin) of a document issuer.
type IssuanceLevel string

const (
	LevelFederal   IssuanceLevel = "federal"
	LevelState     IssuanceLevel = "estatal"
	LevelMunicipal IssuanceLevel = "municipal"
	LevelPrivate   IssuanceLevel = "privado"
)

// ParseLevel maps free-form level strings ("Estatal", "ESTADO", "municipio")
// to a canonical IssuanceLevel. Returns "" when nothing matches.
func ParseLevel(s string) IssuanceLevel {
	switch v := strings.ToLower(strings.TrimSpace(s)); {
	case v == "":
		return ""
	case strings.Contains(v, "federal"):
		return LevelFederal
	case strings.Contains(v, "estat") || strings.Contains(v, "estado"):
		return LevelState
	case strings.Contains(v, "municip"):
		return LevelMunicipal
	case strings.Contains(v, "priv"):
		return LevelPrivate
	default:
		return ""
	}
}

// incompatiblePairs lists level pairs that can never satisfy each other,
// regardless of how similar the document names are. Symmetric.
var incompatiblePairs = [][2]IssuanceLevel{
	{LevelState, LevelMunicipal},
}

// LevelsIncompatible reports whether detected and required levels form a
// known-incompatible pair. Unknown or equal levels are never incompatible.
func LevelsIncompatible(a, b IssuanceLevel) bool {
	if a == "" || b == "" || a == b {
		return false
	}
	for _, p := range incompatiblePairs {
		if (p[0] == a && p[1] == b) || (p[0] == b && p[1] == a) {
			return true
		}
	}
	return false
}
