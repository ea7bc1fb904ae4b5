package validation

import (
	"fmt"
	"strings"

	"github.com/hdelarosa/expediente-engine/internal/classifier"
)

// strictRule guards catalog entries whose names overlap heavily with
// genuinely different document types. A forbidden keyword present, or a
// required keyword absent, is an immediate reject naming the offender.
type strictRule struct {
	mustAll   []string
	mustOneOf []string
	forbidden []string
}

// strictRules is keyed by the normalized catalog entry name.
var strictRules = map[string]strictRule{
	"uso de suelo estatal": {
		mustAll:   []string{"uso", "suelo"},
		mustOneOf: []string{"estatal", "estado"},
		forbidden: []string{"municipal"},
	},
	"uso de suelo municipal": {
		mustAll:   []string{"uso", "suelo"},
		forbidden: []string{"estatal"},
	},
	"acreditacion de uso legal del inmueble": {
		mustAll:   []string{"legal"},
		mustOneOf: []string{"inmueble", "propiedad", "predio", "posesion"},
	},
	"constancia de alineamiento y numero oficial": {
		mustAll:   []string{"alineamiento"},
		mustOneOf: []string{"numero oficial", "no oficial"},
	},
}

// applyStrictRule checks the detected name against the strict rule for the
// required entry, if one exists. Returns (handled, reason): handled=false
// means no strict rule applies; a non-empty reason means reject.
func applyStrictRule(requiredName, detectedName string) (bool, string) {
	rule, ok := strictRules[classifier.Normalize(requiredName)]
	if !ok {
		return false, ""
	}
	detected := classifier.Normalize(detectedName)

	for _, kw := range rule.forbidden {
		if strings.Contains(detected, kw) {
			return true, fmt.Sprintf("el nombre detectado contiene la palabra prohibida %q para %q", kw, requiredName)
		}
	}
	for _, kw := range rule.mustAll {
		if !strings.Contains(detected, kw) {
			return true, fmt.Sprintf("el nombre detectado no contiene la palabra requerida %q para %q", kw, requiredName)
		}
	}
	if len(rule.mustOneOf) > 0 {
		found := false
		for _, kw := range rule.mustOneOf {
			if strings.Contains(detected, kw) {
				found = true
				break
			}
		}
		if !found {
			return true, fmt.Sprintf("el nombre detectado no contiene ninguna de las palabras %v para %q", rule.mustOneOf, requiredName)
		}
	}
	return true, ""
}
