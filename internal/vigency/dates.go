// Package vigency converts heterogeneous date representations to ISO form
// and derives the validity window of a classified document.
package vigency

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hdelarosa/expediente-engine/constants"
)

var spanishMonths = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"setiembre": time.September, "octubre": time.October,
	"noviembre": time.November, "diciembre": time.December,
}

var (
	reISODate  = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	reLongDate = regexp.MustCompile(`^(\d{1,2})\s+de\s+([a-z]+)\s+de\s+(\d{4})$`)
)

// NormalizeDate converts a raw date string to ISO YYYY-MM-DD. It accepts
// already-ISO dates (idempotent), the no-expiry sentinel, and the long
// Spanish form "DD de <mes> de YYYY". Anything else fails closed to "":
// the normalizer never guesses.
func NormalizeDate(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return ""
	}
	s = stripAccents(s)

	if s == constants.NoExpirySentinel {
		return constants.NoExpirySentinel
	}
	if m := reISODate.FindStringSubmatch(s); m != nil {
		if _, err := time.Parse("2006-01-02", s); err == nil {
			return s
		}
		return ""
	}
	if m := reLongDate.FindStringSubmatch(s); m != nil {
		month, ok := spanishMonths[m[2]]
		if !ok {
			return ""
		}
		iso := fmt.Sprintf("%s-%02d-%s", m[3], int(month), pad2(m[1]))
		if _, err := time.Parse("2006-01-02", iso); err != nil {
			return ""
		}
		return iso
	}
	return ""
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}

// stripAccents covers the handful of accented runes date strings carry;
// the general normalizer lives in the classifier package but dates only
// ever need these.
func stripAccents(s string) string {
	r := strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n")
	return r.Replace(s)
}
