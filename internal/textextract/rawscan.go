package textextract

import (
	"io"
	"os"
	"regexp"
	"strings"
)

// A PDF content stream carries literal text in parenthesized runs and in
// bracket-delimited TJ show operators. Scanning the raw bytes for those,
// plus a curated list of domain tokens and locale date patterns, recovers
// something useful even from files both real parsers choke on.
var (
	reParenRun   = regexp.MustCompile(`\(([^()\\]{2,})\)`)
	reShowOp     = regexp.MustCompile(`\[((?:[^\[\]\\]|\\.)+)\]\s*TJ`)
	reLongDate   = regexp.MustCompile(`(?i)\b\d{1,2}\s+de\s+[a-záéíóúñ]+\s+de\s+\d{4}\b`)
	reSlashDate  = regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`)
	reDashDate   = regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{4}\b`)
	reISODate    = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	reAlphaRun   = regexp.MustCompile(`[A-Za-zÁÉÍÓÚÑáéíóúñ]{3,}`)
	reYearToken  = regexp.MustCompile(`\b20\d{2}\b`)
)

// domainTokens are high-value substrings worth reporting even in isolation:
// issuing-body names, month names, year markers.
var domainTokens = []string{
	"secretaria", "secretaría", "ayuntamiento", "municipio", "municipal",
	"gobierno", "estado", "federal", "direccion", "dirección",
	"desarrollo urbano", "obras publicas", "obras públicas",
	"proteccion civil", "protección civil", "uso de suelo", "licencia",
	"constancia", "certificado", "dictamen", "permiso", "folio",
	"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio",
	"agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// rawScan is strategy 3, the last resort before giving up on local text.
func (e *Extractor) rawScan(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, e.cfg.MaxBytes))
	if err != nil {
		return "", err
	}

	var parts []string
	seen := make(map[string]struct{})
	add := func(s string) {
		s = strings.TrimSpace(s)
		if len(s) < 2 {
			return
		}
		if _, dup := seen[s]; dup {
			return
		}
		seen[s] = struct{}{}
		parts = append(parts, s)
	}

	for _, m := range reParenRun.FindAllSubmatch(raw, -1) {
		if isMostlyPrintable(m[1]) {
			add(string(m[1]))
		}
	}
	for _, m := range reShowOp.FindAllSubmatch(raw, -1) {
		for _, inner := range reParenRun.FindAllSubmatch(m[1], -1) {
			if isMostlyPrintable(inner[1]) {
				add(string(inner[1]))
			}
		}
	}

	lower := strings.ToLower(string(raw))
	for _, tok := range domainTokens {
		if strings.Contains(lower, tok) {
			add(tok)
		}
	}
	for _, re := range []*regexp.Regexp{reLongDate, reSlashDate, reDashDate, reISODate, reYearToken} {
		for _, m := range re.FindAllString(string(raw), -1) {
			add(m)
		}
	}

	text := strings.Join(parts, " ")
	if len(text) < 100 {
		// Too little signal; broaden to every run of three or more letters.
		for _, m := range reAlphaRun.FindAll(raw, -1) {
			add(string(m))
		}
		text = strings.Join(parts, " ")
	}
	return text, nil
}

func isMostlyPrintable(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	printable := 0
	for _, c := range b {
		if c >= 0x20 && c < 0x7f {
			printable++
		}
	}
	return printable*10 >= len(b)*8
}
