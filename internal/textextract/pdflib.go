package textextract

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfLibText is strategy 2: parse the document with the embedded PDF
// library. Recovers from library panics (malformed files trip them).
func (e *Extractor) pdfLibText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf parse panic: %v", r)
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("textextract.pdflib.close_error", "path", path, "error", cerr)
		}
	}()

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\f\n")
		}
		b.WriteString(content)
	}
	return b.String(), nil
}
