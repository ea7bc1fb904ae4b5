package llm

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// localTextEmbedThreshold gates whether locally extracted text is worth
// putting in front of the model at all.
const localTextEmbedThreshold = 0.35

// localTextByteLimit bounds how much extracted text gets embedded in the
// user prompt.
const localTextByteLimit = 3000

// BuildSystemPrompt composes the instruction: output discipline, the full
// active catalog, and the highlighted expected-document block when a
// specific catalog entry was requested.
func BuildSystemPrompt(req ClassifyRequest) string {
	parts := []string{
		"Eres un analista de documentos oficiales mexicanos. Responde UNICAMENTE con JSON que cumpla el esquema proporcionado.",
		"Usa fechas ISO-8601 (YYYY-MM-DD). Si el documento no tiene vigencia definida, usa la fecha " + "2099-12-31" + ".",
		"Nunca devuelvas null. Si un campo no aparece en el documento, omitelo.",
		"Catalogo de documentos requeridos (id | nombre | descripcion | entidad emisora | nivel):",
		buildCatalogBlock(req),
	}

	if req.RequiredDocument != nil {
		d := req.RequiredDocument
		parts = append(parts,
			"=== DOCUMENTO ESPERADO ===",
			fmt.Sprintf("Se espera especificamente: %q (id %s, nivel %s, emite %s).",
				d.Name, d.ID, d.Level, d.IssuingEntity),
			"Evalua EQUIVALENCIA FUNCIONAL, no coincidencia exacta de id: un documento distinto que cumple la misma funcion legal puede satisfacer el requisito. Reporta en 'cumple_requisitos' tu juicio y en 'observaciones' el porque.",
		)
	}

	parts = append(parts,
		"Extrae en 'metadatos' folio, entidad y area emisora, firmante y puesto, perito y cedula si aparecen, fechas de expedicion y vigencia, direccion del inmueble, fundamento legal y lugar de expedicion.",
	)
	return strings.Join(parts, "\n")
}

// BuildUserPrompt packages the filename hint and, when confident enough,
// the locally extracted text.
func BuildUserPrompt(req ClassifyRequest) string {
	var b strings.Builder
	if f := strings.TrimSpace(req.FilenameHint); f != "" {
		b.WriteString("Nombre del archivo: ")
		b.WriteString(f)
		b.WriteString("\n")
	}

	text := strings.TrimSpace(req.LocalText)
	if text != "" && req.LocalConfidence >= localTextEmbedThreshold {
		b.WriteString("\nTexto extraido localmente (primeros ~3k caracteres):\n")
		if len(text) > localTextByteLimit {
			b.WriteString(truncateOnRune(text, localTextByteLimit))
			b.WriteString("\n…(truncado)")
		} else {
			b.WriteString(text)
		}
	} else {
		b.WriteString("\nNota: el archivo adjunto es la unica fuente confiable; analiza su contenido directamente.\n")
	}
	return b.String()
}

// truncateOnRune cuts s to at most limit bytes without splitting a
// multi-byte rune.
func truncateOnRune(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}

func buildCatalogBlock(req ClassifyRequest) string {
	var b strings.Builder
	for _, e := range req.Catalog {
		if !e.Active {
			continue
		}
		fmt.Fprintf(&b, "- %s | %s | %s | %s | %s\n",
			e.ID, e.Name, e.Description, e.IssuingEntity, e.Level)
	}
	if b.Len() == 0 {
		return "(catalogo vacio)"
	}
	return strings.TrimRight(b.String(), "\n")
}
