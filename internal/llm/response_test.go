package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractContentFlatShape(t *testing.T) {
	raw := []byte(`{"text": "{\"document\": {\"nombre_detectado\": \"Licencia\"}}"}`)
	doc, err := ExtractContent(raw)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "nombre_detectado")
}

func TestExtractContentNestedShape(t *testing.T) {
	raw := []byte(`{
		"output": [
			{"content": [{"text": ""}]},
			{"content": [{"text": "{\"document\": {\"tipo_documento\": \"licencia\"}}"}]}
		]
	}`)
	doc, err := ExtractContent(raw)
	require.NoError(t, err)
	assert.Contains(t, string(doc), "tipo_documento")
}

func TestExtractContentStripsMarkdownFences(t *testing.T) {
	raw := []byte(`{"text": "` + "```json\\n{\\\"document\\\": {}}\\n```" + `"}`)
	doc, err := ExtractContent(raw)
	require.NoError(t, err)
	assert.JSONEq(t, `{"document": {}}`, string(doc))
}

func TestExtractContentRejectsNonJSONPayload(t *testing.T) {
	_, err := ExtractContent([]byte(`{"text": "lo siento, no puedo analizar este documento"}`))
	assert.Error(t, err)
}

func TestExtractContentRejectsEmptyEnvelope(t *testing.T) {
	_, err := ExtractContent([]byte(`{"output": []}`))
	assert.Error(t, err)
}
