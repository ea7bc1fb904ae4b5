package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdelarosa/expediente-engine/internal/common"
	"github.com/hdelarosa/expediente-engine/internal/llm"
)

func tempPDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 test"), 0o644))
	return path
}

func newTestServer(t *testing.T, payload string, uploads, responses *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/files":
			*uploads++
			require.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "user_data", r.FormValue("purpose"))
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "file-abc"})
		case "/responses":
			*responses++
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			_ = json.NewEncoder(w).Encode(map[string]any{
				"output": []map[string]any{
					{"content": []map[string]string{{"text": payload}}},
				},
			})
		default:
			http.NotFound(w, r)
		}
	}))
}

func TestClassifyHappyPath(t *testing.T) {
	payload := `{
		"document": {"nombre_detectado": "Licencia de Construccion", "coincide_catalogo": true},
		"metadatos": {"folio_documento": "LC-1", "fecha_expedicion": "2024-01-10"},
		"entidad_emisora": {"nombre": "Municipio de Durango", "nivel": "municipal"}
	}`
	var uploads, responses int
	srv := newTestServer(t, payload, &uploads, &responses)
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, LenientOptional: true}, nil)
	doc, raw, err := c.Classify(context.Background(), llm.ClassifyRequest{FilePath: tempPDF(t)})

	require.NoError(t, err)
	assert.Equal(t, 1, uploads)
	assert.Equal(t, 1, responses)
	assert.NotEmpty(t, raw)
	assert.Equal(t, "Licencia de Construccion", doc.Document.DetectedName)
	assert.Equal(t, "2024-01-10", doc.Metadata.IssuanceDate)
	assert.Equal(t, "municipal", doc.Issuer.Level)
}

func TestClassifyLenientSanitizeRecoversBadOptionalDate(t *testing.T) {
	payload := `{
		"document": {"nombre_detectado": "Licencia"},
		"metadatos": {"folio_documento": "LC-1", "vigencia_documento": "sin vigencia"}
	}`
	var uploads, responses int
	srv := newTestServer(t, payload, &uploads, &responses)
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, LenientOptional: true}, nil)
	doc, _, err := c.Classify(context.Background(), llm.ClassifyRequest{FilePath: tempPDF(t)})

	require.NoError(t, err)
	assert.Empty(t, doc.Metadata.ValidityDate)
}

func TestClassifyMalformedReplyIsTerminal(t *testing.T) {
	// Parseable JSON lacking the required sections must fail validation.
	payload := `{"resultado": "ok"}`
	var uploads, responses int
	srv := newTestServer(t, payload, &uploads, &responses)
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, LenientOptional: true}, nil)
	_, _, err := c.Classify(context.Background(), llm.ClassifyRequest{FilePath: tempPDF(t)})

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMalformed)
	assert.Equal(t, 1, responses, "a schema failure must not trigger a retry")
}

func TestClassifyUploadFailureIsTerminal(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "quota exceeded", http.StatusPaymentRequired)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, _, err := c.Classify(context.Background(), llm.ClassifyRequest{FilePath: tempPDF(t)})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "upload failure must be terminal, no retry")
}

func TestClassifyTimeoutIsTerminal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	_, _, err := c.Classify(context.Background(), llm.ClassifyRequest{FilePath: tempPDF(t)})
	assert.Error(t, err)
}

func TestClassifyMissingFileFailsBeforeAnyCall(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, nil)
	_, _, err := c.Classify(context.Background(), llm.ClassifyRequest{FilePath: "/nonexistent.pdf"})

	require.Error(t, err)
	assert.Zero(t, calls)
}
