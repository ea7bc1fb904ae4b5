package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hdelarosa/expediente-engine/constants"
	"github.com/hdelarosa/expediente-engine/internal/classifier"
	"github.com/hdelarosa/expediente-engine/internal/entity"
	"github.com/hdelarosa/expediente-engine/internal/llm"
	"github.com/hdelarosa/expediente-engine/internal/lockstore"
	"github.com/hdelarosa/expediente-engine/internal/repository"
	"github.com/hdelarosa/expediente-engine/internal/textextract"
	"github.com/hdelarosa/expediente-engine/internal/validation"
)

type stubRemote struct {
	calls int
	doc   *entity.ClassifiedDocument
	err   error
}

func (s *stubRemote) Classify(_ context.Context, _ llm.ClassifyRequest) (*entity.ClassifiedDocument, []byte, error) {
	s.calls++
	if s.err != nil {
		return nil, nil, s.err
	}
	return s.doc, []byte(`{}`), nil
}

func writeTestPDF(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := "%PDF-1.4\n" +
		"(LICENCIA DE CONSTRUCCION) Tj\n" +
		"(MUNICIPIO DE DURANGO) Tj\n" +
		"(28 de agosto de 2025) Tj\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testCatalog() ([]entity.CatalogEntry, uuid.UUID) {
	id := uuid.New()
	return []entity.CatalogEntry{
		{
			ID:            id,
			Name:          "licencia de construcción",
			Description:   "licencia municipal de obra",
			IssuingEntity: "municipio",
			Level:         constants.LevelMunicipal,
			Active:        true,
		},
	}, id
}

func newTestEngine(t *testing.T, remote llm.DocumentClassifier, entries []entity.CatalogEntry) *Engine {
	t.Helper()
	return New(Deps{
		Locks:     lockstore.NewMemoryStore(constants.LockTTLSeconds*time.Second, nil),
		Extractor: textextract.NewExtractor(textextract.Config{Pdftotext: "/nonexistent/pdftotext"}, nil),
		Remote:    remote,
		Local:     classifier.New(nil),
		Validator: validation.NewValidator(nil),
		Catalog:   repository.NewMemoryCatalog(entries),
		Now:       func() time.Time { return time.Date(2025, 10, 22, 12, 0, 0, 0, time.UTC) },
	})
}

func TestAnalyzeLocalClassifierApproves(t *testing.T) {
	entries, requiredID := testCatalog()
	e := newTestEngine(t, nil, entries)

	path := writeTestPDF(t, "licencia_de_construccion.pdf")
	rec := e.Analyze(context.Background(), entity.AnalysisRequest{
		FilePath:           path,
		CampusID:           uuid.New(),
		RequesterID:        uuid.New(),
		RequiredDocumentID: &requiredID,
	})

	require.NotNil(t, rec)
	assert.Equal(t, constants.ActionApprove, rec.Validation.Action)
	assert.True(t, rec.Validation.Matches)
	assert.Equal(t, 100, rec.Validation.ConfidencePercent)
	assert.Equal(t, requiredID.String(), rec.Document.CatalogMatchID)
	assert.Equal(t, "licencia_de_construccion.pdf", rec.Assignment.PDFFile)
	assert.Equal(t, string(constants.VigencyPending), rec.Metadata.Status)
}

func TestAnalyzeRemoteFailureSynthesizesRejection(t *testing.T) {
	entries, requiredID := testCatalog()
	remote := &stubRemote{err: context.DeadlineExceeded}
	e := newTestEngine(t, remote, entries)

	path := writeTestPDF(t, "licencia.pdf")
	rec := e.Analyze(context.Background(), entity.AnalysisRequest{
		FilePath:           path,
		CampusID:           uuid.New(),
		RequesterID:        uuid.New(),
		RequiredDocumentID: &requiredID,
	})

	require.NotNil(t, rec)
	assert.Equal(t, 1, remote.calls)
	assert.False(t, rec.Validation.Matches)
	assert.Equal(t, constants.ActionReject, rec.Validation.Action)
	assert.Equal(t, string(constants.DocumentRejected), rec.Metadata.Status)
	assert.Equal(t, constants.NoExpirySentinel, rec.Metadata.ValidityDate)
	assert.Equal(t, constants.UnidentifiedDocumentName, rec.Document.DetectedName)
}

func TestAnalyzeMissingFileSkipsRemoteCall(t *testing.T) {
	entries, _ := testCatalog()
	remote := &stubRemote{}
	e := newTestEngine(t, remote, entries)

	rec := e.Analyze(context.Background(), entity.AnalysisRequest{
		FilePath:    filepath.Join(t.TempDir(), "no_such_file.pdf"),
		CampusID:    uuid.New(),
		RequesterID: uuid.New(),
	})

	require.NotNil(t, rec)
	assert.Zero(t, remote.calls)
	assert.Equal(t, constants.ActionReject, rec.Validation.Action)
	assert.Equal(t, "archivo_invalido", rec.Validation.EvaluationTag)
}

func TestAnalyzeUnsupportedExtensionRejected(t *testing.T) {
	entries, _ := testCatalog()
	remote := &stubRemote{}
	e := newTestEngine(t, remote, entries)

	path := filepath.Join(t.TempDir(), "notas.txt")
	require.NoError(t, os.WriteFile(path, []byte("texto plano"), 0o644))

	rec := e.Analyze(context.Background(), entity.AnalysisRequest{
		FilePath:    path,
		CampusID:    uuid.New(),
		RequesterID: uuid.New(),
	})

	assert.Zero(t, remote.calls)
	assert.Equal(t, constants.ActionReject, rec.Validation.Action)
	assert.Equal(t, "archivo_invalido", rec.Validation.EvaluationTag)
}

func TestAnalyzeLockContentionRejected(t *testing.T) {
	entries, _ := testCatalog()
	remote := &stubRemote{}

	locks := lockstore.NewMemoryStore(constants.LockTTLSeconds*time.Second, nil)
	e := New(Deps{
		Locks:     locks,
		Extractor: textextract.NewExtractor(textextract.Config{Pdftotext: "/nonexistent/pdftotext"}, nil),
		Remote:    remote,
		Local:     classifier.New(nil),
		Validator: validation.NewValidator(nil),
		Catalog:   repository.NewMemoryCatalog(entries),
	})

	path := writeTestPDF(t, "licencia.pdf")
	campusID, requesterID := uuid.New(), uuid.New()

	key := lockstore.Key(path, campusID, requesterID)
	ok, err := locks.Acquire(context.Background(), key)
	require.NoError(t, err)
	require.True(t, ok)

	rec := e.Analyze(context.Background(), entity.AnalysisRequest{
		FilePath:    path,
		CampusID:    campusID,
		RequesterID: requesterID,
	})
	assert.Zero(t, remote.calls)
	assert.Equal(t, constants.ActionReject, rec.Validation.Action)
	assert.Equal(t, "bloqueo_concurrente", rec.Validation.EvaluationTag)

	require.NoError(t, locks.Release(context.Background(), key))
}

func TestAnalyzeReleasesLockOnCompletion(t *testing.T) {
	entries, requiredID := testCatalog()
	e := newTestEngine(t, nil, entries)

	path := writeTestPDF(t, "licencia_de_construccion.pdf")
	req := entity.AnalysisRequest{
		FilePath:           path,
		CampusID:           uuid.New(),
		RequesterID:        uuid.New(),
		RequiredDocumentID: &requiredID,
	}

	first := e.Analyze(context.Background(), req)
	second := e.Analyze(context.Background(), req)
	assert.NotEqual(t, "bloqueo_concurrente", first.Validation.EvaluationTag)
	assert.NotEqual(t, "bloqueo_concurrente", second.Validation.EvaluationTag)
}

func TestAnalyzeUnknownRequiredDocumentAutoApproves(t *testing.T) {
	entries, _ := testCatalog()
	e := newTestEngine(t, nil, entries)

	missing := uuid.New()
	path := writeTestPDF(t, "licencia_de_construccion.pdf")
	rec := e.Analyze(context.Background(), entity.AnalysisRequest{
		FilePath:           path,
		CampusID:           uuid.New(),
		RequesterID:        uuid.New(),
		RequiredDocumentID: &missing,
	})

	assert.Equal(t, constants.ActionApprove, rec.Validation.Action)
	assert.Equal(t, 100, rec.Validation.ConfidencePercent)
}

func TestAnalyzeLocationMismatchRejected(t *testing.T) {
	entries, requiredID := testCatalog()
	campusID := uuid.New()
	remote := &stubRemote{doc: &entity.ClassifiedDocument{
		Document: entity.ExtractedDocument{
			DetectedName:   "licencia de construcción",
			CatalogMatchID: requiredID.String(),
			MatchesCatalog: true,
		},
		Metadata: entity.Metadata{IssuancePlace: "Guadalajara, Jalisco"},
		Issuer:   entity.IssuerInfo{Name: "municipio de guadalajara", Level: "municipal"},
	}}

	e := New(Deps{
		Locks:     lockstore.NewMemoryStore(constants.LockTTLSeconds*time.Second, nil),
		Extractor: textextract.NewExtractor(textextract.Config{Pdftotext: "/nonexistent/pdftotext"}, nil),
		Remote:    remote,
		Local:     classifier.New(nil),
		Validator: validation.NewValidator(nil),
		Catalog:   repository.NewMemoryCatalog(entries),
		Campuses: repository.NewMemoryCampus([]entity.Campus{
			{ID: campusID, Name: "Campus Durango", City: "Durango", State: "Durango"},
		}),
	})

	path := writeTestPDF(t, "licencia.pdf")
	rec := e.Analyze(context.Background(), entity.AnalysisRequest{
		FilePath:           path,
		CampusID:           campusID,
		RequesterID:        uuid.New(),
		RequiredDocumentID: &requiredID,
	})

	assert.Equal(t, constants.ActionReject, rec.Validation.Action)
	assert.Equal(t, "ciudad_incompatible", rec.Validation.EvaluationTag)
	assert.Contains(t, rec.Validation.Reason, "durango")
}

func TestSynthesizeIsSchemaComplete(t *testing.T) {
	req := entity.AnalysisRequest{
		FilePath:    "/tmp/doc.pdf",
		CampusID:    uuid.New(),
		RequesterID: uuid.New(),
	}
	rec := Synthesize(req, "fallo simulado", "servicio_remoto")

	assert.Equal(t, req.CampusID.String(), rec.Assignment.CampusID)
	assert.Equal(t, "doc.pdf", rec.Assignment.PDFFile)
	assert.Equal(t, req.RequesterID.String(), rec.Assignment.CaptureEmployeeID)
	assert.Equal(t, constants.NoExpirySentinel, rec.Metadata.ValidityDate)
	assert.Equal(t, constants.VigencyPending, rec.SystemState.ComputedStatus)
	assert.Equal(t, "fallo simulado", rec.Validation.Reason)
	assert.Equal(t, "servicio_remoto", rec.Validation.EvaluationTag)
}
