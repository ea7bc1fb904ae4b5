// Package engine orchestrates one document analysis end to end: scoped
// lock acquisition, local text extraction, classification (remote service
// when configured, local pattern classifier otherwise), catalog validation
// and vigency computation. Every run yields exactly one AnalysisRecord;
// failures are synthesized into rejected records rather than surfaced as
// errors past the engine boundary.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/hdelarosa/expediente-engine/constants"
	"github.com/hdelarosa/expediente-engine/internal/classifier"
	"github.com/hdelarosa/expediente-engine/internal/common"
	"github.com/hdelarosa/expediente-engine/internal/entity"
	"github.com/hdelarosa/expediente-engine/internal/llm"
	"github.com/hdelarosa/expediente-engine/internal/lockstore"
	"github.com/hdelarosa/expediente-engine/internal/repository"
	"github.com/hdelarosa/expediente-engine/internal/textextract"
	"github.com/hdelarosa/expediente-engine/internal/validation"
	"github.com/hdelarosa/expediente-engine/internal/vigency"
)

// Evaluation tags carried on synthesized rejections.
const (
	tagLocked       = "bloqueo_concurrente"
	tagInputError   = "archivo_invalido"
	tagRemoteError  = "servicio_remoto"
	tagInternalFail = "falla_interna"
)

// Deps are the collaborators one Engine needs. Remote and Campuses are
// optional; everything else is required.
type Deps struct {
	Locks     lockstore.Store
	Extractor *textextract.Extractor
	Remote    llm.DocumentClassifier
	Local     *classifier.Classifier
	Validator *validation.Validator
	Catalog   repository.CatalogRepository
	Campuses  repository.CampusRepository
	Logger    *slog.Logger
	Now       func() time.Time
}

type Engine struct {
	locks     lockstore.Store
	extractor *textextract.Extractor
	remote    llm.DocumentClassifier
	local     *classifier.Classifier
	validator *validation.Validator
	catalog   repository.CatalogRepository
	campuses  repository.CampusRepository
	logger    *slog.Logger
	now       func() time.Time
}

func New(deps Deps) *Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Engine{
		locks:     deps.Locks,
		extractor: deps.Extractor,
		remote:    deps.Remote,
		local:     deps.Local,
		validator: deps.Validator,
		catalog:   deps.Catalog,
		campuses:  deps.Campuses,
		logger:    deps.Logger,
		now:       deps.Now,
	}
}

// Analyze runs one full analysis. It always returns a non-nil record; the
// caller distinguishes failures by validacion.coincide and the metadata
// status, never by a nil result.
func (e *Engine) Analyze(ctx context.Context, req entity.AnalysisRequest) *entity.AnalysisRecord {
	reqID := common.RequestIDFromContext(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
		ctx = common.WithRequestID(ctx, reqID)
	}
	logger := e.logger.With("req_id", reqID, "file", filepath.Base(req.FilePath))
	logger.Info("engine.analyze.start",
		"campus_id", req.CampusID,
		"format", constants.MapExtToFormat(filepath.Ext(req.FilePath)))

	key := lockstore.Key(req.FilePath, req.CampusID, req.RequesterID)
	acquired, err := e.locks.Acquire(ctx, key)
	if err != nil {
		logger.Error("engine.lock.error", "error", err)
		return Synthesize(req, "error interno al adquirir el bloqueo de analisis", tagInternalFail)
	}
	if !acquired {
		logger.Warn("engine.lock.contended", "error", common.ErrLocked)
		return Synthesize(req, "ya existe un analisis en curso para este documento", tagLocked)
	}
	defer func() {
		if rerr := e.locks.Release(context.WithoutCancel(ctx), key); rerr != nil {
			logger.Error("engine.lock.release_error", "error", rerr)
		}
	}()

	if reason := checkInput(req.FilePath); reason != "" {
		logger.Warn("engine.input.invalid", "reason", reason)
		return Synthesize(req, reason, tagInputError)
	}

	catalog, err := e.catalog.ListActive(ctx)
	if err != nil {
		logger.Error("engine.catalog.list_error", "error", err)
		catalog = nil
	}
	required := e.lookupRequired(ctx, logger, req.RequiredDocumentID)
	campus := e.lookupCampus(ctx, logger, req.CampusID)

	extracted := e.extractor.Extract(ctx, req.FilePath)
	localConf := textextract.HeuristicConfidence(extracted.Text)
	logger.Info("engine.extract.done",
		"method", extracted.Method,
		"chars", len(extracted.Text),
		"confidence", localConf)

	filename := filepath.Base(req.FilePath)
	var doc *entity.ClassifiedDocument
	if e.remote != nil {
		doc, _, err = e.remote.Classify(ctx, llm.ClassifyRequest{
			FilePath:         req.FilePath,
			FilenameHint:     filename,
			LocalText:        extracted.Text,
			LocalConfidence:  localConf,
			Catalog:          catalog,
			RequiredDocument: required,
		})
		if err != nil {
			logger.Error("engine.remote.failed", "error", err)
			reason := "fallo del servicio de clasificacion: " + err.Error()
			if errors.Is(err, common.ErrMalformed) {
				reason = common.ErrMalformed.Error()
			}
			return Synthesize(req, reason, tagRemoteError)
		}
	} else {
		doc = e.local.Classify(extracted.Text, filename, catalog)
	}

	result := e.validator.Validate(doc, required, campus, filename)

	vig := vigency.Compute(doc.Metadata, doc.Document.DetectedName, e.now())
	doc.Metadata.IssuanceDate = vigency.NormalizeDate(doc.Metadata.IssuanceDate)
	doc.Metadata.ValidityDate = vig.ExpiryDate
	doc.Metadata.DaysRemaining = vig.DaysRemaining
	doc.Metadata.Status = string(vig.Status)

	record := &entity.AnalysisRecord{
		Document: doc.Document,
		Metadata: doc.Metadata,
		Owner:    doc.Owner,
		Assignment: entity.Assignment{
			CampusID:          req.CampusID.String(),
			PDFFile:           filename,
			CaptureEmployeeID: req.RequesterID.String(),
		},
		SystemState: entity.SystemState{
			RequiresVigency: vig.RequiresVigency,
			VigencyMonths:   vig.ValidityMonths,
			ComputedStatus:  vig.Status,
		},
		Validation: result,
	}
	logger.Info("engine.analyze.done",
		"action", result.Action,
		"confidence", result.ConfidencePercent,
		"status", vig.Status)
	return record
}

// checkInput returns a rejection reason for unreadable or unsupported
// files, or "" when the file is analyzable. Runs before any remote call.
func checkInput(path string) string {
	if path == "" {
		return "no se proporciono un archivo para analizar"
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "archivo no encontrado o ilegible"
	}
	ext := constants.NormalizeExt(filepath.Ext(path))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return "extension de archivo no soportada: " + ext
	}
	return ""
}

func (e *Engine) lookupRequired(ctx context.Context, logger *slog.Logger, id *uuid.UUID) *entity.CatalogEntry {
	if id == nil {
		return nil
	}
	entry, err := e.catalog.FindByID(ctx, *id)
	if err != nil {
		// Missing catalog entry downgrades to "no required document",
		// which the validator auto-approves.
		logger.Warn("engine.catalog.required_miss", "required_id", *id, "error", err)
		return nil
	}
	return entry
}

func (e *Engine) lookupCampus(ctx context.Context, logger *slog.Logger, id uuid.UUID) *entity.Campus {
	if e.campuses == nil {
		return nil
	}
	campus, err := e.campuses.FindByID(ctx, id)
	if err != nil {
		logger.Warn("engine.campus.miss", "campus_id", id, "error", err)
		return nil
	}
	return campus
}
