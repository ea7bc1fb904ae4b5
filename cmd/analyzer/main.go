package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/hdelarosa/expediente-engine/internal/classifier"
	"github.com/hdelarosa/expediente-engine/internal/common"
	"github.com/hdelarosa/expediente-engine/internal/engine"
	"github.com/hdelarosa/expediente-engine/internal/entity"
	"github.com/hdelarosa/expediente-engine/internal/llm"
	"github.com/hdelarosa/expediente-engine/internal/llm/openai"
	"github.com/hdelarosa/expediente-engine/internal/lockstore"
	"github.com/hdelarosa/expediente-engine/internal/repository"
	"github.com/hdelarosa/expediente-engine/internal/textextract"
	"github.com/hdelarosa/expediente-engine/internal/validation"
)

// analyzer runs one analysis from the command line and prints the record
// as JSON. Useful for smoke-testing a catalog and credentials before the
// serving layer is involved.
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if len(os.Args) < 4 {
		logger.Error("usage: analyzer <file> <campus_id> <requester_id> [required_document_id]")
		os.Exit(2)
	}
	filePath := os.Args[1]
	campusID, err := uuid.Parse(os.Args[2])
	if err != nil {
		logger.Error("invalid campus_id", "arg", os.Args[2], "error", err)
		os.Exit(2)
	}
	requesterID, err := uuid.Parse(os.Args[3])
	if err != nil {
		logger.Error("invalid requester_id", "arg", os.Args[3], "error", err)
		os.Exit(2)
	}
	var requiredID *uuid.UUID
	if len(os.Args) >= 5 {
		id, err := uuid.Parse(os.Args[4])
		if err != nil {
			logger.Error("invalid required_document_id", "arg", os.Args[4], "error", err)
			os.Exit(2)
		}
		requiredID = &id
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	var (
		catalogRepo repository.CatalogRepository
		campusRepo  repository.CampusRepository
	)
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			logger.Error("open db", "error", err)
			os.Exit(1)
		}
		defer repository.Close(pool, logger)
		if err := repository.HealthCheck(ctx, pool, 3*time.Second, logger); err != nil {
			logger.Error("db health failed", "error", err)
			os.Exit(1)
		}
		catalogRepo = repository.NewCatalogRepository(pool, logger)
		campusRepo = repository.NewCampusRepository(pool, logger)
	} else {
		logger.Warn("DB_URL not set; running with an empty catalog")
		catalogRepo = repository.NewMemoryCatalog(nil)
	}

	var locks lockstore.Store
	if cfg.Analysis.LockStorePath != "" {
		s, err := lockstore.OpenSQLite(cfg.Analysis.LockStorePath, cfg.Analysis.LockTTL, logger)
		if err != nil {
			logger.Error("open lock store", "error", err)
			os.Exit(1)
		}
		locks = s
	} else {
		locks = lockstore.NewMemoryStore(cfg.Analysis.LockTTL, logger)
	}

	var remote llm.DocumentClassifier
	if cfg.Remote.APIKey != "" {
		remote = openai.NewClient(openai.Config{
			APIKey:  cfg.Remote.APIKey,
			BaseURL: cfg.Remote.BaseURL,
			Model:   cfg.Remote.Model,
			Timeout: cfg.Remote.Timeout,
		}, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set; using the local pattern classifier")
	}

	eng := engine.New(engine.Deps{
		Locks: locks,
		Extractor: textextract.NewExtractor(textextract.Config{
			Pdftotext: cfg.Extract.Pdftotext,
			MaxBytes:  cfg.Extract.MaxBytes,
		}, logger),
		Remote:    remote,
		Local:     classifier.New(logger),
		Validator: validation.NewValidator(logger),
		Catalog:   catalogRepo,
		Campuses:  campusRepo,
		Logger:    logger,
	})

	record := eng.Analyze(ctx, entity.AnalysisRequest{
		FilePath:           filePath,
		CampusID:           campusID,
		RequesterID:        requesterID,
		RequiredDocumentID: requiredID,
	})

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(record); err != nil {
		logger.Error("encode record", "error", err)
		os.Exit(1)
	}
}
