package llm

import (
	"context"

	"github.com/hdelarosa/expediente-engine/internal/entity"
)

// ClassifyRequest carries everything the remote service needs to judge one
// uploaded file against the administrator catalog.
type ClassifyRequest struct {
	FilePath     string
	FilenameHint string

	// LocalText is best-effort locally extracted text; included in the
	// prompt only when its confidence clears the embedding threshold.
	LocalText       string
	LocalConfidence float32

	// Catalog is the full set of active entries the service may match.
	Catalog []entity.CatalogEntry

	// RequiredDocument, when set, is highlighted so the service judges
	// functional equivalence against this entry rather than exact id match.
	RequiredDocument *entity.CatalogEntry
}

// DocumentClassifier is the interface the engine depends on.
type DocumentClassifier interface {
	Classify(ctx context.Context, req ClassifyRequest) (*entity.ClassifiedDocument, []byte /*rawJSON*/, error)
}
