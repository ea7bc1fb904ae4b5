package classifier

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/hdelarosa/expediente-engine/constants"
	"github.com/hdelarosa/expediente-engine/internal/entity"
)

type Classifier struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{logger: logger}
}

// Classify scores every catalog entry against the document text and
// filename and assembles a ClassifiedDocument from the winner, the coarse
// type label, and the detected issuer. Purely local and deterministic;
// never fails.
func (c *Classifier) Classify(text, filename string, catalog []entity.CatalogEntry) *entity.ClassifiedDocument {
	normText := Normalize(text)
	normFile := Normalize(strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	textTokens := strings.Fields(normText)

	var cands []candidate
	for _, entry := range catalog {
		if !entry.Active {
			continue
		}
		cands = append(cands, scoreEntry(entry, normText, normFile, textTokens))
	}
	cands = rankCandidates(cands)

	typeLabel := DetectTypeLabel(text + " " + filename)
	issuerName, issuerLevel := DetectIssuer(text)

	doc := &entity.ClassifiedDocument{
		Document: entity.ExtractedDocument{
			DetectedName:   constants.UnidentifiedDocumentName,
			CatalogMatchID: constants.UnidentifiedDocumentID,
			TypeLabel:      typeLabel,
			Description:    "clasificacion local por patrones de texto",
		},
		Metadata: entity.Metadata{
			IssuingEntity: issuerName,
			Status:        string(constants.VigencyPending),
		},
		Issuer: entity.IssuerInfo{Name: issuerName, Level: string(issuerLevel)},
	}

	if len(cands) == 0 {
		c.logger.Debug("classifier.local.empty_catalog", "file", filename)
		return doc
	}

	top := cands[0]
	if top.score < minCandidateScore || top.confidence < minCandidateConfidence {
		c.logger.Info("classifier.local.unidentified",
			"file", filename,
			"best", top.entry.Name,
			"score", fmt.Sprintf("%.2f", top.score),
			"confidence", fmt.Sprintf("%.2f", top.confidence),
		)
		return doc
	}

	doc.Document.DetectedName = top.entry.Name
	doc.Document.CatalogMatchID = top.entry.ID.String()
	doc.Document.MatchesCatalog = true
	doc.Document.Description = top.entry.Description
	doc.Document.Remarks = fmt.Sprintf("coincidencia local: puntaje %.2f, confianza %.2f", top.score, top.confidence)
	if doc.Issuer.Level == "" {
		doc.Issuer.Level = string(top.entry.Level)
	}
	if doc.Metadata.IssuingEntity == "" {
		doc.Metadata.IssuingEntity = top.entry.IssuingEntity
	}

	c.logger.Info("classifier.local.match",
		"file", filename,
		"entry", top.entry.Name,
		"score", fmt.Sprintf("%.2f", top.score),
		"confidence", fmt.Sprintf("%.2f", top.confidence),
	)
	return doc
}
