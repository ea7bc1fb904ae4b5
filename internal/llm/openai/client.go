package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hdelarosa/expediente-engine/internal/common"
	"github.com/hdelarosa/expediente-engine/internal/entity"
	"github.com/hdelarosa/expediente-engine/internal/llm"
)

// Classify implements llm.DocumentClassifier: one file upload, then one
// response call carrying the catalog instruction. Either step failing is
// terminal; repeated submissions to a paid service are explicitly avoided,
// so there are no retries anywhere in this path.
func (c *Client) Classify(ctx context.Context, req llm.ClassifyRequest) (*entity.ClassifiedDocument, []byte, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	c.log.Info("remote.classify.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"file", req.FilenameHint,
		"catalog_entries", len(req.Catalog),
		"has_required", req.RequiredDocument != nil,
		"local_text_len", len(req.LocalText),
		"local_confidence", req.LocalConfidence,
	)

	fileID, err := c.uploadFile(ctx, req.FilePath)
	if err != nil {
		c.log.Error("remote.classify.upload_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, nil, fmt.Errorf("upload file: %w", err)
	}

	schema := llm.BuildDocumentJSONSchema()
	sys := llm.BuildSystemPrompt(req)
	user := llm.BuildUserPrompt(req)

	body := map[string]any{
		"model": c.cfg.Model,
		"input": []map[string]any{
			{"role": "system", "content": sys + "\n\nEsquema JSON:\n" + mustJSON(schema)},
			{"role": "user", "content": []map[string]any{
				{"type": "input_file", "file_id": fileID},
				{"type": "input_text", "text": user},
			}},
		},
		"text": map[string]any{"format": map[string]any{"type": "json_object"}},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/responses"
	raw, _, err := llm.SendJSON(ctx, c.http, endpoint, body,
		map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}, c.log)
	if err != nil {
		c.log.Error("remote.classify.http_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, raw, err
	}

	content, err := llm.ExtractContent(raw)
	if err != nil {
		c.log.Error("remote.classify.content_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds())
		return nil, raw, fmt.Errorf("%w: locate response content: %v", common.ErrMalformed, err)
	}

	// Validate strictly first.
	if err := llm.ValidateJSONAgainstSchema(schema, content); err != nil {
		if !c.cfg.LenientOptional {
			c.log.Error("remote.classify.schema_validation_failed",
				"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
			return nil, content, fmt.Errorf("%w: schema validation failed: %v", common.ErrMalformed, err)
		}
		cleaned, dropped, sErr := llm.SanitizeOptionalFields(content)
		if sErr != nil {
			c.log.Error("remote.classify.sanitize_failed",
				"req_id", rid, "error", sErr, "elapsed_ms", time.Since(start).Milliseconds())
			return nil, content, fmt.Errorf("%w: sanitize failed: %v", common.ErrMalformed, sErr)
		}
		if vErr := llm.ValidateJSONAgainstSchema(schema, cleaned); vErr != nil {
			c.log.Error("remote.classify.schema_validation_failed",
				"req_id", rid, "error", vErr, "content", string(content),
				"elapsed_ms", time.Since(start).Milliseconds())
			return nil, content, fmt.Errorf("%w: schema validation failed: %v", common.ErrMalformed, vErr)
		}
		c.log.Warn("remote.classify.lenient_sanitize_applied",
			"req_id", rid, "dropped", dropped, "elapsed_ms", time.Since(start).Milliseconds())
		content = cleaned
	}

	var out entity.ClassifiedDocument
	if err := json.Unmarshal(content, &out); err != nil {
		c.log.Error("remote.classify.unmarshal_failed",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, content, fmt.Errorf("%w: unmarshal document: %v", common.ErrMalformed, err)
	}

	c.log.Info("remote.classify.ok",
		"req_id", rid,
		"detected", out.Document.DetectedName,
		"type", out.Document.TypeLabel,
		"matches_catalog", out.Document.MatchesCatalog,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &out, content, nil
}

// uploadFile pushes the binary to the files endpoint and returns its handle.
func (c *Client) uploadFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("purpose", "user_data"); err != nil {
		return "", err
	}
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/files", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.log.Warn("remote.upload.body_close_error", "error", cerr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("upload status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}

	var fr struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(raw, &fr); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if fr.ID == "" {
		return "", fmt.Errorf("upload response missing file id")
	}
	return fr.ID, nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
