// Package textextract pulls raw text out of an uploaded document without
// any remote help. It is strictly best-effort: every strategy degrades to
// an empty string, which callers treat as "no local text available".
package textextract

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	MaxBytes  int64  // raw-scan size cap, default 32 MiB
}

// Result summarizes one extraction attempt.
type Result struct {
	Text     string
	Method   string // "pdftotext" | "pdf-lib" | "raw-scan" | ""
	Duration time.Duration
	Warnings []string
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 32 << 20
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, logger: logger}
}

// Extract runs the fallback chain; the first non-empty result wins.
// It never returns an error: failures at every tier collapse to "".
func (e *Extractor) Extract(ctx context.Context, path string) Result {
	start := time.Now()
	var warns []string

	if text, err := e.pdfToText(ctx, path); err != nil {
		warns = append(warns, "pdftotext: "+err.Error())
	} else if strings.TrimSpace(text) != "" {
		e.logger.Debug("textextract.ok", "method", "pdftotext", "bytes", len(text))
		return Result{Text: text, Method: "pdftotext", Duration: time.Since(start), Warnings: warns}
	}

	if text, err := e.pdfLibText(path); err != nil {
		warns = append(warns, "pdf-lib: "+err.Error())
	} else if strings.TrimSpace(text) != "" {
		e.logger.Debug("textextract.ok", "method", "pdf-lib", "bytes", len(text))
		return Result{Text: text, Method: "pdf-lib", Duration: time.Since(start), Warnings: warns}
	}

	if text, err := e.rawScan(path); err != nil {
		warns = append(warns, "raw-scan: "+err.Error())
	} else if strings.TrimSpace(text) != "" {
		e.logger.Debug("textextract.ok", "method", "raw-scan", "bytes", len(text))
		return Result{Text: text, Method: "raw-scan", Duration: time.Since(start), Warnings: warns}
	}

	e.logger.Warn("textextract.empty", "path", path, "warnings", strings.Join(warns, "; "))
	return Result{Duration: time.Since(start), Warnings: warns}
}

func (e *Extractor) pdfToText(ctx context.Context, path string) (string, error) {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, _, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", err
	}
	return string(out), nil
}
