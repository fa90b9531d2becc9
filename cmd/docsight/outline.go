package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dgallion1/docsight/internal/config"
	"github.com/dgallion1/docsight/internal/outline"
	"github.com/dgallion1/docsight/internal/parser"
	"github.com/dgallion1/docsight/internal/schema"
	"github.com/dgallion1/docsight/internal/span"
)

type outlineOptions struct {
	inDir    string
	outDir   string
	ext      string
	fallback bool
}

// batchSummary counts the outcome of a batch outline run.
type batchSummary struct {
	Processed int
	Failed    int
	Invalid   int
}

func runOutline(ctx context.Context, args []string, log *slog.Logger) error {
	cfg := config.Load()
	fs := flag.NewFlagSet("outline", flag.ContinueOnError)
	var opts outlineOptions
	fs.StringVar(&opts.inDir, "in", "input", "directory of documents to outline")
	fs.StringVar(&opts.outDir, "out", "output", "directory for <stem>.json results")
	fs.StringVar(&opts.ext, "ext", ".pdf", "extension of the documents to process")
	fs.BoolVar(&opts.fallback, "pdftotext", cfg.PDFFallbackPdftotext, "fall back to pdftotext when a PDF yields no spans")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sum, err := outlineDir(ctx, opts, log)
	if err != nil {
		return err
	}
	if sum.Processed == 0 && sum.Failed > 0 {
		return fmt.Errorf("all %d documents failed", sum.Failed)
	}
	return nil
}

// outlineDir writes one JSON outline per matching file of opts.inDir. A file
// that cannot be read is logged and skipped.
func outlineDir(ctx context.Context, opts outlineOptions, log *slog.Logger) (batchSummary, error) {
	var sum batchSummary
	ext := strings.ToLower(opts.ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	entries, err := os.ReadDir(opts.inDir)
	if err != nil {
		return sum, fmt.Errorf("read input directory: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.ToLower(filepath.Ext(e.Name())) == ext {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	if len(files) == 0 {
		log.Warn("no documents found", "dir", opts.inDir, "ext", ext)
		return sum, nil
	}
	if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
		return sum, fmt.Errorf("create output directory: %w", err)
	}

	validator, err := schema.New()
	if err != nil {
		return sum, err
	}
	loader := &parser.FileLoader{Options: parser.Options{FallbackPdftotext: opts.fallback}}

	start := time.Now()
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		fileStart := time.Now()
		doc, err := loader.Load(ctx, filepath.Join(opts.inDir, name))
		if err != nil {
			var readErr *parser.DocumentReadError
			if !errors.As(err, &readErr) {
				return sum, err
			}
			log.Error("document skipped", "document", name, "error", err)
			sum.Failed++
			continue
		}

		res := outline.Extract(doc)
		if report := validator.Outline(res); !report.Valid {
			log.Warn("outline does not match schema", "document", name, "errors", report.Errors)
			sum.Invalid++
		}
		if err := writeJSON(filepath.Join(opts.outDir, span.Stem(name)+".json"), res); err != nil {
			return sum, err
		}
		sum.Processed++
		log.Info("outline written",
			"document", name,
			"title", res.Title,
			"headings", len(res.Outline),
			"duration_ms", time.Since(fileStart).Milliseconds(),
		)
	}

	log.Info("batch complete",
		"processed", sum.Processed,
		"failed", sum.Failed,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return sum, nil
}
