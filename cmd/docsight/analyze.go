package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docsight/internal/config"
	"github.com/dgallion1/docsight/internal/parser"
	"github.com/dgallion1/docsight/internal/persona"
	"github.com/dgallion1/docsight/internal/schema"
)

// challengeInput is the analysis request file.
type challengeInput struct {
	ChallengeInfo map[string]any `json:"challenge_info,omitempty"`
	Documents     []struct {
		Filename string `json:"filename"`
		Title    string `json:"title"`
	} `json:"documents"`
	Persona struct {
		Role string `json:"role"`
	} `json:"persona"`
	JobToBeDone struct {
		Task string `json:"task"`
	} `json:"job_to_be_done"`
}

type analyzeOptions struct {
	input       string
	docsDir     string
	output      string
	concurrency int
	fallback    bool
}

func runAnalyze(ctx context.Context, args []string, log *slog.Logger) error {
	cfg := config.Load()
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	var opts analyzeOptions
	fs.StringVar(&opts.input, "input", "challenge1b_input.json", "analysis request JSON")
	fs.StringVar(&opts.docsDir, "docs", "", "directory holding the listed documents (default: the request's directory)")
	fs.StringVar(&opts.output, "out", "challenge1b_output.json", "where to write the analysis JSON")
	fs.IntVar(&opts.concurrency, "concurrency", cfg.MaxConcurrentDecode, "documents decoded in parallel")
	fs.BoolVar(&opts.fallback, "pdftotext", cfg.PDFFallbackPdftotext, "fall back to pdftotext when a PDF yields no spans")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := analyzeFile(ctx, opts, log)
	if err != nil {
		return err
	}
	return writeJSON(opts.output, res)
}

func readChallengeInput(path string) (*challengeInput, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	var in challengeInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parse input %s: %w", path, err)
	}
	if strings.TrimSpace(in.Persona.Role) == "" {
		return nil, errors.New("persona.role is required")
	}
	if strings.TrimSpace(in.JobToBeDone.Task) == "" {
		return nil, errors.New("job_to_be_done.task is required")
	}
	return &in, nil
}

func analyzeFile(ctx context.Context, opts analyzeOptions, log *slog.Logger) (*persona.AnalysisResult, error) {
	in, err := readChallengeInput(opts.input)
	if err != nil {
		return nil, err
	}
	docsDir := opts.docsDir
	if docsDir == "" {
		docsDir = filepath.Dir(opts.input)
	}

	inputs := make([]persona.DocumentInput, 0, len(in.Documents))
	for _, d := range in.Documents {
		inputs = append(inputs, persona.DocumentInput{
			ID:    d.Filename,
			Title: d.Title,
			Path:  filepath.Join(docsDir, d.Filename),
		})
	}
	log.Info("loaded analysis request", "documents", len(inputs), "persona", in.Persona.Role)

	loader := &parser.FileLoader{Options: parser.Options{FallbackPdftotext: opts.fallback}}
	analyzer := persona.NewAnalyzer(loader, log, opts.concurrency)
	res, err := analyzer.Analyze(ctx, inputs, in.Persona.Role, in.JobToBeDone.Task)
	if err != nil {
		return nil, err
	}

	validator, err := schema.New()
	if err != nil {
		return nil, err
	}
	if report := validator.Analysis(res); !report.Valid {
		log.Warn("analysis does not match schema", "errors", report.Errors)
	}
	return res, nil
}
