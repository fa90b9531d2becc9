// Package persona ranks document sections by relevance to a persona and a
// job-to-be-done and refines the top-ranked ones into short excerpts.
package persona

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docsight/internal/span"
)

// Loader decodes the document at path into spans.
type Loader interface {
	Load(ctx context.Context, path string) (*span.Document, error)
}

// DocumentInput names one document of an analysis. Document takes precedence
// over Path when both are set.
type DocumentInput struct {
	ID       string         `json:"filename"`
	Title    string         `json:"title,omitempty"`
	Path     string         `json:"path,omitempty"`
	Document *span.Document `json:"-"`
}

// DisplayTitle is the title used in synthesized text.
func (in DocumentInput) DisplayTitle() string {
	if in.Title != "" {
		return in.Title
	}
	return strings.ReplaceAll(in.ID, ".pdf", "")
}

// Metadata describes the inputs of an analysis.
type Metadata struct {
	InputDocuments      []string `json:"input_documents"`
	Persona             string   `json:"persona"`
	JobToBeDone         string   `json:"job_to_be_done"`
	ProcessingTimestamp string   `json:"processing_timestamp"`
}

// DocumentFailure records a document excluded from ranking.
type DocumentFailure struct {
	Document string `json:"document"`
	Error    string `json:"error"`
}

// AnalysisResult is the analysis contract.
type AnalysisResult struct {
	Metadata           Metadata             `json:"metadata"`
	ExtractedSections  []RankedSection      `json:"extracted_sections"`
	SubsectionAnalysis []SubsectionAnalysis `json:"subsection_analysis"`
	FailedDocuments    []DocumentFailure    `json:"failed_documents,omitempty"`

	// Candidates holds every scored section in rank order.
	Candidates []Section `json:"-"`
	// Synthesized is set when the candidates came from fallback synthesis.
	Synthesized bool `json:"-"`
}

// ErrDuplicateDocument is returned when two inputs share an id.
var ErrDuplicateDocument = errors.New("duplicate document")

// ErrNoSource is recorded for inputs with neither spans nor a path.
var ErrNoSource = errors.New("document has no spans and no path")

// Analyzer runs the section ranking pipeline over a batch of documents.
type Analyzer struct {
	loader      Loader
	log         *slog.Logger
	concurrency int
	now         func() time.Time
}

func NewAnalyzer(loader Loader, log *slog.Logger, concurrency int) *Analyzer {
	if concurrency <= 0 {
		concurrency = 4
	}
	if log == nil {
		log = slog.Default()
	}
	return &Analyzer{
		loader:      loader,
		log:         log,
		concurrency: concurrency,
		now:         time.Now,
	}
}

type loaded struct {
	doc *span.Document
	err error
}

// Analyze loads every input in parallel, extracts and scores sections, ranks
// them and refines the top TopK. Per-document failures are recorded and never
// abort the batch. An error is returned when two inputs share an id or when
// ctx ends first.
func (a *Analyzer) Analyze(ctx context.Context, inputs []DocumentInput, role, job string) (*AnalysisResult, error) {
	seen := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		if seen[in.ID] {
			return nil, fmt.Errorf("analyze: %w: %s", ErrDuplicateDocument, in.ID)
		}
		seen[in.ID] = true
	}

	start := a.now()
	log := a.log.With("persona", role, "documents", len(inputs))

	results := make([]loaded, len(inputs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, in := range inputs {
		g.Go(func() error {
			results[i] = a.load(gctx, in)
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	res := &AnalysisResult{
		Metadata: Metadata{
			InputDocuments:      make([]string, 0, len(inputs)),
			Persona:             role,
			JobToBeDone:         job,
			ProcessingTimestamp: start.Format(time.RFC3339),
		},
		ExtractedSections:  []RankedSection{},
		SubsectionAnalysis: []SubsectionAnalysis{},
	}

	docs := make(map[string]*span.Document, len(inputs))
	var sections []Section
	for i, in := range inputs {
		res.Metadata.InputDocuments = append(res.Metadata.InputDocuments, in.ID)
		if err := results[i].err; err != nil {
			log.Warn("document skipped", "document", in.ID, "error", err)
			res.FailedDocuments = append(res.FailedDocuments, DocumentFailure{Document: in.ID, Error: err.Error()})
			continue
		}
		docs[in.ID] = results[i].doc
		sections = append(sections, ExtractDocumentSections(in.ID, results[i].doc)...)
	}

	if len(sections) == 0 && len(inputs) > 0 {
		log.Info("no sections found, synthesizing fallback sections")
		sections = FallbackSections(inputs, role, job)
		res.Synthesized = true
	}

	ScoreSections(sections, role, job)
	sorted, ranked := Rank(sections)
	res.Candidates = sorted
	res.ExtractedSections = top(ranked, TopK)
	res.SubsectionAnalysis = Refine(top(sorted, TopK), docs, role, job)

	log.Info("analysis complete",
		"sections_ranked", len(ranked),
		"failed", len(res.FailedDocuments),
		"duration_ms", a.now().Sub(start).Milliseconds(),
	)
	return res, nil
}

func (a *Analyzer) load(ctx context.Context, in DocumentInput) loaded {
	switch {
	case in.Document != nil:
		return loaded{doc: in.Document}
	case in.Path == "":
		return loaded{err: ErrNoSource}
	case a.loader == nil:
		return loaded{err: fmt.Errorf("load %s: no loader configured", in.Path)}
	}
	if err := ctx.Err(); err != nil {
		return loaded{err: err}
	}
	doc, err := a.loader.Load(ctx, in.Path)
	if err != nil {
		return loaded{err: err}
	}
	return loaded{doc: doc}
}
