package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dgallion1/docsight/internal/parser"
	"github.com/dgallion1/docsight/internal/pathstore"
	"github.com/dgallion1/docsight/internal/persona"
	"github.com/dgallion1/docsight/internal/sectionindex"
	"github.com/dgallion1/docsight/internal/span"
	"github.com/dgallion1/docsight/internal/stats"
	"github.com/dgallion1/docsight/internal/store"
)

// Deps are the collaborators shared by the workers and the API. Mirror may be
// nil; the rest are required.
type Deps struct {
	Store   store.Store
	Indexes *sectionindex.Registry
	Mirror  *pathstore.Mirror
	Stats   *stats.Tracker
}

// Validate reports the first missing required collaborator.
func (d Deps) Validate() error {
	switch {
	case d.Store == nil:
		return errors.New("deps: store is required")
	case d.Indexes == nil:
		return errors.New("deps: section index registry is required")
	case d.Stats == nil:
		return errors.New("deps: stats tracker is required")
	}
	return nil
}

// Worker processes a single analysis job.
type Worker struct {
	deps       Deps
	log        *slog.Logger
	parserOpts parser.Options
	maxDecode  int
	backoff    func(int) time.Duration
}

func NewWorker(deps Deps, log *slog.Logger, opts parser.Options, maxDecode int) *Worker {
	if maxDecode <= 0 {
		maxDecode = 4
	}
	return &Worker{
		deps:       deps,
		log:        log,
		parserOpts: opts,
		maxDecode:  maxDecode,
		backoff:    Backoff,
	}
}

// decoded serves already-decoded uploads to the analyzer by filename.
type decoded struct {
	mu   sync.Mutex
	docs map[string]*span.Document
	errs map[string]error
}

func (d *decoded) Load(ctx context.Context, name string) (*span.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err, ok := d.errs[name]; ok {
		return nil, err
	}
	if doc, ok := d.docs[name]; ok {
		return doc, nil
	}
	return nil, fmt.Errorf("load %s: not uploaded", name)
}

// Process runs the full analysis pipeline for a job.
func (w *Worker) Process(ctx context.Context, job *Job) {
	log := w.log.With("job_id", job.ID, "persona", job.Persona)

	// Phase 1: Decode uploads with bounded concurrency.
	job.SetStatus(StatusDecoding, "decoding")
	uploads := job.Uploads()
	cache := w.decode(ctx, job, uploads, log)
	job.ReleaseUploads()
	if ctx.Err() != nil {
		job.AddError(ctx.Err().Error())
		job.SetStatus(StatusFailed, "decoding")
		return
	}

	inputs := make([]persona.DocumentInput, 0, len(uploads))
	for _, u := range uploads {
		inputs = append(inputs, persona.DocumentInput{ID: u.Filename, Title: u.Title, Path: u.Filename})
	}

	// Phase 2: Score and rank.
	job.SetStatus(StatusAnalyzing, "analyzing")
	start := time.Now()
	analyzer := persona.NewAnalyzer(cache, log, w.maxDecode)
	res, err := analyzer.Analyze(ctx, inputs, job.Persona, job.JobToBeDone)
	if err != nil {
		log.Error("analysis failed", "error", err)
		job.AddError(fmt.Sprintf("analyze: %s", err))
		job.SetStatus(StatusFailed, "analyzing")
		return
	}
	w.deps.Stats.Analysis.Since(start)
	job.SetSectionsRanked(len(res.Candidates))
	hadErrors := len(res.FailedDocuments) > 0

	// Phase 3: Index every candidate for search.
	job.SetStatus(StatusIndexing, "indexing")
	if idx, err := sectionindex.Build(res.Candidates); err != nil {
		log.Warn("section index failed", "error", err)
		job.AddError(fmt.Sprintf("index: %s", err))
		hadErrors = true
	} else {
		log.Debug("sections indexed", "count", idx.Len())
		w.deps.Indexes.Put(job.ID, idx)
	}

	// Phase 4: Persist, then mirror.
	job.SetStatus(StatusStoring, "storing")
	if err := w.deps.Store.PutAnalysis(ctx, job.ID, res); err != nil {
		log.Error("store failed", "error", err)
		job.AddError(fmt.Sprintf("store: %s", err))
		job.SetStatus(StatusFailed, "storing")
		return
	}
	if w.deps.Mirror != nil {
		err := retry(ctx, w.backoff, func() error {
			err := w.deps.Mirror.PublishAnalysis(ctx, job.ID, res)
			if err != nil && IsRetryable(err) {
				log.Warn("retryable mirror error", "error", err)
			}
			return err
		})
		if err != nil {
			log.Error("mirror failed", "error", err)
			job.AddError(fmt.Sprintf("mirror: %s", err))
			hadErrors = true
		}
	}

	log.Info("analysis stored",
		"sections_ranked", len(res.Candidates),
		"failed_documents", len(res.FailedDocuments),
		"synthesized", res.Synthesized,
	)
	if hadErrors {
		job.SetStatus(StatusPartial, "done")
	} else {
		job.SetStatus(StatusCompleted, "done")
	}
}

func (w *Worker) decode(ctx context.Context, job *Job, uploads []Upload, log *slog.Logger) *decoded {
	cache := &decoded{docs: make(map[string]*span.Document), errs: make(map[string]error)}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.maxDecode)
	for _, u := range uploads {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}
			start := time.Now()
			doc, err := parser.Parse(bytes.NewReader(u.Data), u.Filename, w.parserOpts)
			w.deps.Stats.Decode.Since(start)
			cache.mu.Lock()
			if err != nil {
				cache.errs[u.Filename] = err
			} else {
				cache.docs[u.Filename] = doc
			}
			cache.mu.Unlock()
			job.RecordDecode(err == nil)
			if err != nil {
				log.Warn("decode failed", "document", u.Filename, "error", err)
				job.AddError(err.Error())
				return nil
			}
			log.Info("document decoded",
				"document", u.Filename,
				"pages", len(doc.Pages),
				"spans", doc.SpanCount(),
				"duration_ms", time.Since(start).Milliseconds(),
			)
			return nil
		})
	}
	_ = g.Wait()
	return cache
}
