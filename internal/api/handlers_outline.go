package api

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/dgallion1/docsight/internal/outline"
	"github.com/dgallion1/docsight/internal/parser"
	"github.com/dgallion1/docsight/internal/pipeline"
	"github.com/dgallion1/docsight/internal/store"
)

// handleOutline extracts the title and heading outline of one upload. Results
// are stored by content hash so a repeated upload is answered from the store.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		jsonError(w, "file is required", http.StatusBadRequest)
		return
	}
	filename, data, err := s.readUpload(files[0])
	if err != nil {
		writeUploadError(w, err)
		return
	}

	ctx := r.Context()
	hash := pipeline.ContentHashHex(data)
	log := s.log.With("document", filename, "hash", hash[:12])

	if rec, err := s.deps.Store.GetOutline(ctx, hash); err == nil {
		log.Info("outline served from store")
		s.backfillMirror(r, hash, rec.Filename, &rec.Result)
		s.writeOutline(w, hash, rec.Filename, true, &rec.Result)
		return
	} else if !errors.Is(err, store.ErrNotFound) {
		log.Warn("outline lookup failed", "error", err)
	}

	start := time.Now()
	doc, err := parser.Parse(bytes.NewReader(data), filename, s.parserOpts)
	s.deps.Stats.Decode.Since(start)
	if err != nil {
		var readErr *parser.DocumentReadError
		if errors.As(err, &readErr) {
			jsonError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	res := outline.Extract(doc)
	s.deps.Stats.Outline.Since(start)
	log.Info("outline extracted",
		"pages", len(doc.Pages),
		"headings", len(res.Outline),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if err := s.deps.Store.PutOutline(ctx, hash, filename, &res); err != nil {
		log.Error("store outline failed", "error", err)
	}
	if s.deps.Mirror != nil {
		if err := s.deps.Mirror.PublishOutline(ctx, hash, filename, &res); err != nil {
			log.Warn("mirror outline failed", "error", err)
		}
	}

	s.writeOutline(w, hash, filename, false, &res)
}

// backfillMirror republishes a stored outline whose mirror node is missing.
func (s *Server) backfillMirror(r *http.Request, hash, filename string, res *outline.Result) {
	if s.deps.Mirror == nil {
		return
	}
	ctx := r.Context()
	ok, err := s.deps.Mirror.HasOutline(ctx, hash)
	if err != nil {
		s.log.Warn("mirror lookup failed", "hash", hash, "error", err)
		return
	}
	if ok {
		return
	}
	if err := s.deps.Mirror.PublishOutline(ctx, hash, filename, res); err != nil {
		s.log.Warn("mirror backfill failed", "hash", hash, "error", err)
		return
	}
	s.log.Info("mirror outline backfilled", "hash", hash)
}

func (s *Server) writeOutline(w http.ResponseWriter, hash, filename string, cached bool, res *outline.Result) {
	writeJSON(w, http.StatusOK, map[string]any{
		"hash":     hash,
		"filename": filename,
		"cached":   cached,
		"result":   res,
		"schema":   s.validator.Outline(res),
	})
}
