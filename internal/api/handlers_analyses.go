package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgallion1/docsight/internal/sectionindex"
	"github.com/dgallion1/docsight/internal/store"
	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	res, err := s.deps.Store.GetAnalysis(r.Context(), jobID)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "analysis not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to load analysis: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id": jobID,
		"result": res,
		"schema": s.validator.Analysis(res),
	})
}

// handleSearchAnalysis runs a full-text query over every scored section of
// an analysis. The index is rebuilt from the store when it is not in memory.
func (s *Server) handleSearchAnalysis(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		jsonError(w, "q query parameter is required", http.StatusBadRequest)
		return
	}
	limit := sectionindex.DefaultMaxResults
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	var rebuilt int
	hits, built, err := s.deps.Indexes.SearchOrBuild(jobID, query, limit, func() (*sectionindex.Index, error) {
		res, err := s.deps.Store.GetAnalysis(r.Context(), jobID)
		if err != nil {
			return nil, err
		}
		rebuilt = len(res.Candidates)
		return sectionindex.Build(res.Candidates)
	})
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "analysis not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if built {
		s.log.Info("section index rebuilt", "job_id", jobID, "sections", rebuilt)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"job_id": jobID,
		"query":  query,
		"hits":   hits,
	})
}
