package api

import (
	"errors"
	"net/http"

	"github.com/dgallion1/docsight/internal/store"
	"github.com/go-chi/chi/v5"
)

// handleListDocuments lists stored outlines.
func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.deps.Store.ListOutlines(r.Context())
	if err != nil {
		jsonError(w, "failed to list documents: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

// handleDeleteDocument deletes a stored outline and its mirror node.
func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	ctx := r.Context()

	err := s.deps.Store.DeleteOutline(ctx, hash)
	if errors.Is(err, store.ErrNotFound) {
		jsonError(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		jsonError(w, "failed to delete document: "+err.Error(), http.StatusInternalServerError)
		return
	}

	mirrorDeleted := false
	if s.deps.Mirror != nil {
		if err := s.deps.Mirror.DeleteOutline(ctx, hash); err != nil {
			s.log.Warn("mirror delete failed", "hash", hash, "error", err)
		} else {
			mirrorDeleted = true
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"deleted":        hash,
		"mirror_deleted": mirrorDeleted,
	})
}
