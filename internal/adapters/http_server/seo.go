package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tour_catalog/internal/adapters/observability"
	"tour_catalog/internal/domain"
)

func (h *Handlers) getSEO(w http.ResponseWriter, r *http.Request) {
	t, err := h.SEO.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tour": t})
}

func (h *Handlers) updateSEO(w http.ResponseWriter, r *http.Request) {
	var p domain.SEOPatch
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, fmt.Errorf("%w: malformed JSON body", domain.ErrValidation))
		return
	}
	id := chi.URLParam(r, "id")
	applied, err := h.SEO.Update(r.Context(), id, p)
	if err != nil {
		if errors.Is(err, domain.ErrNoChanges) {
			observability.ObserveWrite("seo", "unchanged")
		} else {
			observability.ObserveWrite("seo", "error")
		}
		writeError(w, r, err)
		return
	}
	observability.ObserveWrite("seo", "ok")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"message":       "SEO details updated successfully",
		"tourId":        id,
		"updatedFields": applied,
	})
}
