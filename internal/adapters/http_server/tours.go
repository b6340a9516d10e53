package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tour_catalog/internal/adapters/observability"
	"tour_catalog/internal/domain"
)

func (h *Handlers) listAll(w http.ResponseWriter, r *http.Request) {
	tours, err := h.Tours.ListAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, tours)
}

func (h *Handlers) listByFlag(flag domain.Flag, limit int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tours, err := h.Tours.ListByFlag(r.Context(), flag, limit)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeCacheable(w, r, tours)
	}
}

func (h *Handlers) themeDestinations(w http.ResponseWriter, r *http.Request) {
	out, err := h.Tours.ListOnePerTheme(r.Context(), 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) tourByURL(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tours.GetByURL(r.Context(), chi.URLParam(r, "url"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, t)
}

func (h *Handlers) similarTours(w http.ResponseWriter, r *http.Request) {
	out, err := h.Tours.ListSimilarByTheme(r.Context(), chi.URLParam(r, "url"), 0)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}

func (h *Handlers) getTourPackage(w http.ResponseWriter, r *http.Request) {
	t, err := h.Tours.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if t.Itinerary == nil {
		t.Itinerary = []domain.ItineraryDay{} // legacy documents without the field
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "tour": t, "itinerary": t.Itinerary})
}

func (h *Handlers) addTour(w http.ResponseWriter, r *http.Request) {
	in, imagePath, err := h.readTourForm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer discard(imagePath)

	res, err := h.Tours.Create(r.Context(), in, imagePath)
	if err != nil {
		observability.ObserveWrite("create", "error")
		writeError(w, r, err)
		return
	}
	observability.ObserveWrite("create", "ok")
	log.Debug().Str("tour_id", res.ID).Str("admin", adminFrom(r.Context())).Msg("admin create")
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":  true,
		"tourId":   res.ID,
		"imageUrl": res.ImageURL,
		"url":      res.URL,
	})
}

func (h *Handlers) updateTour(w http.ResponseWriter, r *http.Request) {
	in, imagePath, err := h.readTourForm(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer discard(imagePath)

	res, err := h.Tours.Update(r.Context(), chi.URLParam(r, "id"), in, imagePath)
	if err != nil {
		observability.ObserveWrite("update", "error")
		writeError(w, r, err)
		return
	}
	observability.ObserveWrite("update", "ok")
	log.Debug().Str("tour_id", res.ID).Str("admin", adminFrom(r.Context())).Msg("admin update")
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"message":  "Tour updated successfully",
		"tourId":   res.ID,
		"imageUrl": res.ImageURL,
	})
}

func (h *Handlers) deleteTour(w http.ResponseWriter, r *http.Request) {
	id, err := h.Tours.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		observability.ObserveWrite("delete", "error")
		writeError(w, r, err)
		return
	}
	observability.ObserveWrite("delete", "ok")
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Tour package deleted successfully",
		"tourId":  id,
	})
}
