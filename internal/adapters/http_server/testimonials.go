package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"tour_catalog/internal/adapters/observability"
	"tour_catalog/internal/domain"
)

func (h *Handlers) addTestimonial(w http.ResponseWriter, r *http.Request) {
	var b struct {
		VideoURL string `json:"video_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, r, fmt.Errorf("%w: malformed JSON body", domain.ErrValidation))
		return
	}
	t, err := h.Testimonials.Add(r.Context(), b.VideoURL)
	if err != nil {
		observability.ObserveWrite("testimonial", "error")
		writeError(w, r, err)
		return
	}
	observability.ObserveWrite("testimonial", "ok")
	writeJSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"message":     "Testimonial added successfully",
		"testimonial": t,
	})
}

func (h *Handlers) listTestimonials(w http.ResponseWriter, r *http.Request) {
	out, err := h.Testimonials.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCacheable(w, r, out)
}
