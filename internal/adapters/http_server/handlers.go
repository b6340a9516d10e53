// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"tour_catalog/internal/app"
	"tour_catalog/internal/domain"
)

type Handlers struct {
	Tours        *app.TourService
	SEO          *app.SEOService
	Testimonials *app.TestimonialService
	Auth         *app.AuthService

	UploadDir      string // multipart images are spooled here before upload
	UploadMaxBytes int64
	SecureCookies  bool
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.With(Timeout(s.readTimeout)).Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(Timeout(s.readTimeout))
			r.Get("/tours", h.listAll)
			r.Get("/alltour", h.listAll)
			r.Get("/domestic-packages", h.listByFlag(domain.FlagIndian, 0))
			r.Get("/indian-tours", h.listByFlag(domain.FlagIndian, 0))
			r.Get("/international-packages", h.listByFlag(domain.FlagInternational, 0))
			r.Get("/international-tours", h.listByFlag(domain.FlagInternational, 0))
			r.Get("/fixed-tours", h.listByFlag(domain.FlagFixedDeparture, 0))
			r.Get("/similar-tours", h.listByFlag(domain.FlagFixedDeparture, app.DefaultSimilarLimit))
			r.Get("/theme-destinations", h.themeDestinations)
			r.Get("/tour/{url}", h.tourByURL)
			r.Get("/tour/{url}/similar", h.similarTours)
			r.Get("/tour-packages/{id}", h.getTourPackage)
			r.Get("/tour-packages-seo/{id}", h.getSEO)
			r.Get("/testimonials", h.listTestimonials)
			r.Post("/login", h.login)
		})

		r.Group(func(r chi.Router) {
			r.Use(Timeout(s.writeTimeout))
			r.Use(RequireAdmin(h.Auth))
			r.Post("/add-tour", h.addTour)
			r.Put("/tour-packages/{id}", h.updateTour)
			r.Put("/tour-packages-seo/{id}", h.updateSEO)
			r.Delete("/delete-tour/{id}", h.deleteTour)
			r.Post("/add-testimonial", h.addTestimonial)
		})
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors onto problem responses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var upErr *domain.UploadError
	switch {
	case errors.Is(err, domain.ErrNoChanges):
		w.WriteHeader(http.StatusNotModified)
	case errors.Is(err, domain.ErrInvalidID):
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a 24-character hex object id")
	case errors.Is(err, domain.ErrInvalidItinerary):
		writeProblem(w, http.StatusBadRequest, "Invalid itinerary format", err.Error())
	case errors.Is(err, domain.ErrValidation):
		writeProblem(w, http.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "tour not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid username or password")
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "invalid or expired session")
	case errors.As(err, &upErr):
		log.Error().Err(err).Str("route", routeOf(r)).Msg("image upload failed")
		writeProblem(w, http.StatusInternalServerError, "Image upload failed", upErr.Err.Error())
	default:
		log.Error().Err(err).Str("route", routeOf(r)).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Server error", err.Error())
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable serves public reads with a weak ETag and honours
// If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Server error", "encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("route", routeOf(r)).Msg("failed to write body")
	}
}
