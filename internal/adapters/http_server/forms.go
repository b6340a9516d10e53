package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"

	"tour_catalog/internal/app"
	"tour_catalog/internal/domain"
)

// multipart parts beyond this stay on disk inside net/http.
const formMemory = 8 << 20

// slack for the non-file form fields on top of the image ceiling.
const formOverhead = 1 << 20

type tourBody struct {
	PackageName     string          `json:"package_name"`
	URL             string          `json:"url"`
	TourDuration    string          `json:"tour_duration"`
	TourDestination string          `json:"tour_destination"`
	TourPrice       string          `json:"tour_price"`
	Theme           string          `json:"theme"`
	Indian          string          `json:"indian"`
	International   string          `json:"international"`
	FixedDeparture  string          `json:"fixed_departure"`
	Inclusions      string          `json:"inclusions"`
	Exclusions      string          `json:"exclusions"`
	Itinerary       json.RawMessage `json:"itinerary"`
}

// readTourForm accepts multipart, urlencoded or JSON bodies. A multipart
// "image" part is spooled into UploadDir; the caller owns the returned path.
func (h *Handlers) readTourForm(w http.ResponseWriter, r *http.Request) (app.TourInput, string, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mt {
	case "application/json":
		return readTourJSON(r)
	case "multipart/form-data":
		if h.UploadMaxBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, h.UploadMaxBytes+formOverhead)
		}
		if err := r.ParseMultipartForm(formMemory); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				return app.TourInput{}, "", fmt.Errorf("%w: image exceeds %d bytes", domain.ErrValidation, h.UploadMaxBytes)
			}
			return app.TourInput{}, "", fmt.Errorf("%w: malformed multipart body", domain.ErrValidation)
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()
		path, err := h.spoolImage(r)
		if err != nil {
			return app.TourInput{}, "", err
		}
		return formInput(r), path, nil
	default:
		if err := r.ParseForm(); err != nil {
			return app.TourInput{}, "", fmt.Errorf("%w: malformed form body", domain.ErrValidation)
		}
		return formInput(r), "", nil
	}
}

func formInput(r *http.Request) app.TourInput {
	return app.TourInput{
		PackageName:     r.FormValue("package_name"),
		URL:             r.FormValue("url"),
		TourDuration:    r.FormValue("tour_duration"),
		TourDestination: r.FormValue("tour_destination"),
		TourPrice:       r.FormValue("tour_price"),
		Theme:           r.FormValue("theme"),
		Indian:          r.FormValue("indian"),
		International:   r.FormValue("international"),
		FixedDeparture:  r.FormValue("fixed_departure"),
		Inclusions:      r.FormValue("inclusions"),
		Exclusions:      r.FormValue("exclusions"),
		Itinerary:       r.FormValue("itinerary"),
	}
}

func readTourJSON(r *http.Request) (app.TourInput, string, error) {
	var b tourBody
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil && !errors.Is(err, io.EOF) {
		return app.TourInput{}, "", fmt.Errorf("%w: malformed JSON body", domain.ErrValidation)
	}
	itinerary, err := rawItinerary(b.Itinerary)
	if err != nil {
		return app.TourInput{}, "", err
	}
	return app.TourInput{
		PackageName:     b.PackageName,
		URL:             b.URL,
		TourDuration:    b.TourDuration,
		TourDestination: b.TourDestination,
		TourPrice:       b.TourPrice,
		Theme:           b.Theme,
		Indian:          b.Indian,
		International:   b.International,
		FixedDeparture:  b.FixedDeparture,
		Inclusions:      b.Inclusions,
		Exclusions:      b.Exclusions,
		Itinerary:       itinerary,
	}, "", nil
}

// rawItinerary accepts either the array itself or the array encoded as a
// JSON string, as form clients send it.
func rawItinerary(m json.RawMessage) (string, error) {
	m = bytes.TrimSpace(m)
	if len(m) == 0 || bytes.Equal(m, []byte("null")) {
		return "", nil
	}
	if m[0] == '"' {
		var s string
		if err := json.Unmarshal(m, &s); err != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrInvalidItinerary, err)
		}
		return s, nil
	}
	return string(m), nil
}

func (h *Handlers) spoolImage(r *http.Request) (string, error) {
	f, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: unreadable image part", domain.ErrValidation)
	}
	defer f.Close()

	if err := os.MkdirAll(h.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("prepare upload dir: %w", err)
	}
	tmp, err := os.CreateTemp(h.UploadDir, "image-*")
	if err != nil {
		return "", fmt.Errorf("create temp image: %w", err)
	}
	if _, err := io.Copy(tmp, f); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("spool image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", fmt.Errorf("spool image: %w", err)
	}
	return tmp.Name(), nil
}

// discard removes a spooled image the service never reached. The uploader
// removes the files it does reach, so a missing file is expected here.
func discard(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}
