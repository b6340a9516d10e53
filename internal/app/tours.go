package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"tour_catalog/internal/domain"
)

const (
	DefaultSimilarLimit = 4
	DefaultThemeLimit   = 6
)

// TourInput is the admin form for a tour. Itinerary holds the raw JSON
// array text as received.
type TourInput struct {
	PackageName     string
	URL             string
	TourDuration    string
	TourDestination string
	TourPrice       string
	Theme           string
	Indian          string
	International   string
	FixedDeparture  string
	Inclusions      string
	Exclusions      string
	Itinerary       string
}

type CreateResult struct {
	ID       string
	ImageURL *string
	URL      string
}

type UpdateResult struct {
	ID       string
	ImageURL *string
}

type TourService struct {
	repo     domain.TourRepository
	media    domain.MediaUploader
	cache    domain.Cache
	cacheTTL time.Duration
	now      func() time.Time
}

func NewTourService(r domain.TourRepository, m domain.MediaUploader, c domain.Cache, ttl time.Duration) *TourService {
	return &TourService{repo: r, media: m, cache: c, cacheTTL: ttl, now: time.Now}
}

// Create inserts a new tour. When imagePath is set the image is uploaded
// first; an upload failure aborts before anything is written.
func (s *TourService) Create(ctx context.Context, in TourInput, imagePath string) (CreateResult, error) {
	itinerary, err := ParseItinerary(in.Itinerary)
	if err != nil {
		return CreateResult{}, err
	}
	slug, err := s.uniqueSlug(ctx, in.PackageName)
	if err != nil {
		return CreateResult{}, err
	}

	var image *string
	if imagePath != "" {
		u, err := s.upload(ctx, imagePath)
		if err != nil {
			return CreateResult{}, err
		}
		image = &u
	}

	f := buildFields(in, itinerary)
	t := domain.Tour{
		PackageName:     f.PackageName,
		URL:             slug,
		TourDuration:    f.TourDuration,
		TourDestination: f.TourDestination,
		TourPrice:       f.TourPrice,
		Theme:           f.Theme,
		Indian:          f.Indian,
		International:   f.International,
		FixedDeparture:  f.FixedDeparture,
		Inclusions:      f.Inclusions,
		Exclusions:      f.Exclusions,
		Itinerary:       f.Itinerary,
		Image:           image,
		CreatedAt:       s.now().UTC(),
	}
	id, err := s.repo.InsertTour(ctx, t)
	if err != nil {
		return CreateResult{}, fmt.Errorf("insert tour: %w", err)
	}
	bumpGeneration(ctx, s.cache)

	log.Info().Str("tour_id", id.Hex()).Str("url", slug).Msg("tour created")
	return CreateResult{ID: id.Hex(), ImageURL: image, URL: slug}, nil
}

func (s *TourService) GetByID(ctx context.Context, id string) (domain.Tour, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return domain.Tour{}, err
	}
	return s.repo.FindTourByID(ctx, oid)
}

func (s *TourService) GetByURL(ctx context.Context, url string) (domain.Tour, error) {
	return cachedRead(ctx, s.cache, s.cacheTTL, "url:"+url, func() (domain.Tour, error) {
		return s.repo.FindTourByURL(ctx, url)
	})
}

// Update is a full replace: every scalar field is written from in, absent
// ones included. The image is replaced only when imagePath is set.
func (s *TourService) Update(ctx context.Context, id string, in TourInput, imagePath string) (UpdateResult, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return UpdateResult{}, err
	}
	existing, err := s.repo.FindTourByID(ctx, oid)
	if err != nil {
		return UpdateResult{}, err
	}
	itinerary, err := ParseItinerary(in.Itinerary)
	if err != nil {
		return UpdateResult{}, err
	}

	image := existing.Image
	if imagePath != "" {
		u, err := s.upload(ctx, imagePath)
		if err != nil {
			return UpdateResult{}, err
		}
		image = &u
	}

	f := buildFields(in, itinerary)
	if f.URL == "" {
		// an empty slug would make the tour unreachable by url
		f.URL = Slugify(f.PackageName)
	}
	matched, err := s.repo.ReplaceTourFields(ctx, oid, f, image, s.now().UTC())
	if err != nil {
		return UpdateResult{}, fmt.Errorf("update tour %s: %w", id, err)
	}
	if !matched {
		return UpdateResult{}, domain.ErrNotFound
	}
	bumpGeneration(ctx, s.cache)
	return UpdateResult{ID: id, ImageURL: image}, nil
}

// Delete reads before deleting so a missing tour yields ErrNotFound; a
// concurrent delete between the two calls is caught by the deleted count.
func (s *TourService) Delete(ctx context.Context, id string) (string, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return "", err
	}
	if _, err := s.repo.FindTourByID(ctx, oid); err != nil {
		return "", err
	}
	deleted, err := s.repo.DeleteTour(ctx, oid)
	if err != nil {
		return "", fmt.Errorf("delete tour %s: %w", id, err)
	}
	if !deleted {
		return "", domain.ErrNotFound
	}
	bumpGeneration(ctx, s.cache)
	log.Info().Str("tour_id", id).Msg("tour deleted")
	return id, nil
}

func (s *TourService) ListAll(ctx context.Context) ([]domain.Tour, error) {
	return s.list(ctx, domain.TourFilter{})
}

// ListByFlag returns tours whose flag is "Yes"; limit <= 0 means all.
func (s *TourService) ListByFlag(ctx context.Context, flag domain.Flag, limit int) ([]domain.Tour, error) {
	switch flag {
	case domain.FlagIndian, domain.FlagInternational, domain.FlagFixedDeparture:
	default:
		return nil, fmt.Errorf("%w: unknown flag %q", domain.ErrValidation, flag)
	}
	return s.list(ctx, domain.TourFilter{Flag: flag, Limit: limit})
}

func (s *TourService) list(ctx context.Context, f domain.TourFilter) ([]domain.Tour, error) {
	name := fmt.Sprintf("list:%s:%d", f.Flag, f.Limit)
	out, err := cachedRead(ctx, s.cache, s.cacheTTL, name, func() ([]domain.Tour, error) {
		return s.repo.ListTours(ctx, f)
	})
	if out == nil && err == nil {
		out = []domain.Tour{}
	}
	return out, err
}

// ListSimilarByTheme returns up to limit other tours sharing the theme of
// the tour at url. A missing base tour yields an empty list.
func (s *TourService) ListSimilarByTheme(ctx context.Context, url string, limit int) ([]domain.Tour, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}
	name := fmt.Sprintf("similar:%d:%s", limit, url)
	out, err := cachedRead(ctx, s.cache, s.cacheTTL, name, func() ([]domain.Tour, error) {
		base, err := s.repo.FindTourByURL(ctx, url)
		if errors.Is(err, domain.ErrNotFound) {
			return []domain.Tour{}, nil
		}
		if err != nil {
			return nil, err
		}
		return s.repo.ListSimilar(ctx, base.Theme, url, limit)
	})
	if out == nil && err == nil {
		out = []domain.Tour{}
	}
	return out, err
}

// ListOnePerTheme picks the lowest-id tour of each theme, ordered by theme.
func (s *TourService) ListOnePerTheme(ctx context.Context, limit int) ([]domain.ThemeSample, error) {
	if limit <= 0 {
		limit = DefaultThemeLimit
	}
	out, err := cachedRead(ctx, s.cache, s.cacheTTL, fmt.Sprintf("themes:%d", limit), func() ([]domain.ThemeSample, error) {
		return s.repo.ListOnePerTheme(ctx, limit)
	})
	if out == nil && err == nil {
		out = []domain.ThemeSample{}
	}
	return out, err
}

func (s *TourService) upload(ctx context.Context, path string) (string, error) {
	if s.media == nil {
		return "", &domain.UploadError{Err: errors.New("media uploader not configured")}
	}
	u, err := s.media.Upload(ctx, path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("image upload failed")
		var ue *domain.UploadError
		if errors.As(err, &ue) {
			return "", err
		}
		return "", &domain.UploadError{Err: err}
	}
	return u, nil
}

func buildFields(in TourInput, itinerary []domain.ItineraryDay) domain.TourFields {
	return domain.TourFields{
		PackageName:     in.PackageName,
		URL:             in.URL,
		TourDuration:    in.TourDuration,
		TourDestination: in.TourDestination,
		TourPrice:       in.TourPrice,
		Theme:           in.Theme,
		Indian:          flagOrNo(in.Indian),
		International:   flagOrNo(in.International),
		FixedDeparture:  flagOrNo(in.FixedDeparture),
		Inclusions:      in.Inclusions,
		Exclusions:      in.Exclusions,
		Itinerary:       itinerary,
	}
}

func flagOrNo(v string) string {
	if v == "" {
		return domain.FlagNo
	}
	return v
}
