// Package memstore keeps tours, testimonials and admins in process memory.
// It backs the service and handler tests.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tour_catalog/internal/domain"
)

type Store struct {
	mu           sync.RWMutex
	tours        []domain.Tour // insertion order
	testimonials []domain.Testimonial
	admins       []domain.Admin
}

var (
	_ domain.TourRepository        = (*Store)(nil)
	_ domain.TestimonialRepository = (*Store)(nil)
	_ domain.AdminRepository       = (*Store)(nil)
)

func New() *Store { return &Store{} }

func (s *Store) InsertTour(_ context.Context, t domain.Tour) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	s.tours = append(s.tours, cloneTour(t))
	return t.ID, nil
}

func (s *Store) ReplaceTourFields(_ context.Context, id primitive.ObjectID, f domain.TourFields, image *string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	t := &s.tours[i]
	t.PackageName = f.PackageName
	t.URL = f.URL
	t.TourDuration = f.TourDuration
	t.TourDestination = f.TourDestination
	t.TourPrice = f.TourPrice
	t.Theme = f.Theme
	t.Indian = f.Indian
	t.International = f.International
	t.FixedDeparture = f.FixedDeparture
	t.Inclusions = f.Inclusions
	t.Exclusions = f.Exclusions
	t.Itinerary = copyDays(f.Itinerary)
	t.Image = copyStr(image)
	t.UpdatedAt = &at
	return true, nil
}

func (s *Store) PatchTourSEO(_ context.Context, id primitive.ObjectID, p domain.SEOPatch, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	t := &s.tours[i]
	if p.Title != nil {
		t.SEOTitle = copyStr(p.Title)
	}
	if p.Description != nil {
		t.SEODescription = copyStr(p.Description)
	}
	if p.Keyword != nil {
		t.SEOKeyword = copyStr(p.Keyword)
	}
	t.UpdatedAt = &at
	return true, nil
}

func (s *Store) DeleteTour(_ context.Context, id primitive.ObjectID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.tours = append(s.tours[:i], s.tours[i+1:]...)
	return true, nil
}

func (s *Store) FindTourByID(_ context.Context, id primitive.ObjectID) (domain.Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return cloneTour(s.tours[i]), nil
	}
	return domain.Tour{}, domain.ErrNotFound
}

func (s *Store) FindTourByURL(_ context.Context, url string) (domain.Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tours {
		if t.URL == url {
			return cloneTour(t), nil
		}
	}
	return domain.Tour{}, domain.ErrNotFound
}

func (s *Store) URLExists(ctx context.Context, url string) (bool, error) {
	_, err := s.FindTourByURL(ctx, url)
	return err == nil, nil
}

func (s *Store) ListTours(_ context.Context, f domain.TourFilter) ([]domain.Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Tour{}
	for _, t := range s.tours {
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
		if f.Flag != "" && t.FlagValue(f.Flag) != domain.FlagYes {
			continue
		}
		out = append(out, cloneTour(t))
	}
	return out, nil
}

func (s *Store) ListSimilar(_ context.Context, theme, excludeURL string, limit int) ([]domain.Tour, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Tour{}
	for _, t := range s.tours {
		if limit > 0 && len(out) == limit {
			break
		}
		if t.Theme == theme && t.URL != excludeURL {
			out = append(out, cloneTour(t))
		}
	}
	return out, nil
}

func (s *Store) ListOnePerTheme(_ context.Context, limit int) ([]domain.ThemeSample, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	first := map[string]domain.Tour{}
	for _, t := range s.tours {
		cur, ok := first[t.Theme]
		if !ok || t.ID.Hex() < cur.ID.Hex() {
			first[t.Theme] = t
		}
	}
	themes := make([]string, 0, len(first))
	for th := range first {
		themes = append(themes, th)
	}
	sort.Strings(themes)
	if limit > 0 && len(themes) > limit {
		themes = themes[:limit]
	}
	out := make([]domain.ThemeSample, 0, len(themes))
	for _, th := range themes {
		t := first[th]
		out = append(out, domain.ThemeSample{
			ID:              t.ID,
			PackageName:     t.PackageName,
			TourDuration:    t.TourDuration,
			TourDestination: t.TourDestination,
			TourPrice:       t.TourPrice,
			Image:           copyStr(t.Image),
			URL:             t.URL,
			ThemeName:       t.Theme,
		})
	}
	return out, nil
}

func (s *Store) InsertTestimonial(_ context.Context, t domain.Testimonial) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID.IsZero() {
		t.ID = primitive.NewObjectID()
	}
	s.testimonials = append(s.testimonials, t)
	return t.ID, nil
}

func (s *Store) ListTestimonials(_ context.Context) ([]domain.Testimonial, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Testimonial, 0, len(s.testimonials))
	for i := len(s.testimonials) - 1; i >= 0; i-- {
		out = append(out, s.testimonials[i])
	}
	return out, nil
}

func (s *Store) FindAdminByUsername(_ context.Context, username string) (domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.Username == username {
			return a, nil
		}
	}
	return domain.Admin{}, domain.ErrNotFound
}

func (s *Store) InsertAdmin(_ context.Context, a domain.Admin) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	s.admins = append(s.admins, a)
	return a.ID, nil
}

func (s *Store) ListLegacyAdmins(_ context.Context) ([]domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Admin
	for _, a := range s.admins {
		if a.LegacyPassword != "" {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *Store) SetPasswordHash(_ context.Context, id primitive.ObjectID, hash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.admins {
		if s.admins[i].ID == id {
			s.admins[i].PasswordHash = hash
			s.admins[i].LegacyPassword = ""
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *Store) indexOf(id primitive.ObjectID) int {
	for i, t := range s.tours {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func cloneTour(t domain.Tour) domain.Tour {
	t.Itinerary = copyDays(t.Itinerary)
	t.Image = copyStr(t.Image)
	t.SEOTitle = copyStr(t.SEOTitle)
	t.SEODescription = copyStr(t.SEODescription)
	t.SEOKeyword = copyStr(t.SEOKeyword)
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		t.UpdatedAt = &u
	}
	return t
}

func copyDays(in []domain.ItineraryDay) []domain.ItineraryDay {
	if in == nil {
		return nil
	}
	out := make([]domain.ItineraryDay, len(in))
	copy(out, in)
	return out
}

func copyStr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
