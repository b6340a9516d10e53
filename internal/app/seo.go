package app

import (
	"context"
	"fmt"
	"time"

	"tour_catalog/internal/domain"
)

type SEOService struct {
	repo  domain.TourRepository
	cache domain.Cache
	now   func() time.Time
}

func NewSEOService(r domain.TourRepository, c domain.Cache) *SEOService {
	return &SEOService{repo: r, cache: c, now: time.Now}
}

// Get returns the whole tour the SEO fields belong to.
func (s *SEOService) Get(ctx context.Context, id string) (domain.Tour, error) {
	oid, err := domain.ParseID(id)
	if err != nil {
		return domain.Tour{}, err
	}
	return s.repo.FindTourByID(ctx, oid)
}

// Update is a sparse patch: only the fields present in p are written. It
// returns ErrNoChanges when every present field already holds that value.
func (s *SEOService) Update(ctx context.Context, id string, p domain.SEOPatch) (map[string]any, error) {
	if blank(p.Title) && blank(p.Description) && blank(p.Keyword) {
		return nil, fmt.Errorf("%w: at least one SEO field must be provided", domain.ErrValidation)
	}
	oid, err := domain.ParseID(id)
	if err != nil {
		return nil, err
	}
	existing, err := s.repo.FindTourByID(ctx, oid)
	if err != nil {
		return nil, err
	}
	if !differs(p.Title, existing.SEOTitle) && !differs(p.Description, existing.SEODescription) &&
		!differs(p.Keyword, existing.SEOKeyword) {
		return nil, domain.ErrNoChanges
	}

	at := s.now().UTC()
	matched, err := s.repo.PatchTourSEO(ctx, oid, p, at)
	if err != nil {
		return nil, fmt.Errorf("patch seo %s: %w", id, err)
	}
	if !matched {
		return nil, domain.ErrNotFound
	}
	bumpGeneration(ctx, s.cache)

	applied := map[string]any{"updatedAt": at}
	if p.Title != nil {
		applied["seo_title"] = *p.Title
	}
	if p.Description != nil {
		applied["seo_description"] = *p.Description
	}
	if p.Keyword != nil {
		applied["seo_keyword"] = *p.Keyword
	}
	return applied, nil
}

func blank(p *string) bool { return p == nil || *p == "" }

// differs reports whether writing want would change cur. Absent fields
// never differ.
func differs(want, cur *string) bool {
	if want == nil {
		return false
	}
	return cur == nil || *cur != *want
}
