package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

var nonSlugRun = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and trims name, collapses every run of characters
// outside [a-z0-9] into a single hyphen and strips edge hyphens.
func Slugify(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = nonSlugRun.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

const maxSlugAttempts = 100

// uniqueSlug returns Slugify(name), suffixed with -2, -3, ... when the
// plain form is already used by another tour.
func (s *TourService) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := Slugify(name)
	if base == "" {
		base = "tour"
	}
	for i := 1; i <= maxSlugAttempts; i++ {
		cand := base
		if i > 1 {
			cand = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := s.repo.URLExists(ctx, cand)
		if err != nil {
			return "", fmt.Errorf("check url %q: %w", cand, err)
		}
		if !taken {
			return cand, nil
		}
	}
	return "", fmt.Errorf("no free url for %q after %d attempts", base, maxSlugAttempts)
}
