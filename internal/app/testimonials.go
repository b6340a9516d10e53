package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tour_catalog/internal/domain"
)

type TestimonialService struct {
	repo domain.TestimonialRepository
	now  func() time.Time
}

func NewTestimonialService(r domain.TestimonialRepository) *TestimonialService {
	return &TestimonialService{repo: r, now: time.Now}
}

type addTestimonialInput struct {
	VideoURL string `json:"video_url" validate:"required"`
}

func (s *TestimonialService) Add(ctx context.Context, videoURL string) (domain.Testimonial, error) {
	if err := validateStruct(addTestimonialInput{VideoURL: strings.TrimSpace(videoURL)}); err != nil {
		return domain.Testimonial{}, err
	}
	t := domain.Testimonial{VideoURL: videoURL, CreatedAt: s.now().UTC()}
	id, err := s.repo.InsertTestimonial(ctx, t)
	if err != nil {
		return domain.Testimonial{}, fmt.Errorf("insert testimonial: %w", err)
	}
	t.ID = id
	return t, nil
}

func (s *TestimonialService) List(ctx context.Context) ([]domain.Testimonial, error) {
	out, err := s.repo.ListTestimonials(ctx)
	if out == nil && err == nil {
		out = []domain.Testimonial{}
	}
	return out, err
}
