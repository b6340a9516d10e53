package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TourRepository interface {
	// Write paths
	InsertTour(ctx context.Context, t Tour) (primitive.ObjectID, error)
	// ReplaceTourFields overwrites every scalar field, the itinerary and the
	// image of a tour. It reports whether a document matched.
	ReplaceTourFields(ctx context.Context, id primitive.ObjectID, f TourFields, image *string, at time.Time) (bool, error)
	// PatchTourSEO sets only the non-nil fields of p. It reports whether a
	// document matched.
	PatchTourSEO(ctx context.Context, id primitive.ObjectID, p SEOPatch, at time.Time) (bool, error)
	DeleteTour(ctx context.Context, id primitive.ObjectID) (bool, error)

	// Read paths
	FindTourByID(ctx context.Context, id primitive.ObjectID) (Tour, error)
	FindTourByURL(ctx context.Context, url string) (Tour, error)
	URLExists(ctx context.Context, url string) (bool, error)
	ListTours(ctx context.Context, f TourFilter) ([]Tour, error)
	ListSimilar(ctx context.Context, theme, excludeURL string, limit int) ([]Tour, error)
	ListOnePerTheme(ctx context.Context, limit int) ([]ThemeSample, error)
}

type TestimonialRepository interface {
	InsertTestimonial(ctx context.Context, t Testimonial) (primitive.ObjectID, error)
	ListTestimonials(ctx context.Context) ([]Testimonial, error)
}

type AdminRepository interface {
	FindAdminByUsername(ctx context.Context, username string) (Admin, error)
	InsertAdmin(ctx context.Context, a Admin) (primitive.ObjectID, error)
	ListLegacyAdmins(ctx context.Context) ([]Admin, error)
	SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string) error
}

// MediaUploader pushes a local file to the image host and returns its
// durable URL. Implementations remove the local file whatever the outcome.
type MediaUploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
	Incr(ctx context.Context, key string) (int64, error)
}
