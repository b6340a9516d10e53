package domain

import "errors"

var (
	ErrInvalidID          = errors.New("invalid tour ID format")
	ErrInvalidItinerary   = errors.New("invalid itinerary format")
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNoChanges          = errors.New("no changes applied")
)

// UploadError wraps a failure pushing an image to the media host.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string { return "image upload failed: " + e.Err.Error() }
func (e *UploadError) Unwrap() error { return e.Err }
