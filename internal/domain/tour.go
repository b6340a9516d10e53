package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Flag values stored in indian / international / fixed_departure.
const (
	FlagYes = "Yes"
	FlagNo  = "No"
)

// Flag names a "Yes"/"No" category field of a tour.
type Flag string

const (
	FlagIndian         Flag = "indian"
	FlagInternational  Flag = "international"
	FlagFixedDeparture Flag = "fixed_departure"
)

type ItineraryDay struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
}

type Tour struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	PackageName     string             `bson:"package_name" json:"package_name"`
	URL             string             `bson:"url" json:"url"`
	TourDuration    string             `bson:"tour_duration" json:"tour_duration"`
	TourDestination string             `bson:"tour_destination" json:"tour_destination"`
	TourPrice       string             `bson:"tour_price" json:"tour_price"`
	Theme           string             `bson:"theme" json:"theme"`
	Indian          string             `bson:"indian" json:"indian"`
	International   string             `bson:"international" json:"international"`
	FixedDeparture  string             `bson:"fixed_departure" json:"fixed_departure"`
	Inclusions      string             `bson:"inclusions" json:"inclusions"`
	Exclusions      string             `bson:"exclusions" json:"exclusions"`
	Itinerary       []ItineraryDay     `bson:"itinerary" json:"itinerary"`
	Image           *string            `bson:"image" json:"image"` // null when no upload
	SEOTitle        *string            `bson:"seo_title,omitempty" json:"seo_title,omitempty"`
	SEODescription  *string            `bson:"seo_description,omitempty" json:"seo_description,omitempty"`
	SEOKeyword      *string            `bson:"seo_keyword,omitempty" json:"seo_keyword,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       *time.Time         `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// FlagValue returns the stored value of the named flag.
func (t Tour) FlagValue(f Flag) string {
	switch f {
	case FlagIndian:
		return t.Indian
	case FlagInternational:
		return t.International
	case FlagFixedDeparture:
		return t.FixedDeparture
	}
	return ""
}

// TourFields is the full set of scalar fields written by create and by the
// full-replace update. Anything absent from a request arrives here as "".
type TourFields struct {
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
	Itinerary       []ItineraryDay
}

// SEOPatch carries only the SEO fields present in a request.
type SEOPatch struct {
	Title       *string `json:"seo_title,omitempty"`
	Description *string `json:"seo_description,omitempty"`
	Keyword     *string `json:"seo_keyword,omitempty"`
}

// ThemeSample is the projected one-per-theme read model.
type ThemeSample struct {
	ID              primitive.ObjectID `bson:"_id" json:"_id"`
	PackageName     string             `bson:"package_name" json:"package_name"`
	TourDuration    string             `bson:"tour_duration" json:"tour_duration"`
	TourDestination string             `bson:"tour_destination" json:"tour_destination"`
	TourPrice       string             `bson:"tour_price" json:"tour_price"`
	Image           *string            `bson:"image" json:"image"`
	URL             string             `bson:"url" json:"url"`
	ThemeName       string             `bson:"theme_name" json:"theme_name"`
}

type TourFilter struct {
	Flag  Flag // empty = all tours
	Limit int  // <= 0 = unbounded
}
