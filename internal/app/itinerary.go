package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"tour_catalog/internal/domain"
)

// ParseItinerary decodes a JSON array of {title, description} objects.
// Missing or null fields become "", and entries that are not objects become
// an empty day. Blank input is an empty itinerary.
func ParseItinerary(raw string) ([]domain.ItineraryDay, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []domain.ItineraryDay{}, nil
	}
	var items []any
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidItinerary, err)
	}
	out := make([]domain.ItineraryDay, 0, len(items))
	for _, item := range items {
		it, _ := item.(map[string]any)
		out = append(out, domain.ItineraryDay{
			Title:       textField(it, "title"),
			Description: textField(it, "description"),
		})
	}
	return out, nil
}

func textField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
