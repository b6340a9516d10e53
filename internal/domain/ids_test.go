package domain_test

import (
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tour_catalog/internal/domain"
)

func TestIsValidID(t *testing.T) {
	good := primitive.NewObjectID().Hex()
	cases := []struct {
		in   string
		want bool
	}{
		{good, true},
		{"507f1f77bcf86cd799439011", true},
		{"507F1F77BCF86CD799439011", false}, // parses, but does not round-trip
		{" 507f1f77bcf86cd799439011", false},
		{"507f1f77bcf86cd79943901", false},
		{"zzzzzzzzzzzzzzzzzzzzzzzz", false},
		{"", false},
		{"tour-packages", false},
	}
	for _, c := range cases {
		if got := domain.IsValidID(c.in); got != c.want {
			t.Fatalf("IsValidID(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestIsValidID_RoundTrip(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := primitive.NewObjectID().Hex()
		if !domain.IsValidID(s) {
			t.Fatalf("fresh id %q rejected", s)
		}
		if domain.IsValidID(strings.ToUpper(s)) && strings.ToUpper(s) != s {
			t.Fatalf("upper-case form of %q accepted", s)
		}
	}
}

func TestParseID(t *testing.T) {
	if _, err := domain.ParseID("nope"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("want ErrInvalidID, got %v", err)
	}
	want := primitive.NewObjectID()
	got, err := domain.ParseID(want.Hex())
	if err != nil || got != want {
		t.Fatalf("ParseID = %v, %v; want %v", got, err, want)
	}
}
