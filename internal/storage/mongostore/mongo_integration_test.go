//go:build integration || !unit

package mongostore_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"tour_catalog/internal/domain"
	"tour_catalog/internal/storage/mongostore"
)

func pstr(s string) *string { return &s }

// startMongo runs a throwaway MongoDB and returns a connected database.
// The test is skipped when Docker is not available.
func startMongo(t *testing.T) *mongo.Database {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("dockertest: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("docker not reachable: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mongo",
		Tag:        "7.0",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mongo: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	uri := fmt.Sprintf("mongodb://127.0.0.1:%s", resource.GetPort("27017/tcp"))
	gw := mongostore.NewGateway(uri, "tours_it")

	var db *mongo.Database
	pool.MaxWait = 60 * time.Second
	if err := pool.Retry(func() error {
		var e error
		db, e = gw.Connect(context.Background())
		return e
	}); err != nil {
		t.Fatalf("connect mongo: %v", err)
	}
	t.Cleanup(func() { _ = gw.Close(context.Background()) })
	return db
}

func TestTourRepo_Mongo(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()
	repo := mongostore.NewTourRepo(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}

	seed := []domain.Tour{
		{PackageName: "Kerala Backwaters", URL: "kerala-backwaters", Theme: "beach", Indian: "Yes", International: "No", FixedDeparture: "Yes"},
		{PackageName: "Goa Sun", URL: "goa-sun", Theme: "beach", Indian: "Yes", International: "No", FixedDeparture: "No"},
		{PackageName: "Swiss Alps", URL: "swiss-alps", Theme: "mountain", Indian: "No", International: "Yes", FixedDeparture: "Yes", Image: pstr("https://img/alps.jpg")},
	}
	ids := make([]primitive.ObjectID, len(seed))
	for i, tr := range seed {
		tr.Itinerary = []domain.ItineraryDay{{Title: "Day 1"}}
		tr.CreatedAt = time.Now().UTC()
		id, err := repo.InsertTour(ctx, tr)
		if err != nil {
			t.Fatalf("InsertTour: %v", err)
		}
		ids[i] = id
	}

	got, err := repo.FindTourByURL(ctx, "goa-sun")
	if err != nil || got.ID != ids[1] {
		t.Fatalf("FindTourByURL = %+v, %v", got, err)
	}
	if _, err := repo.FindTourByID(ctx, primitive.NewObjectID()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if ok, _ := repo.URLExists(ctx, "swiss-alps"); !ok {
		t.Fatalf("URLExists(swiss-alps) = false")
	}

	indian, err := repo.ListTours(ctx, domain.TourFilter{Flag: domain.FlagIndian})
	if err != nil || len(indian) != 2 {
		t.Fatalf("indian tours = %d, %v", len(indian), err)
	}
	fixed, _ := repo.ListTours(ctx, domain.TourFilter{Flag: domain.FlagFixedDeparture, Limit: 1})
	if len(fixed) != 1 {
		t.Fatalf("fixed limit 1 = %d", len(fixed))
	}

	similar, err := repo.ListSimilar(ctx, "beach", "kerala-backwaters", 4)
	if err != nil || len(similar) != 1 || similar[0].URL != "goa-sun" {
		t.Fatalf("similar = %+v, %v", similar, err)
	}

	themes, err := repo.ListOnePerTheme(ctx, 6)
	if err != nil {
		t.Fatalf("ListOnePerTheme: %v", err)
	}
	if len(themes) != 2 || themes[0].ThemeName != "beach" || themes[0].ID != ids[0] || themes[1].ThemeName != "mountain" {
		t.Fatalf("themes = %+v", themes)
	}
	if themes[1].Image == nil || *themes[1].Image != "https://img/alps.jpg" {
		t.Fatalf("theme image not projected: %+v", themes[1])
	}

	// full replace writes every field
	at := time.Now().UTC().Truncate(time.Millisecond)
	ok, err := repo.ReplaceTourFields(ctx, ids[1], domain.TourFields{
		PackageName: "Goa Sun Deluxe", URL: "goa-sun", Theme: "beach",
		Indian: "Yes", International: "No", FixedDeparture: "No",
		Itinerary: []domain.ItineraryDay{{Title: "Arrive", Description: ""}},
	}, nil, at)
	if err != nil || !ok {
		t.Fatalf("ReplaceTourFields = %v, %v", ok, err)
	}
	got, _ = repo.FindTourByID(ctx, ids[1])
	if got.PackageName != "Goa Sun Deluxe" || got.TourPrice != "" || got.Image != nil || got.UpdatedAt == nil {
		t.Fatalf("after replace: %+v", got)
	}

	// sparse patch touches only given fields
	if ok, err := repo.PatchTourSEO(ctx, ids[1], domain.SEOPatch{Title: pstr("Goa")}, at); err != nil || !ok {
		t.Fatalf("PatchTourSEO = %v, %v", ok, err)
	}
	got, _ = repo.FindTourByID(ctx, ids[1])
	if got.SEOTitle == nil || *got.SEOTitle != "Goa" || got.SEOKeyword != nil || got.PackageName != "Goa Sun Deluxe" {
		t.Fatalf("after patch: %+v", got)
	}

	if ok, _ := repo.DeleteTour(ctx, ids[2]); !ok {
		t.Fatalf("first delete reported nothing deleted")
	}
	if ok, _ := repo.DeleteTour(ctx, ids[2]); ok {
		t.Fatalf("second delete reported a deletion")
	}
}

func TestAdminAndTestimonialRepos_Mongo(t *testing.T) {
	db := startMongo(t)
	ctx := context.Background()

	admins := mongostore.NewAdminRepo(db)
	// legacy record as the old backend stored it
	res, err := db.Collection("admin").InsertOne(ctx, bson.M{"username": "root", "password": "secret"})
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	legacy, err := admins.ListLegacyAdmins(ctx)
	if err != nil || len(legacy) != 1 || legacy[0].LegacyPassword != "secret" {
		t.Fatalf("legacy = %+v, %v", legacy, err)
	}
	if err := admins.SetPasswordHash(ctx, res.InsertedID.(primitive.ObjectID), "$2a$hash"); err != nil {
		t.Fatalf("SetPasswordHash: %v", err)
	}
	a, err := admins.FindAdminByUsername(ctx, "root")
	if err != nil || a.PasswordHash != "$2a$hash" || a.LegacyPassword != "" {
		t.Fatalf("after rehash: %+v, %v", a, err)
	}
	if _, err := admins.FindAdminByUsername(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	ts := mongostore.NewTestimonialRepo(db)
	now := time.Now().UTC()
	for i, u := range []string{"https://v/1", "https://v/2"} {
		if _, err := ts.InsertTestimonial(ctx, domain.Testimonial{VideoURL: u, CreatedAt: now.Add(time.Duration(i) * time.Second)}); err != nil {
			t.Fatalf("InsertTestimonial: %v", err)
		}
	}
	list, err := ts.ListTestimonials(ctx)
	if err != nil || len(list) != 2 || list[0].VideoURL != "https://v/2" {
		t.Fatalf("testimonials = %+v, %v", list, err)
	}
}
