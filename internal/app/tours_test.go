package app_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"tour_catalog/internal/app"
	"tour_catalog/internal/domain"
	"tour_catalog/internal/storage/memstore"
)

func newTours(up domain.MediaUploader) (*app.TourService, *memstore.Store) {
	store := memstore.New()
	return app.NewTourService(store, up, nil, 0), store
}

func TestCreate_DefaultsAndItinerary(t *testing.T) {
	svc, _ := newTours(nil)
	ctx := context.Background()

	res, err := svc.Create(ctx, app.TourInput{
		PackageName: "Best of Kerala!!  ",
		Indian:      "Yes",
		Itinerary:   `[{"title":"Day 1"}]`,
	}, "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if res.URL != "best-of-kerala" || res.ImageURL != nil {
		t.Fatalf("result = %+v", res)
	}

	got, err := svc.GetByID(ctx, res.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Indian != domain.FlagYes || got.International != domain.FlagNo || got.FixedDeparture != domain.FlagNo {
		t.Fatalf("flags = %s/%s/%s", got.Indian, got.International, got.FixedDeparture)
	}
	if len(got.Itinerary) != 1 || got.Itinerary[0] != (domain.ItineraryDay{Title: "Day 1"}) {
		t.Fatalf("itinerary = %+v", got.Itinerary)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt != nil {
		t.Fatalf("timestamps = %v / %v", got.CreatedAt, got.UpdatedAt)
	}
}

func TestCreate_SlugCollisionsGetSuffix(t *testing.T) {
	svc, _ := newTours(nil)
	for i, want := range []string{"goa", "goa-2", "goa-3"} {
		if got := mustCreate(t, svc, app.TourInput{PackageName: "Goa"}).URL; got != want {
			t.Fatalf("#%d url = %q, want %q", i, got, want)
		}
	}
	if got := mustCreate(t, svc, app.TourInput{PackageName: "!!!"}).URL; got != "tour" {
		t.Fatalf("empty slug fallback = %q", got)
	}
}

func TestCreate_UploadsImage(t *testing.T) {
	up := &fakeUploader{url: "https://res.example.com/tour-1.jpg"}
	svc, _ := newTours(up)
	path := tempFile(t)

	res, err := svc.Create(context.Background(), app.TourInput{PackageName: "Ladakh"}, path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if deref(res.ImageURL) != up.url {
		t.Fatalf("image = %v", res.ImageURL)
	}
	if len(up.paths) != 1 || up.paths[0] != path {
		t.Fatalf("uploader paths = %v", up.paths)
	}
}

func TestCreate_UploadFailureWritesNothing(t *testing.T) {
	up := &fakeUploader{err: errors.New("quota exceeded")}
	svc, _ := newTours(up)

	_, err := svc.Create(context.Background(), app.TourInput{PackageName: "Ladakh"}, tempFile(t))
	var ue *domain.UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("want UploadError, got %v", err)
	}
	all, _ := svc.ListAll(context.Background())
	if len(all) != 0 {
		t.Fatalf("no tour should be stored, got %d", len(all))
	}
}

func TestCreate_InvalidItineraryBeforeUpload(t *testing.T) {
	up := &fakeUploader{url: "https://res.example.com/x.jpg"}
	svc, _ := newTours(up)
	path := tempFile(t)

	_, err := svc.Create(context.Background(), app.TourInput{PackageName: "X", Itinerary: "nope"}, path)
	if !errors.Is(err, domain.ErrInvalidItinerary) {
		t.Fatalf("want ErrInvalidItinerary, got %v", err)
	}
	if len(up.paths) != 0 {
		t.Fatal("uploader must not be called")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("the caller still owns the untouched temp file: %v", err)
	}
}

func TestCreate_NoUploaderConfigured(t *testing.T) {
	svc, _ := newTours(nil)
	_, err := svc.Create(context.Background(), app.TourInput{PackageName: "X"}, tempFile(t))
	var ue *domain.UploadError
	if !errors.As(err, &ue) {
		t.Fatalf("want UploadError, got %v", err)
	}
}

func TestGet_Errors(t *testing.T) {
	svc, _ := newTours(nil)
	ctx := context.Background()

	if _, err := svc.GetByID(ctx, "zzz"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("bad id: %v", err)
	}
	if _, err := svc.GetByID(ctx, "64b7f0c2a1b2c3d4e5f60718"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing id: %v", err)
	}
	if _, err := svc.GetByURL(ctx, "nowhere"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing url: %v", err)
	}
}

func TestUpdate_FullReplace(t *testing.T) {
	up := &fakeUploader{url: "https://res.example.com/first.jpg"}
	svc, _ := newTours(up)
	ctx := context.Background()

	res, err := svc.Create(ctx, app.TourInput{PackageName: "Andaman", Theme: "Beach", TourPrice: "30000", Indian: "Yes"}, tempFile(t))
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	out, err := svc.Update(ctx, res.ID, app.TourInput{PackageName: "Andaman Escape", Itinerary: `[{"description":"ferry"}]`}, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if deref(out.ImageURL) != "https://res.example.com/first.jpg" {
		t.Fatalf("image should be kept: %v", out.ImageURL)
	}

	got, _ := svc.GetByID(ctx, res.ID)
	if got.Theme != "" || got.TourPrice != "" || got.Indian != domain.FlagNo {
		t.Fatalf("absent fields must be overwritten: %+v", got)
	}
	if got.URL != "andaman-escape" {
		t.Fatalf("url re-derived = %q", got.URL)
	}
	if got.Itinerary[0] != (domain.ItineraryDay{Description: "ferry"}) {
		t.Fatalf("itinerary = %+v", got.Itinerary)
	}
	if got.UpdatedAt == nil {
		t.Fatal("updatedAt not stamped")
	}

	up.url = "https://res.example.com/second.jpg"
	out, err = svc.Update(ctx, res.ID, app.TourInput{PackageName: "Andaman Escape", URL: "andaman"}, tempFile(t))
	if err != nil {
		t.Fatalf("update with image: %v", err)
	}
	if deref(out.ImageURL) != up.url {
		t.Fatalf("image should be replaced: %v", out.ImageURL)
	}
	if got, _ := svc.GetByID(ctx, res.ID); got.URL != "andaman" {
		t.Fatalf("explicit url = %q", got.URL)
	}
}

func TestUpdate_Errors(t *testing.T) {
	svc, _ := newTours(nil)
	ctx := context.Background()
	id := mustCreate(t, svc, app.TourInput{PackageName: "Coorg"}).ID

	if _, err := svc.Update(ctx, "bad", app.TourInput{}, ""); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("bad id: %v", err)
	}
	if _, err := svc.Update(ctx, "64b7f0c2a1b2c3d4e5f60718", app.TourInput{}, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing: %v", err)
	}
	if _, err := svc.Update(ctx, id, app.TourInput{Itinerary: "[1,2"}, ""); !errors.Is(err, domain.ErrInvalidItinerary) {
		t.Fatalf("itinerary: %v", err)
	}
}

func TestDelete_TwiceThenNotFound(t *testing.T) {
	svc, _ := newTours(nil)
	ctx := context.Background()
	id := mustCreate(t, svc, app.TourInput{PackageName: "Spiti"}).ID

	got, err := svc.Delete(ctx, id)
	if err != nil || got != id {
		t.Fatalf("first delete = %q, %v", got, err)
	}
	if _, err := svc.Delete(ctx, id); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := svc.Delete(ctx, "not-hex"); !errors.Is(err, domain.ErrInvalidID) {
		t.Fatalf("bad id: %v", err)
	}
}

func TestListByFlag(t *testing.T) {
	svc, _ := newTours(nil)
	ctx := context.Background()
	for _, in := range []app.TourInput{
		{PackageName: "A", FixedDeparture: "Yes"},
		{PackageName: "B", FixedDeparture: "Yes", Indian: "Yes"},
		{PackageName: "C", Indian: "Yes"},
		{PackageName: "D", FixedDeparture: "Yes"},
		{PackageName: "E", FixedDeparture: "Yes"},
		{PackageName: "F", FixedDeparture: "Yes"},
	} {
		mustCreate(t, svc, in)
	}

	indian, _ := svc.ListByFlag(ctx, domain.FlagIndian, 0)
	if len(indian) != 2 {
		t.Fatalf("indian = %d", len(indian))
	}
	fixed, _ := svc.ListByFlag(ctx, domain.FlagFixedDeparture, app.DefaultSimilarLimit)
	if len(fixed) != 4 {
		t.Fatalf("fixed limited = %d", len(fixed))
	}
	intl, err := svc.ListByFlag(ctx, domain.FlagInternational, 0)
	if err != nil || intl == nil || len(intl) != 0 {
		t.Fatalf("international = %v, %v; want empty non-nil", intl, err)
	}
	if _, err := svc.ListByFlag(ctx, domain.Flag("theme"), 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("unknown flag: %v", err)
	}
}

func TestListSimilarByTheme(t *testing.T) {
	svc, _ := newTours(nil)
	ctx := context.Background()
	base := mustCreate(t, svc, app.TourInput{PackageName: "Goa", Theme: "Beach"})
	for _, n := range []string{"Bali", "Phuket", "Maldives", "Lakshadweep", "Andaman"} {
		mustCreate(t, svc, app.TourInput{PackageName: n, Theme: "Beach"})
	}
	mustCreate(t, svc, app.TourInput{PackageName: "Kedarnath", Theme: "Pilgrimage"})

	out, err := svc.ListSimilarByTheme(ctx, base.URL, 0)
	if err != nil {
		t.Fatalf("similar: %v", err)
	}
	if len(out) != app.DefaultSimilarLimit {
		t.Fatalf("len = %d", len(out))
	}
	for _, tr := range out {
		if tr.URL == base.URL || tr.Theme != "Beach" {
			t.Fatalf("unexpected %+v", tr)
		}
	}

	none, err := svc.ListSimilarByTheme(ctx, "no-such-tour", 0)
	if err != nil || none == nil || len(none) != 0 {
		t.Fatalf("missing base = %v, %v; want empty non-nil", none, err)
	}
}

func TestListOnePerTheme_LowestIDWins(t *testing.T) {
	svc, _ := newTours(nil)
	ctx := context.Background()
	mustCreate(t, svc, app.TourInput{PackageName: "Rishikesh", Theme: "Pilgrimage"})
	mustCreate(t, svc, app.TourInput{PackageName: "Goa", Theme: "Beach"})
	mustCreate(t, svc, app.TourInput{PackageName: "Bali", Theme: "Beach"})
	mustCreate(t, svc, app.TourInput{PackageName: "Kedarnath", Theme: "Pilgrimage"})

	out, err := svc.ListOnePerTheme(ctx, 0)
	if err != nil {
		t.Fatalf("themes: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d", len(out))
	}
	if out[0].ThemeName != "Beach" || out[0].PackageName != "Goa" {
		t.Fatalf("beach sample = %+v", out[0])
	}
	if out[1].ThemeName != "Pilgrimage" || out[1].PackageName != "Rishikesh" {
		t.Fatalf("pilgrimage sample = %+v", out[1])
	}

	capped, _ := svc.ListOnePerTheme(ctx, 1)
	if len(capped) != 1 {
		t.Fatalf("capped len = %d", len(capped))
	}
}
