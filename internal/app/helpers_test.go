package app_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"tour_catalog/internal/app"
	"tour_catalog/internal/domain"
	"tour_catalog/internal/storage/memstore"
)

// ---- fakes ----

type fakeUploader struct {
	mu    sync.Mutex
	paths []string
	url   string
	err   error
}

func (f *fakeUploader) Upload(_ context.Context, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paths = append(f.paths, path)
	_ = os.Remove(path)
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

// countingStore counts list scans so cache hits are observable.
type countingStore struct {
	*memstore.Store
	mu    sync.Mutex
	lists int
}

func (c *countingStore) ListTours(ctx context.Context, f domain.TourFilter) ([]domain.Tour, error) {
	c.mu.Lock()
	c.lists++
	c.mu.Unlock()
	return c.Store.ListTours(ctx, f)
}

func (c *countingStore) scans() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lists
}

func tempFile(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "upload-1")
	if err := os.WriteFile(p, []byte("img"), 0o600); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	return p
}

func ptr[T any](v T) *T { return &v }

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func mustCreate(t *testing.T, s *app.TourService, in app.TourInput) app.CreateResult {
	t.Helper()
	res, err := s.Create(context.Background(), in, "")
	if err != nil {
		t.Fatalf("create %q: %v", in.PackageName, err)
	}
	return res
}
