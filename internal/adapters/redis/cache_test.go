package redisad_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"

	redisad "tour_catalog/internal/adapters/redis"
)

type sample struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestCache_SetGetDel(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var out sample
	if ok, err := c.Get(ctx, "k", &out); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}
	if err := c.Set(ctx, "k", sample{Name: "kerala", Items: []string{"a"}}, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ok, err := c.Get(ctx, "k", &out); !ok || err != nil || out.Name != "kerala" || len(out.Items) != 1 {
		t.Fatalf("get = %+v ok=%v err=%v", out, ok, err)
	}
	if ttl := mr.TTL("k"); ttl.Seconds() != 60 {
		t.Fatalf("ttl = %v", ttl)
	}
	if err := c.Del(ctx, "k"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("k") {
		t.Fatalf("key still present after Del")
	}
}

func TestCache_IncrIsReadableAsJSON(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	for i := 1; i <= 2; i++ {
		n, err := c.Incr(ctx, "gen")
		if err != nil || n != int64(i) {
			t.Fatalf("incr #%d = %d, %v", i, n, err)
		}
	}
	var gen int64
	if ok, err := c.Get(ctx, "gen", &gen); !ok || err != nil || gen != 2 {
		t.Fatalf("gen = %d ok=%v err=%v", gen, ok, err)
	}
}
