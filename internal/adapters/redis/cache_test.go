package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "gmb_agent/internal/adapters/redis"
	"gmb_agent/internal/domain"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	rating := 4.5
	in := domain.PlaceDetail{
		PlaceID: "p1",
		Name:    "Carnicería Uno",
		Rating:  &rating,
		Reviews: []domain.Review{{Text: "Buen brisket", AuthorName: "Ana"}},
	}
	if err := c.Set(ctx, "place:p1", in, 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !mr.Exists("gmb:place:p1") {
		t.Fatalf("expected namespaced key in redis, keys=%v", mr.Keys())
	}

	var out domain.PlaceDetail
	ok, err := c.Get(ctx, "place:p1", &out)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if out.Name != in.Name || out.Rating == nil || *out.Rating != 4.5 || len(out.Reviews) != 1 {
		t.Fatalf("unexpected cached value: %+v", out)
	}

	if err := c.Del(ctx, "place:p1"); err != nil {
		t.Fatalf("del: %v", err)
	}
	ok, err = c.Get(ctx, "place:p1", &out)
	if err != nil || ok {
		t.Fatalf("expected miss after del: ok=%v err=%v", ok, err)
	}
}

func TestCache_Expires(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	if err := c.Set(ctx, "place:p2", domain.PlaceDetail{PlaceID: "p2"}, 30); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var out domain.PlaceDetail
	ok, err := c.Get(ctx, "place:p2", &out)
	if err != nil || ok {
		t.Fatalf("expected expiry miss: ok=%v err=%v", ok, err)
	}
}

func TestCache_CorruptPayload(t *testing.T) {
	c, mr := newCache(t)
	if err := mr.Set("gmb:place:bad", "{not json"); err != nil {
		t.Fatalf("seed: %v", err)
	}
	var out domain.PlaceDetail
	ok, err := c.Get(context.Background(), "place:bad", &out)
	if ok || err == nil {
		t.Fatalf("expected decode error, got ok=%v err=%v", ok, err)
	}
}
