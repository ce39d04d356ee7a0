package app_test

import (
	"context"
	"errors"
	"sync"
	"time"

	"gmb_agent/internal/domain"
)

// ---- fakes ----

type fakePlaces struct {
	mu        sync.Mutex
	geo       domain.GeoPoint
	geoErr    error
	hits      []domain.PlaceSummary
	searchErr error
	details   map[string]domain.PlaceDetail
	detailErr map[string]error
	delay     map[string]time.Duration
	calls     map[string]int
	sugs      []string
}

func (f *fakePlaces) Geocode(ctx context.Context, address string) (domain.GeoPoint, error) {
	return f.geo, f.geoErr
}

func (f *fakePlaces) SearchPlaces(ctx context.Context, keyword string, lat, lng float64, radiusM int) ([]domain.PlaceSummary, error) {
	return f.hits, f.searchErr
}

func (f *fakePlaces) PlaceDetails(ctx context.Context, placeID string) (domain.PlaceDetail, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[placeID]++
	d := f.delay[placeID]
	f.mu.Unlock()

	if d > 0 {
		time.Sleep(d)
	}
	if err := f.detailErr[placeID]; err != nil {
		return domain.PlaceDetail{}, err
	}
	return f.details[placeID], nil
}

func (f *fakePlaces) Autocomplete(ctx context.Context, input string) ([]string, error) {
	return f.sugs, nil
}

func (f *fakePlaces) callsFor(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

type fakeRuns struct {
	saved   []domain.Run
	saveErr error
	gets    int
}

func (f *fakeRuns) SaveRun(ctx context.Context, r domain.Run) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeRuns) GetRun(ctx context.Context, id string) (domain.Run, error) {
	f.gets++
	for _, r := range f.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Run{}, domain.ErrNotFound
}

func (f *fakeRuns) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	return []domain.RunSummary{}, nil
}

type fakeCache struct {
	mu    sync.Mutex
	store map[string]any
	ttls  map[string]int
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	switch d := dst.(type) {
	case *domain.PlaceDetail:
		*d = v.(domain.PlaceDetail)
	case *domain.Run:
		*d = v.(domain.Run)
	}
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.store == nil {
		c.store = map[string]any{}
		c.ttls = map[string]int{}
	}
	c.store[key] = v
	c.ttls[key] = ttlSec
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.store, key)
	return nil
}

func ptr[T any](v T) *T { return &v }

var errTest = errors.New("details failed")
