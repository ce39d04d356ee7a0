package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrNoGeocode      = errors.New("location could not be geocoded")
	ErrInvalidRequest = errors.New("invalid request")
)

// PlacesClient is the external listing source (geocoding, search, details).
type PlacesClient interface {
	Geocode(ctx context.Context, address string) (GeoPoint, error)
	SearchPlaces(ctx context.Context, keyword string, lat, lng float64, radiusM int) ([]PlaceSummary, error)
	PlaceDetails(ctx context.Context, placeID string) (PlaceDetail, error)
	Autocomplete(ctx context.Context, input string) ([]string, error)
}

// RunRepository stores the two documents emitted by each run.
type RunRepository interface {
	SaveRun(ctx context.Context, r Run) error
	GetRun(ctx context.Context, id string) (Run, error)
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type Run struct {
	ID        string      `json:"id"`
	Raw       RawDocument `json:"raw"`
	Report    Report      `json:"report"`
	CreatedAt time.Time   `json:"created_at"`
}

type RunSummary struct {
	ID                string    `json:"id"`
	Keyword           string    `json:"keyword"`
	LocationText      string    `json:"location_text"`
	FormattedLocation string    `json:"formatted_location"`
	Places            int       `json:"places"`
	CreatedAt         time.Time `json:"created_at"`
}
