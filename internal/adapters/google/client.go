// internal/adapters/google/client.go
package google

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"gmb_agent/internal/adapters/observability"
	"gmb_agent/internal/domain"
)

const DefaultBaseURL = "https://maps.googleapis.com/maps/api"

const detailsFields = "name,rating,user_ratings_total,types,formatted_address,url,reviews"

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, key string, rps int) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("google API key is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 30 * time.Second},
		key:  key,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

// ---- Public API ----

func (c *Client) Geocode(ctx context.Context, address string) (domain.GeoPoint, error) {
	var out geocodeResponse
	if err := c.call(ctx, "geocode", url.Values{"address": {address}}, &out); err != nil {
		if errors.Is(err, ErrZeroResults) {
			return domain.GeoPoint{}, domain.ErrNoGeocode
		}
		return domain.GeoPoint{}, err
	}
	if len(out.Results) == 0 {
		return domain.GeoPoint{}, domain.ErrNoGeocode
	}
	r := out.Results[0]
	return domain.GeoPoint{
		Lat:              r.Geometry.Location.Lat,
		Lng:              r.Geometry.Location.Lng,
		FormattedAddress: r.FormattedAddress,
	}, nil
}

func (c *Client) SearchPlaces(ctx context.Context, keyword string, lat, lng float64, radiusM int) ([]domain.PlaceSummary, error) {
	q := url.Values{
		"query":    {keyword},
		"location": {fmt.Sprintf("%g,%g", lat, lng)},
		"radius":   {strconv.Itoa(radiusM)},
	}
	var out textSearchResponse
	if err := c.call(ctx, "place/textsearch", q, &out); err != nil {
		if errors.Is(err, ErrZeroResults) {
			return []domain.PlaceSummary{}, nil
		}
		return nil, err
	}
	places := make([]domain.PlaceSummary, 0, len(out.Results))
	for _, r := range out.Results {
		places = append(places, domain.PlaceSummary{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
		})
	}
	return places, nil
}

func (c *Client) PlaceDetails(ctx context.Context, placeID string) (domain.PlaceDetail, error) {
	q := url.Values{
		"place_id":     {placeID},
		"fields":       {detailsFields},
		"reviews_sort": {"newest"},
	}
	var out detailsResponse
	if err := c.call(ctx, "place/details", q, &out); err != nil {
		return domain.PlaceDetail{}, err
	}
	if out.Result == nil {
		return domain.PlaceDetail{}, fmt.Errorf("details for place_id %s: %w", placeID, ErrNotFound)
	}
	return out.Result.toDomain(placeID), nil
}

// Autocomplete returns city suggestions. Inputs shorter than two characters
// return nil without calling the API.
func (c *Client) Autocomplete(ctx context.Context, input string) ([]string, error) {
	if len([]rune(input)) < 2 {
		return nil, nil
	}
	var out autocompleteResponse
	if err := c.call(ctx, "place/autocomplete", url.Values{"input": {input}, "types": {"(cities)"}}, &out); err != nil {
		if errors.Is(err, ErrZeroResults) {
			return []string{}, nil
		}
		return nil, err
	}
	sugs := make([]string, 0, len(out.Predictions))
	for _, p := range out.Predictions {
		if p.Description != "" {
			sugs = append(sugs, p.Description)
		}
	}
	return sugs, nil
}

// ---- Internals ----

var (
	ErrNotFound      = errors.New("google: not found")
	ErrUnauthorized  = errors.New("google: unauthorized")
	ErrForbidden     = errors.New("google: forbidden")
	ErrZeroResults   = errors.New("google: zero results")
	ErrRequestDenied = errors.New("google: request denied")
	ErrQuotaExceeded = errors.New("google: over query limit")
	ErrInvalid       = errors.New("google: invalid request")
)

// call hits {base}/{endpoint}/json with the API key, then maps the body
// "status" field to a sentinel error.
func (c *Client) call(ctx context.Context, endpoint string, q url.Values, out statusCarrier) error {
	q.Set("key", c.key)
	u := fmt.Sprintf("%s/%s/json?%s", c.base, endpoint, q.Encode())

	start := time.Now()
	status, err := c.get(ctx, u, out)
	observability.ObserveExternal("google", endpoint, status, time.Since(start))
	if err != nil {
		return err
	}
	return statusErr(out.apiStatus(), out.apiError())
}

func statusErr(status, msg string) error {
	switch status {
	case "", "OK":
		return nil
	case "ZERO_RESULTS":
		return ErrZeroResults
	case "NOT_FOUND":
		return ErrNotFound
	case "REQUEST_DENIED":
		return withMsg(ErrRequestDenied, msg)
	case "OVER_QUERY_LIMIT", "OVER_DAILY_LIMIT":
		return withMsg(ErrQuotaExceeded, msg)
	case "INVALID_REQUEST":
		return withMsg(ErrInvalid, msg)
	default:
		return fmt.Errorf("google: status %s: %s", status, msg)
	}
}

func withMsg(err error, msg string) error {
	if msg == "" {
		return err
	}
	return fmt.Errorf("%w: %s", err, msg)
}

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
// The returned int is the last HTTP status seen (0 when no response arrived).
func (c *Client) get(ctx context.Context, rawURL string, out any) (int, error) {
	if err := c.rl.Wait(ctx); err != nil {
		return 0, err
	}

	var lastErr error
	lastStatus := 0
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return 0, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "gmb-agent/1.0")

		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			lastErr = redact(err)
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return 0, ctx.Err()
			}
			return 0, lastErr
		}
		lastStatus = resp.StatusCode

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return lastStatus, err

		case http.StatusNotFound:
			resp.Body.Close()
			return lastStatus, ErrNotFound

		case http.StatusUnauthorized:
			resp.Body.Close()
			return lastStatus, ErrUnauthorized

		case http.StatusForbidden:
			resp.Body.Close()
			return lastStatus, ErrForbidden

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return lastStatus, ctx.Err()
			}
			return lastStatus, lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return lastStatus, fmt.Errorf("bad status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastStatus, lastErr
}

// redact strips the query string (which carries the API key) from transport errors.
func redact(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		if u, perr := url.Parse(ue.URL); perr == nil {
			u.RawQuery = ""
			ue.URL = u.String()
		}
	}
	return err
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns an exponential delay (200ms, 400ms, 800ms...) with up to +50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
