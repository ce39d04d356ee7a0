package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"gmb_agent/internal/domain"
)

var ErrStoreDisabled = errors.New("run store is not configured")

const (
	minRadiusM = 1000
	maxRadiusM = 100000
	minTopN    = 1
	maxTopN    = 20
)

type AgentOptions struct {
	RadiusM  int
	TopN     int
	Workers  int
	CacheTTL time.Duration
}

type RunRequest struct {
	Keyword  string `json:"keyword" yaml:"keyword"`
	Location string `json:"location" yaml:"location"`
	RadiusM  int    `json:"radius_m" yaml:"radius_m"`
	TopN     int    `json:"top_n" yaml:"top_n"`
}

type RunResult struct {
	ID      string
	Raw     domain.RawDocument
	Report  domain.Report
	Elapsed time.Duration
}

// AgentService runs geocode -> search -> details -> report for one keyword/location.
type AgentService struct {
	places   domain.PlacesClient
	runs     domain.RunRepository
	cache    domain.Cache
	composer *Composer
	opts     AgentOptions
	now      func() time.Time
}

// NewAgentService wires the pipeline. runs and cache may be nil.
func NewAgentService(p domain.PlacesClient, runs domain.RunRepository, cache domain.Cache, c *Composer, opts AgentOptions) *AgentService {
	if opts.Workers <= 0 {
		opts.Workers = 4
	}
	return &AgentService{places: p, runs: runs, cache: cache, composer: c, opts: opts, now: time.Now}
}

func (s *AgentService) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	req, err := s.normalize(req)
	if err != nil {
		return RunResult{}, err
	}
	start := s.now()

	geo, err := s.places.Geocode(ctx, req.Location)
	if err != nil {
		return RunResult{}, fmt.Errorf("geocode %q: %w", req.Location, err)
	}
	formatted := geo.FormattedAddress
	if formatted == "" {
		formatted = req.Location
	}

	hits, err := s.places.SearchPlaces(ctx, req.Keyword, geo.Lat, geo.Lng, req.RadiusM)
	if err != nil {
		return RunResult{}, fmt.Errorf("search %q: %w", req.Keyword, err)
	}
	hits = selectHits(hits, req.TopN)
	log.Info().
		Str("keyword", req.Keyword).
		Str("location", formatted).
		Int("places", len(hits)).
		Msg("search done")

	details, err := s.fetchDetails(ctx, hits)
	if err != nil {
		return RunResult{}, err
	}

	raw := domain.RawDocument{
		Keyword:           req.Keyword,
		LocationText:      req.Location,
		FormattedLocation: formatted,
		Center:            domain.Center{Lat: geo.Lat, Lng: geo.Lng},
		RadiusM:           req.RadiusM,
		TopN:              req.TopN,
		Places:            details,
	}
	report := s.composer.Compose(req.Keyword, req.Location, formatted, details)

	run := domain.Run{ID: uuid.NewString(), Raw: raw, Report: report, CreatedAt: s.now().UTC()}
	if s.runs != nil {
		if err := s.runs.SaveRun(ctx, run); err != nil {
			return RunResult{}, fmt.Errorf("save run %s: %w", run.ID, err)
		}
	}

	elapsed := s.now().Sub(start)
	log.Info().Str("id", run.ID).Dur("elapsed", elapsed).Msg("report composed")
	return RunResult{ID: run.ID, Raw: raw, Report: report, Elapsed: elapsed}, nil
}

// Suggest returns location completions for free text.
func (s *AgentService) Suggest(ctx context.Context, input string) ([]string, error) {
	out, err := s.places.Autocomplete(ctx, strings.TrimSpace(input))
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []string{}
	}
	return out, nil
}

func (s *AgentService) normalize(req RunRequest) (RunRequest, error) {
	req.Keyword = strings.TrimSpace(req.Keyword)
	req.Location = strings.TrimSpace(req.Location)
	if req.Keyword == "" {
		return req, fmt.Errorf("%w: keyword is required", domain.ErrInvalidRequest)
	}
	if req.Location == "" {
		return req, fmt.Errorf("%w: location is required", domain.ErrInvalidRequest)
	}
	if req.RadiusM == 0 {
		req.RadiusM = s.opts.RadiusM
	}
	if req.TopN == 0 {
		req.TopN = s.opts.TopN
	}
	if req.RadiusM < minRadiusM || req.RadiusM > maxRadiusM {
		return req, fmt.Errorf("%w: radius_m must be between %d and %d", domain.ErrInvalidRequest, minRadiusM, maxRadiusM)
	}
	if req.TopN < minTopN || req.TopN > maxTopN {
		return req, fmt.Errorf("%w: top_n must be between %d and %d", domain.ErrInvalidRequest, minTopN, maxTopN)
	}
	return req, nil
}

func selectHits(in []domain.PlaceSummary, topN int) []domain.PlaceSummary {
	out := make([]domain.PlaceSummary, 0, min(len(in), topN))
	for _, h := range in {
		if h.PlaceID == "" {
			continue
		}
		out = append(out, h)
		if len(out) == topN {
			break
		}
	}
	return out
}

// fetchDetails loads details for every hit with bounded concurrency. Output
// order matches hits; a failed lookup becomes a fallback record.
func (s *AgentService) fetchDetails(ctx context.Context, hits []domain.PlaceSummary) ([]domain.PlaceDetail, error) {
	out := make([]domain.PlaceDetail, len(hits))
	sem := semaphore.NewWeighted(int64(s.opts.Workers))
	var wg sync.WaitGroup

	for i, h := range hits {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			wg.Wait()
			return nil, fmt.Errorf("place details: %w", err)
		}
		wg.Add(1)
		go func(i int, h domain.PlaceSummary) {
			defer wg.Done()
			defer sem.Release(1)

			d, err := s.placeDetails(ctx, h.PlaceID)
			if err != nil {
				log.Warn().Str("place_id", h.PlaceID).Err(err).Msg("place details failed")
				out[i] = domain.FallbackPlace(h, err)
				return
			}
			if d.Reviews == nil {
				d.Reviews = []domain.Review{}
			}
			out[i] = d
		}(i, h)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *AgentService) placeDetails(ctx context.Context, placeID string) (domain.PlaceDetail, error) {
	key := placeKey(placeID)
	var d domain.PlaceDetail
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &d); ok {
			return d, nil
		}
	}
	d, err := s.places.PlaceDetails(ctx, placeID)
	if err != nil {
		return domain.PlaceDetail{}, err
	}
	if s.cache != nil && s.opts.CacheTTL > 0 {
		if err := s.cache.Set(ctx, key, d, int(s.opts.CacheTTL.Seconds())); err != nil {
			log.Warn().Str("key", key).Err(err).Msg("cache set failed")
		}
	}
	return d, nil
}

func placeKey(placeID string) string { return "place:" + placeID }

// InvalidatePlace drops a cached details payload.
func (s *AgentService) InvalidatePlace(ctx context.Context, placeID string) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Del(ctx, placeKey(placeID))
}
