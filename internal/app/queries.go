package app

import (
	"context"

	"gmb_agent/internal/domain"
)

// GetRun loads a stored run. Runs never change once saved, so they are
// cached under run:<id> with the details TTL.
func (s *AgentService) GetRun(ctx context.Context, id string) (domain.Run, error) {
	if s.runs == nil {
		return domain.Run{}, ErrStoreDisabled
	}
	key := "run:" + id
	var run domain.Run
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &run); ok {
			return run, nil
		}
	}
	run, err := s.runs.GetRun(ctx, id)
	if err != nil {
		return domain.Run{}, err
	}
	if s.cache != nil && s.opts.CacheTTL > 0 {
		_ = s.cache.Set(ctx, key, run, int(s.opts.CacheTTL.Seconds()))
	}
	return run, nil
}

// ListRuns returns the newest summaries first. Not cached: it changes on every run.
func (s *AgentService) ListRuns(ctx context.Context, limit int) ([]domain.RunSummary, error) {
	if s.runs == nil {
		return nil, ErrStoreDisabled
	}
	return s.runs.ListRuns(ctx, limit)
}
