package app_test

import (
	"context"
	"errors"
	"testing"

	"gmb_agent/internal/app"
	"gmb_agent/internal/domain"
)

func TestGetRun_StoreDisabled(t *testing.T) {
	svc := newAgent(houston(), nil, nil)
	if _, err := svc.GetRun(context.Background(), "x"); !errors.Is(err, app.ErrStoreDisabled) {
		t.Fatalf("got %v", err)
	}
	if _, err := svc.ListRuns(context.Background(), 10); !errors.Is(err, app.ErrStoreDisabled) {
		t.Fatalf("got %v", err)
	}
}

func TestGetRun_CacheMissThenHit(t *testing.T) {
	runs := &fakeRuns{}
	cache := &fakeCache{}
	svc := newAgent(houston(), runs, cache)

	res, err := svc.Run(context.Background(), app.RunRequest{Keyword: "k", Location: "l"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	// Miss (first time, populates cache)
	got, err := svc.GetRun(context.Background(), res.ID)
	if err != nil || got.ID != res.ID {
		t.Fatalf("get: %+v %v", got, err)
	}
	// Hit (served from cache)
	if _, err := svc.GetRun(context.Background(), res.ID); err != nil {
		t.Fatalf("get: %v", err)
	}
	if runs.gets != 1 {
		t.Fatalf("expected one store read, got %d", runs.gets)
	}

	if _, err := svc.GetRun(context.Background(), "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
