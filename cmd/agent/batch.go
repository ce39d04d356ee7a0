package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/semaphore"
	"gopkg.in/yaml.v3"

	"gmb_agent/internal/app"
)

// batchFile lists the runs to execute, e.g.
//
//	jobs:
//	  - keyword: meat market
//	    location: Houston, TX
//	    top_n: 8
type batchFile struct {
	Jobs []app.RunRequest `yaml:"jobs"`
}

type runner interface {
	Run(ctx context.Context, req app.RunRequest) (app.RunResult, error)
}

func newBatchCmd() *cobra.Command {
	var outDir string
	var parallel int

	cmd := &cobra.Command{
		Use:   "batch [jobs.yaml]",
		Short: "Run every job in a YAML file, one output directory per run.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := loadBatch(args[0])
			if err != nil {
				return err
			}
			if outDir == "" {
				outDir = cfg.OutputDir
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, cleanup, err := newService(ctx)
			defer cleanup()
			if err != nil {
				return err
			}
			failed := runBatch(ctx, svc, jobs, outDir, parallel)
			if failed > 0 {
				return fmt.Errorf("%d of %d jobs failed", failed, len(jobs))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "output directory (default OUTPUT_DIR)")
	cmd.Flags().IntVarP(&parallel, "parallel", "p", 2, "runs executed at the same time")
	return cmd
}

func loadBatch(path string) ([]app.RunRequest, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var f batchFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(f.Jobs) == 0 {
		return nil, fmt.Errorf("%s has no jobs", path)
	}
	return f.Jobs, nil
}

// runBatch executes jobs with bounded concurrency and writes each result to
// outDir/<run id>. It returns the number of failed jobs.
func runBatch(ctx context.Context, r runner, jobs []app.RunRequest, outDir string, parallel int) int {
	if parallel <= 0 {
		parallel = 1
	}
	sem := semaphore.NewWeighted(int64(parallel))
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0
	fail := func() { mu.Lock(); failed++; mu.Unlock() }

	for i, job := range jobs {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Int("remaining", len(jobs)-i).Msg("batch interrupted")
			mu.Lock()
			failed += len(jobs) - i
			mu.Unlock()
			break
		}
		wg.Add(1)
		go func(job app.RunRequest) {
			defer wg.Done()
			defer sem.Release(1)

			res, err := r.Run(ctx, job)
			if err != nil {
				log.Warn().Str("keyword", job.Keyword).Str("location", job.Location).Err(err).Msg("run failed")
				fail()
				return
			}
			dir := filepath.Join(outDir, res.ID)
			if err := writeDocuments(dir, res); err != nil {
				log.Warn().Str("id", res.ID).Err(err).Msg("write failed")
				fail()
				return
			}
			log.Info().Str("id", res.ID).Str("keyword", job.Keyword).Str("out", dir).Msg("run ok")
		}(job)
	}

	wg.Wait()
	log.Info().Int("jobs", len(jobs)).Int("failed", failed).Msg("batch completed")
	return failed
}
