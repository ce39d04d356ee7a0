package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"gmb_agent/internal/adapters/google"
	"gmb_agent/internal/adapters/observability"
	redisad "gmb_agent/internal/adapters/redis"
	"gmb_agent/internal/app"
	"gmb_agent/internal/domain"
	"gmb_agent/internal/shared"
	mysqlrepo "gmb_agent/internal/storage/mysql"
)

var cfg shared.Config

var rootCmd = &cobra.Command{
	Use:           "agent",
	Short:         "agent builds competitive Google Business Profile reports.",
	Long:          `Runs geocode, place search, review analysis and report composition for a keyword and location.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		cfg = shared.Load()
		log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)
	},
}

func init() { //nolint:gochecknoinits // cobra command registration
	rootCmd.AddCommand(newRunCmd(), newSuggestCmd(), newBatchCmd())
}

// newService wires the pipeline from cfg. MySQL and Redis are optional;
// the returned cleanup closes whatever was opened.
func newService(ctx context.Context) (*app.AgentService, func(), error) {
	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	places, err := google.New(cfg.GoogleBase, cfg.GoogleKey, cfg.GoogleRPS)
	if err != nil {
		return nil, cleanup, err
	}
	tpl, err := app.LoadTemplates(cfg.TemplatesFile)
	if err != nil {
		return nil, cleanup, err
	}

	var runs domain.RunRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			return nil, cleanup, fmt.Errorf("open mysql: %w", err)
		}
		closers = append(closers, func() { _ = db.Close() })
		if err := db.PingContext(ctx); err != nil {
			return nil, cleanup, fmt.Errorf("ping mysql: %w", err)
		}
		runs = mysqlrepo.New(db)
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		closers = append(closers, func() { _ = rc.Close() })
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable; details cache disabled")
		} else {
			cache = rc
		}
	}

	svc := app.NewAgentService(places, runs, cache, app.NewComposer(tpl), app.AgentOptions{
		RadiusM:  cfg.RadiusM,
		TopN:     cfg.TopN,
		Workers:  cfg.Workers,
		CacheTTL: cfg.CacheTTL,
	})
	return svc, cleanup, nil
}
