package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"gmb_agent/internal/adapters/google"
	server "gmb_agent/internal/adapters/http_server"
	"gmb_agent/internal/adapters/observability"
	redisad "gmb_agent/internal/adapters/redis"
	"gmb_agent/internal/app"
	"gmb_agent/internal/domain"
	"gmb_agent/internal/shared"
	mysqlrepo "gmb_agent/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// db (optional)
	var runs domain.RunRepository
	if cfg.MySQLDSN != "" {
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		runs = mysqlrepo.New(db)
	} else {
		log.Warn().Msg("MYSQL_DSN empty; reports are not stored")
	}

	// cache (optional)
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable; details cache disabled")
		} else {
			cache = rc
		}
	}

	// deps
	places, err := google.New(cfg.GoogleBase, cfg.GoogleKey, cfg.GoogleRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("google client")
	}
	tpl, err := app.LoadTemplates(cfg.TemplatesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("report templates")
	}
	svc := app.NewAgentService(places, runs, cache, app.NewComposer(tpl), app.AgentOptions{
		RadiusM:  cfg.RadiusM,
		TopN:     cfg.TopN,
		Workers:  cfg.Workers,
		CacheTTL: cfg.CacheTTL,
	})

	// http
	srv := server.New(cfg.CORSOrigins)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{A: svc})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
