package main

import (
	"context"
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"review_hub/internal/adapters/hostaway"
	server "review_hub/internal/adapters/http_server"
	"review_hub/internal/adapters/observability"
	redisad "review_hub/internal/adapters/redis"
	"review_hub/internal/app"
	"review_hub/internal/domain"
	"review_hub/internal/shared"
	"review_hub/internal/storage/memory"
	mysqlstore "review_hub/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// approval store backend
	var approvals domain.ApprovalStore
	var cache domain.Cache
	switch cfg.ApprovalsBackend {
	case "mysql":
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		store := mysqlstore.New(db)
		if err := store.EnsureSchema(context.Background()); err != nil {
			log.Fatal().Err(err).Msg("approvals schema failed")
		}
		approvals = store
		log.Info().Msg("approvals backed by mysql")
	case "redis":
		rc := redisad.NewClient(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		approvals = redisad.NewApprovalStore(rc)
		if cfg.CacheTTL > 0 {
			cache = redisad.NewCache(rc)
		}
		log.Info().Msg("approvals backed by redis")
	default:
		approvals = memory.NewApprovalStore()
		log.Info().Msg("approvals backed by process memory")
	}

	client, err := hostaway.New(cfg.HostawayBase, cfg.HostawayKey, cfg.ChannelRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("hostaway client init failed")
	}
	svc := app.NewReviewService(client, approvals, cache, cfg.CacheTTL, cfg.FetchTimeout, hostaway.Fallback())

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{S: svc})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
