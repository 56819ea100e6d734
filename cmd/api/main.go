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

	server "github.com/Harsh636/TravelUttarakhandBackend/internal/adapters/http_server"
	"github.com/Harsh636/TravelUttarakhandBackend/internal/adapters/observability"
	redisad "github.com/Harsh636/TravelUttarakhandBackend/internal/adapters/redis"
	"github.com/Harsh636/TravelUttarakhandBackend/internal/app"
	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
	"github.com/Harsh636/TravelUttarakhandBackend/internal/shared"
	"github.com/Harsh636/TravelUttarakhandBackend/internal/storage/filestore"
	mysqlrepo "github.com/Harsh636/TravelUttarakhandBackend/internal/storage/mysql"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "trek-api")

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = db.PingContext(pingCtx)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	files, err := filestore.NewLocal(cfg.UploadDir, cfg.UploadPrefix)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("upload dir unusable")
	}

	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		if err := rc.Ping(ctx); err != nil {
			// reads fall back to MySQL on every cache error
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable at startup")
		}
		cache = rc
	} else {
		log.Info().Msg("REDIS_ADDR empty; read cache disabled")
	}

	links := app.NewLinkResolver(cfg.PublicBaseURL)
	cmd := app.NewTrekService(repo, files, cache, links)
	q := app.NewQueryService(repo, cache, cfg.CacheTTL, links)

	// http
	srv := server.New(server.Options{AllowedOrigins: cfg.CORSOrigins})
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountStatic(files.Prefix(), files.Dir())
	if files.Prefix() != "images" {
		// links written by older deployments
		srv.MountStatic("images", files.Dir())
	}
	srv.MountHandlers(&server.Handlers{
		Cmd:            cmd,
		Q:              q,
		Ready:          repo.Ping,
		Dev:            cfg.Dev(),
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	httpSrv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	drain, cancelDrain := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelDrain()
	if err := httpSrv.Shutdown(drain); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
