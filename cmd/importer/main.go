package main

import (
	"context"
	"database/sql"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"github.com/Harsh636/TravelUttarakhandBackend/internal/adapters/legacy"
	"github.com/Harsh636/TravelUttarakhandBackend/internal/adapters/observability"
	redisad "github.com/Harsh636/TravelUttarakhandBackend/internal/adapters/redis"
	"github.com/Harsh636/TravelUttarakhandBackend/internal/app"
	"github.com/Harsh636/TravelUttarakhandBackend/internal/domain"
	"github.com/Harsh636/TravelUttarakhandBackend/internal/shared"
	"github.com/Harsh636/TravelUttarakhandBackend/internal/storage/filestore"
	mysqlrepo "github.com/Harsh636/TravelUttarakhandBackend/internal/storage/mysql"
)

// importer copies every trek of a legacy deployment (LEGACY_BASE_URL) into
// this service's database and upload directory. Running it twice duplicates rows.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, "trek-importer")

	log.Info().
		Str("base", cfg.LegacyBase).
		Int("workers", cfg.ImportWorkers).
		Int("rps", cfg.ImportRPS).
		Msg("importer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	files, err := filestore.NewLocal(cfg.UploadDir, cfg.UploadPrefix)
	if err != nil {
		log.Fatal().Err(err).Msg("upload dir unusable")
	}

	client, err := legacy.New(cfg.LegacyBase, cfg.ImportRPS)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize legacy client")
	}

	// A running API may have the listing cached; the import invalidates it.
	var cache domain.Cache
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer rc.Close()
		cache = rc
	}

	treks := app.NewTrekService(repo, files, cache, app.NewLinkResolver(cfg.PublicBaseURL))
	imp := app.NewImportService(client, treks)

	list, err := imp.ListLegacy(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("legacy listing failed")
	}
	log.Info().Int("count", len(list)).Msg("legacy treks listed")

	workers := cfg.ImportWorkers
	if workers <= 0 {
		workers = 1
	}
	sem := semaphore.NewWeighted(int64(workers))
	var (
		wg     sync.WaitGroup
		ok     atomic.Int64
		failed atomic.Int64
	)

	for _, entry := range list {
		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Warn().Err(err).Msg("import interrupted")
			break
		}

		wg.Add(1)
		go func(summary map[string]any) {
			defer wg.Done()
			defer sem.Release(1)

			legacyID, _ := app.LegacyID(summary)
			out, err := imp.ImportTrek(ctx, summary)
			if err != nil {
				failed.Add(1)
				log.Warn().Int64("legacy_id", legacyID).Err(err).Msg("import failed")
				return
			}
			ok.Add(1)
			log.Info().Int64("legacy_id", legacyID).Int64("id", out.ID).Str("name", out.Name).Msg("import ok")
		}(entry)
	}

	wg.Wait()
	log.Info().Int64("ok", ok.Load()).Int64("failed", failed.Load()).Msg("import completed")
}
