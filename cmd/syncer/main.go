package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"huchu/internal/adapters/configstore"
	"huchu/internal/adapters/observability"
	redisad "huchu/internal/adapters/redis"
	"huchu/internal/app"
	"huchu/internal/shared"
	mysqlrepo "huchu/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.ConfigBase).
		Int("workers", cfg.Workers).
		Msg("syncer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := configstore.New(cfg.ConfigBase, cfg.ConfigKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize config store client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	svc := app.NewSyncService(client, repo, cache)

	records, err := svc.FetchRecords(ctx, "config-api")
	if err != nil {
		log.Fatal().Err(err).Msg("fetch dataset failed")
	}
	if len(records) == 0 {
		log.Warn().Msg("dataset empty, nothing to sync")
		return
	}

	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, rec := range records {
		rec := rec

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, int64(1)); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(int64(1))

			if err := svc.ApplyRecord(ctx, rec); err != nil {
				log.Warn().Str("id", rec.ID).Err(err).Msg("sync failed")
				return
			}
			log.Info().Str("id", rec.ID).Msg("sync ok")
		}()
	}

	wg.Wait()
	svc.InvalidateSnapshot(ctx)
	log.Info().Int("lenders", len(records)).Msg("sync completed")
}
