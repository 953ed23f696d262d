package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/geocoder89/roomhub/internal/cache"
	"github.com/geocoder89/roomhub/internal/config"
	"github.com/geocoder89/roomhub/internal/db"
	"github.com/geocoder89/roomhub/internal/observability"
	"github.com/geocoder89/roomhub/internal/repo/postgres"
)

// seed creates the schema plus demo rooms C01..C10, P01..P10 and users
// user_01..user_09@test.com (password "test", or SEED_USER_PASSWORD) in the
// configured database, then drops the shared rooms cache if redis is set.
func main() {
	cfg := config.Load()
	log := observability.NewLogger(cfg.Env)

	if err := run(cfg, log); err != nil {
		log.Error("seed failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, log *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	seedCfg := db.DefaultSeedConfig()
	seedCfg.HashCost = cfg.BcryptCost
	if pw := os.Getenv("SEED_USER_PASSWORD"); pw != "" {
		seedCfg.UserPassword = pw
	}

	rooms := postgres.NewRoomsRepo(pool, nil)
	users := postgres.NewUsersRepo(pool, nil)

	if err := db.Seed(ctx, rooms, users, seedCfg); err != nil {
		return err
	}

	if cfg.RedisAddr != "" {
		rdb := cache.NewRedis(cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rdb.Close()

		// api instances would otherwise serve the old room list until the TTL ends
		if err := cache.NewCachedRooms(rooms, rdb, cfg.RoomsCacheTTL(), log).Invalidate(ctx); err != nil {
			log.Warn("could not invalidate rooms cache", "addr", cfg.RedisAddr, "err", err)
		}
	}

	log.Info("seed complete", "rooms", len(db.SeedRoomNames(seedCfg)), "users", seedCfg.UserCount)
	return nil
}
