package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/geocoder89/roomhub/internal/config"
	"github.com/geocoder89/roomhub/internal/db"
	"github.com/geocoder89/roomhub/internal/domain/reservation"
	"github.com/geocoder89/roomhub/internal/domain/room"
	"github.com/geocoder89/roomhub/internal/domain/user"
	"github.com/geocoder89/roomhub/internal/observability"
	"github.com/geocoder89/roomhub/internal/repo/memory"
	"github.com/geocoder89/roomhub/internal/repo/postgres"
)

type roomRepo interface {
	GetByID(ctx context.Context, id int64) (room.Room, error)
	List(ctx context.Context) ([]room.Room, error)
	ListAvailable(ctx context.Context, start, end time.Time) ([]room.Room, error)
	Create(ctx context.Context, name string) (room.Room, error)
}

type userRepo interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
}

type storage struct {
	rooms        roomRepo
	users        userRepo
	reservations reservation.Store
	ping         func(ctx context.Context) error
	close        func()
}

// openStorage wires the repositories for the configured driver. The memory
// driver is always seeded, since nothing else could ever fill it.
func openStorage(ctx context.Context, cfg config.Config, log *slog.Logger, prom *observability.Prom) (storage, error) {
	var st storage

	switch cfg.StorageDriver {
	case config.StorageMemory:
		s := memory.NewStore()
		st = storage{
			rooms:        memory.NewRoomsRepo(s),
			users:        memory.NewUsersRepo(s),
			reservations: memory.NewReservationsRepo(s),
			ping:         s.Ping,
			close:        func() {},
		}

	case config.StoragePostgres:
		pool, err := db.NewPool(ctx, cfg.DBURL, cfg.DBMaxConns)
		if err != nil {
			return storage{}, fmt.Errorf("connect postgres: %w", err)
		}

		if err := db.EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return storage{}, fmt.Errorf("ensure schema: %w", err)
		}

		st = storage{
			rooms:        postgres.NewRoomsRepo(pool, prom),
			users:        postgres.NewUsersRepo(pool, prom),
			reservations: postgres.NewReservationsRepo(pool, prom),
			ping:         pool.Ping,
			close:        pool.Close,
		}

	default:
		return storage{}, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.StorageDriver == config.StorageMemory || cfg.SeedOnStart {
		seedCfg := db.DefaultSeedConfig()
		seedCfg.HashCost = cfg.BcryptCost

		if err := db.Seed(ctx, st.rooms, st.users, seedCfg); err != nil {
			st.close()
			return storage{}, fmt.Errorf("seed: %w", err)
		}
		log.Info("seed data ensured", "driver", cfg.StorageDriver)
	}

	return st, nil
}
