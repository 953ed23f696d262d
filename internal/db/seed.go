package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/roomhub/internal/domain/room"
	"github.com/geocoder89/roomhub/internal/domain/user"
	"github.com/geocoder89/roomhub/internal/security"
)

type RoomCreator interface {
	List(ctx context.Context) ([]room.Room, error)
	Create(ctx context.Context, name string) (room.Room, error)
}

type UserCreator interface {
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Create(ctx context.Context, email, passwordHash string) (user.User, error)
}

type SeedConfig struct {
	RoomPrefixes []string // one room per prefix and number, e.g. C01
	RoomsPerKind int
	UserCount    int
	UserPassword string
	HashCost     int
}

func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		RoomPrefixes: []string{"C", "P"},
		RoomsPerKind: 10,
		UserCount:    9,
		UserPassword: "test",
	}
}

func SeedRoomNames(cfg SeedConfig) []string {
	names := make([]string, 0, len(cfg.RoomPrefixes)*cfg.RoomsPerKind)
	for i := 1; i <= cfg.RoomsPerKind; i++ {
		for _, prefix := range cfg.RoomPrefixes {
			names = append(names, fmt.Sprintf("%s%02d", prefix, i))
		}
	}
	return names
}

func SeedUserEmail(i int) string {
	return fmt.Sprintf("user_%02d@test.com", i)
}

// Seed creates the demo rooms and users that are missing. Running it twice
// changes nothing.
func Seed(ctx context.Context, rooms RoomCreator, users UserCreator, cfg SeedConfig) error {
	existing, err := rooms.List(ctx)
	if err != nil {
		return fmt.Errorf("list rooms: %w", err)
	}

	have := make(map[string]struct{}, len(existing))
	for _, rm := range existing {
		have[rm.Name] = struct{}{}
	}

	for _, name := range SeedRoomNames(cfg) {
		if _, ok := have[name]; ok {
			continue
		}
		if _, err := rooms.Create(ctx, name); err != nil {
			return fmt.Errorf("create room %s: %w", name, err)
		}
	}

	if cfg.UserCount == 0 {
		return nil
	}

	hash, err := security.HashPasswordWithCost(cfg.UserPassword, cfg.HashCost)
	if err != nil {
		return err
	}

	for i := 1; i <= cfg.UserCount; i++ {
		email := SeedUserEmail(i)

		_, err := users.GetByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, user.ErrNotFound) {
			return err
		}

		if _, err := users.Create(ctx, email, hash); err != nil {
			return fmt.Errorf("create user %s: %w", email, err)
		}
	}

	return nil
}
