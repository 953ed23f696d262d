package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/geocoder89/roomhub/internal/domain/room"
)

const roomsListKey = "roomhub:rooms:list:v1"

type RoomSource interface {
	GetByID(ctx context.Context, id int64) (room.Room, error)
	List(ctx context.Context) ([]room.Room, error)
	ListAvailable(ctx context.Context, start, end time.Time) ([]room.Room, error)
}

// CachedRooms serves the room list from a Store. Rooms only change through
// seeding, which calls Invalidate; the TTL bounds anything else. Cache errors
// are logged and the source is used instead.
type CachedRooms struct {
	src   RoomSource
	store Store
	ttl   time.Duration
	log   *slog.Logger
}

func NewCachedRooms(src RoomSource, store Store, ttl time.Duration, log *slog.Logger) *CachedRooms {
	if log == nil {
		log = slog.Default()
	}
	return &CachedRooms{src: src, store: store, ttl: ttl, log: log}
}

func (c *CachedRooms) List(ctx context.Context) ([]room.Room, error) {
	raw, ok, err := c.store.Get(ctx, roomsListKey)
	if err != nil {
		c.log.WarnContext(ctx, "rooms cache get failed", "err", err)
	}

	if ok {
		var rooms []room.Room
		if err := json.Unmarshal(raw, &rooms); err == nil {
			return rooms, nil
		}
		c.log.WarnContext(ctx, "rooms cache entry unreadable, dropping it")
		_ = c.store.Delete(ctx, roomsListKey)
	}

	rooms, err := c.src.List(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(rooms); err == nil {
		if err := c.store.Set(ctx, roomsListKey, raw, c.ttl); err != nil {
			c.log.WarnContext(ctx, "rooms cache set failed", "err", err)
		}
	}

	return rooms, nil
}

func (c *CachedRooms) GetByID(ctx context.Context, id int64) (room.Room, error) {
	return c.src.GetByID(ctx, id)
}

// ListAvailable depends on reservations and is never cached.
func (c *CachedRooms) ListAvailable(ctx context.Context, start, end time.Time) ([]room.Room, error) {
	return c.src.ListAvailable(ctx, start, end)
}

func (c *CachedRooms) Invalidate(ctx context.Context) error {
	return c.store.Delete(ctx, roomsListKey)
}
