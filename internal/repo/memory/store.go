package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/geocoder89/roomhub/internal/domain/reservation"
	"github.com/geocoder89/roomhub/internal/domain/room"
	"github.com/geocoder89/roomhub/internal/domain/user"
)

// Store keeps rooms, users and reservations in process memory. The typed
// repos below share one Store.
type Store struct {
	mu sync.RWMutex

	rooms        map[int64]room.Room
	users        map[int64]user.User
	reservations map[int64]reservation.Reservation

	nextRoomID        int64
	nextUserID        int64
	nextReservationID int64

	roomLocksMu sync.Mutex
	roomLocks   map[int64]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		rooms:        make(map[int64]room.Room),
		users:        make(map[int64]user.User),
		reservations: make(map[int64]reservation.Reservation),
		roomLocks:    make(map[int64]*sync.Mutex),
	}
}

// Ping satisfies the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) roomLock(roomID int64) *sync.Mutex {
	s.roomLocksMu.Lock()
	defer s.roomLocksMu.Unlock()

	l, ok := s.roomLocks[roomID]
	if !ok {
		l = &sync.Mutex{}
		s.roomLocks[roomID] = l
	}
	return l
}

// caller holds s.mu
func (s *Store) detail(r reservation.Reservation) reservation.Detailed {
	return reservation.Detailed{
		Reservation: r,
		Room:        s.rooms[r.RoomID],
		User:        s.users[r.UserID],
	}
}

// caller holds s.mu
func (s *Store) sortedRooms() []room.Room {
	out := make([]room.Room, 0, len(s.rooms))
	for _, rm := range s.rooms {
		out = append(out, rm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
