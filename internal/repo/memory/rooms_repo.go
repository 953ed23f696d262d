package memory

import (
	"context"
	"strings"
	"time"

	"github.com/geocoder89/roomhub/internal/domain/room"
)

type RoomsRepo struct {
	s *Store
}

func NewRoomsRepo(s *Store) *RoomsRepo {
	return &RoomsRepo{s: s}
}

func (r *RoomsRepo) Create(_ context.Context, name string) (room.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, rm := range r.s.rooms {
		if strings.EqualFold(rm.Name, name) {
			return room.Room{}, room.ErrNameTaken
		}
	}

	r.s.nextRoomID++
	rm := room.Room{ID: r.s.nextRoomID, Name: name}
	r.s.rooms[rm.ID] = rm

	return rm, nil
}

func (r *RoomsRepo) GetByID(_ context.Context, id int64) (room.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	rm, ok := r.s.rooms[id]
	if !ok {
		return room.Room{}, room.ErrNotFound
	}
	return rm, nil
}

func (r *RoomsRepo) List(_ context.Context) ([]room.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	return r.s.sortedRooms(), nil
}

func (r *RoomsRepo) ListAvailable(_ context.Context, start, end time.Time) ([]room.Room, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	busy := make(map[int64]struct{})
	for _, res := range r.s.reservations {
		if res.Overlaps(start, end) {
			busy[res.RoomID] = struct{}{}
		}
	}

	out := make([]room.Room, 0, len(r.s.rooms))
	for _, rm := range r.s.sortedRooms() {
		if _, taken := busy[rm.ID]; !taken {
			out = append(out, rm)
		}
	}
	return out, nil
}
